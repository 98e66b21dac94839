package models

import (
	"time"
)

// ComplianceDeadline tracks a due-date item, optionally linked to a document
// and an assignee. The stored status is user-driven; whether a deadline is
// overdue by date is always derived at read time (OverdueByDate), so the two
// signals can legitimately disagree.
type ComplianceDeadline struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    time.Time  `gorm:"not null;index" json:"deadline"`
	Status      string     `gorm:"default:not_started;index" json:"status"`
	DocumentID  *uint      `gorm:"index" json:"document_id"`
	AssigneeID  *uint      `gorm:"index" json:"assignee_id"`
	CreatedByID uint       `gorm:"not null" json:"created_by_id"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Document *Document `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
}

// TableName specifies the table name for ComplianceDeadline
func (ComplianceDeadline) TableName() string {
	return "compliance_deadlines"
}

// Deadline status constants
const (
	DeadlineStatusNotStarted = "not_started"
	DeadlineStatusInProgress = "in_progress"
	DeadlineStatusCompleted  = "completed"
	DeadlineStatusOverdue    = "overdue"
)

// ValidDeadlineStatus reports whether s is a known deadline status
func ValidDeadlineStatus(s string) bool {
	switch s {
	case DeadlineStatusNotStarted, DeadlineStatusInProgress, DeadlineStatusCompleted, DeadlineStatusOverdue:
		return true
	}
	return false
}

// IsCompleted returns true if the deadline has been completed
func (d *ComplianceDeadline) IsCompleted() bool {
	return d.Status == DeadlineStatusCompleted
}

// OverdueByDate derives overdue-ness from the deadline timestamp. This is
// independent of the stored status field.
func (d *ComplianceDeadline) OverdueByDate(now time.Time) bool {
	return !d.IsCompleted() && d.Deadline.Before(now)
}

// DeadlineResponse is the JSON response format for compliance deadlines
type DeadlineResponse struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Deadline      time.Time  `json:"deadline"`
	Status        string     `json:"status"`
	OverdueByDate bool       `json:"overdue_by_date"`
	DocumentID    *uint      `json:"document_id"`
	DocumentTitle string     `json:"document_title,omitempty"`
	AssigneeID    *uint      `json:"assignee_id"`
	AssigneeName  string     `json:"assignee_name,omitempty"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToResponse converts ComplianceDeadline to DeadlineResponse
func (d *ComplianceDeadline) ToResponse() DeadlineResponse {
	resp := DeadlineResponse{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		Deadline:      d.Deadline,
		Status:        d.Status,
		OverdueByDate: d.OverdueByDate(time.Now()),
		DocumentID:    d.DocumentID,
		AssigneeID:    d.AssigneeID,
		CompletedAt:   d.CompletedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.Document != nil {
		resp.DocumentTitle = d.Document.Title
	}
	if d.Assignee != nil {
		resp.AssigneeName = d.Assignee.FullName
	}
	return resp
}
