package models

import (
	"time"
)

// AuditEntry is an append-only record of an action taken against a document or
// user. Entries are compliance evidence: no code path updates or deletes them.
type AuditEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	DocumentID *uint     `gorm:"index" json:"document_id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	// Associations
	User     User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Document *Document `gorm:"foreignKey:DocumentID" json:"-"`
}

// TableName specifies the table name for AuditEntry
func (AuditEntry) TableName() string {
	return "audit_trail"
}

// Audit action constants
const (
	AuditDocumentCreated   = "DOCUMENT_CREATED"
	AuditDocumentUpdated   = "DOCUMENT_UPDATED"
	AuditDocumentSubmitted = "DOCUMENT_SUBMITTED"
	AuditDocumentApproved  = "DOCUMENT_APPROVED"
	AuditDocumentReturned  = "DOCUMENT_RETURNED"
	AuditDocumentExpired   = "DOCUMENT_EXPIRED"
	AuditDocumentArchived  = "DOCUMENT_ARCHIVED"
	AuditDocumentSigned    = "DOCUMENT_SIGNED"
	AuditDeadlineCreated   = "DEADLINE_CREATED"
	AuditDeadlineUpdated   = "DEADLINE_UPDATED"
	AuditDeadlineCompleted = "DEADLINE_COMPLETED"
	AuditTemplateCreated   = "TEMPLATE_CREATED"
	AuditTemplateUpdated   = "TEMPLATE_UPDATED"
	AuditFileUploaded      = "FILE_UPLOADED"
	AuditFileDeleted       = "FILE_DELETED"
	AuditUserLogin         = "USER_LOGIN"
)

// AuditEntryResponse is the JSON response format for audit entries
type AuditEntryResponse struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	UserName   string    `json:"user_name"`
	DocumentID *uint     `json:"document_id"`
	Action     string    `json:"action"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts AuditEntry to AuditEntryResponse
func (a *AuditEntry) ToResponse() AuditEntryResponse {
	return AuditEntryResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		UserName:   a.User.FullName,
		DocumentID: a.DocumentID,
		Action:     a.Action,
		Details:    a.Details,
		IPAddress:  a.IPAddress,
		CreatedAt:  a.CreatedAt,
	}
}
