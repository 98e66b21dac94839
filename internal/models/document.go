package models

import (
	"time"
)

// Document represents a compliance document with versioned content
type Document struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Status      string     `gorm:"default:draft;index" json:"status"`
	Version     int        `gorm:"default:1;not null" json:"version"`
	CreatedByID uint       `gorm:"not null;index" json:"created_by_id"`
	TemplateID  *uint      `gorm:"index" json:"template_id"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	ArchivedAt  *time.Time `json:"archived_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	CreatedBy  User              `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	Template   *Template         `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Versions   []DocumentVersion `gorm:"foreignKey:DocumentID" json:"versions,omitempty"`
	Signatures []Signature       `gorm:"foreignKey:DocumentID" json:"signatures,omitempty"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "documents"
}

// Document status constants
const (
	DocumentStatusDraft           = "draft"
	DocumentStatusPendingApproval = "pending_approval"
	DocumentStatusActive          = "active"
	DocumentStatusExpired         = "expired"
	DocumentStatusArchived        = "archived"
)

// MaySubmit returns true if the document can be sent for approval
func (d *Document) MaySubmit() bool {
	return d.Status == DocumentStatusDraft
}

// MayReturn returns true if the document can be sent back to draft
func (d *Document) MayReturn() bool {
	return d.Status == DocumentStatusPendingApproval
}

// MayApprove returns true if the document can be approved
func (d *Document) MayApprove() bool {
	return d.Status == DocumentStatusPendingApproval
}

// MayExpire returns true if the document can be marked expired
func (d *Document) MayExpire() bool {
	return d.Status == DocumentStatusActive
}

// MayArchive returns true if the document can be archived
func (d *Document) MayArchive() bool {
	return d.Status == DocumentStatusActive || d.Status == DocumentStatusExpired
}

// IsEditable returns true if content edits are allowed
func (d *Document) IsEditable() bool {
	return d.Status == DocumentStatusDraft
}

// IsSignable returns true if signatures may be added in the current status
func (d *Document) IsSignable() bool {
	switch d.Status {
	case DocumentStatusDraft, DocumentStatusExpired, DocumentStatusArchived:
		return false
	}
	return true
}

// IsPastExpiry returns true if the document has an expiry date in the past
func (d *Document) IsPastExpiry(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}

// DocumentResponse is the JSON response format for documents
type DocumentResponse struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Status         string     `json:"status"`
	Version        int        `json:"version"`
	CreatedByID    uint       `json:"created_by_id"`
	CreatedByName  string     `json:"created_by_name"`
	TemplateID     *uint      `json:"template_id"`
	TemplateName   string     `json:"template_name,omitempty"`
	SignatureCount int        `json:"signature_count"`
	ExpiresAt      *time.Time `json:"expires_at"`
	ApprovedAt     *time.Time `json:"approved_at"`
	ArchivedAt     *time.Time `json:"archived_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToResponse converts Document to DocumentResponse
func (d *Document) ToResponse() DocumentResponse {
	resp := DocumentResponse{
		ID:             d.ID,
		Title:          d.Title,
		Content:        d.Content,
		Status:         d.Status,
		Version:        d.Version,
		CreatedByID:    d.CreatedByID,
		TemplateID:     d.TemplateID,
		SignatureCount: len(d.Signatures),
		ExpiresAt:      d.ExpiresAt,
		ApprovedAt:     d.ApprovedAt,
		ArchivedAt:     d.ArchivedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	resp.CreatedByName = d.CreatedBy.FullName
	if d.Template != nil {
		resp.TemplateName = d.Template.Name
	}
	return resp
}

// DocumentVersion is an immutable snapshot of a document's content
type DocumentVersion struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DocumentID  uint      `gorm:"not null;index;uniqueIndex:idx_document_version" json:"document_id"`
	Version     int       `gorm:"not null;uniqueIndex:idx_document_version" json:"version"`
	Content     string    `gorm:"type:text" json:"content"`
	CreatedByID uint      `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Associations
	Document  Document `gorm:"foreignKey:DocumentID" json:"-"`
	CreatedBy User     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TableName specifies the table name for DocumentVersion
func (DocumentVersion) TableName() string {
	return "document_versions"
}

// DocumentVersionResponse is the JSON response format for document versions
type DocumentVersionResponse struct {
	ID            uint      `json:"id"`
	DocumentID    uint      `json:"document_id"`
	Version       int       `json:"version"`
	Content       string    `json:"content"`
	CreatedByID   uint      `json:"created_by_id"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToResponse converts DocumentVersion to DocumentVersionResponse
func (v *DocumentVersion) ToResponse() DocumentVersionResponse {
	return DocumentVersionResponse{
		ID:            v.ID,
		DocumentID:    v.DocumentID,
		Version:       v.Version,
		Content:       v.Content,
		CreatedByID:   v.CreatedByID,
		CreatedByName: v.CreatedBy.FullName,
		CreatedAt:     v.CreatedAt,
	}
}
