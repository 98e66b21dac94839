package models

import (
	"time"
)

// UserDocument is a user-uploaded file. FileKey is always an object-storage
// key, never an API endpoint path.
type UserDocument struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	FileName    string    `gorm:"not null" json:"file_name"`
	FileKey     string    `gorm:"not null;uniqueIndex" json:"file_key"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	Size        int64     `json:"size"`
	Category    string    `gorm:"size:50;default:general;index" json:"category"`
	Starred     bool      `gorm:"default:false;index" json:"starred"`
	Status      string    `gorm:"size:20;default:active;index" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for UserDocument
func (UserDocument) TableName() string {
	return "user_documents"
}

// UserDocument status constants
const (
	UserDocumentStatusActive  = "active"
	UserDocumentStatusDeleted = "deleted"
)

// UserDocumentResponse is the JSON response format for user documents
type UserDocumentResponse struct {
	ID          uint      `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Category    string    `json:"category"`
	Starred     bool      `json:"starred"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToResponse converts UserDocument to UserDocumentResponse
func (u *UserDocument) ToResponse() UserDocumentResponse {
	return UserDocumentResponse{
		ID:          u.ID,
		FileName:    u.FileName,
		ContentType: u.ContentType,
		Size:        u.Size,
		Category:    u.Category,
		Starred:     u.Starred,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
	}
}

// BulkUploadResult reports the outcome for one file in a bulk upload
type BulkUploadResult struct {
	FileName   string `json:"file_name"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	DocumentID uint   `json:"document_id,omitempty"`
}

// BulkUploadSummary aggregates per-file outcomes of a bulk upload
type BulkUploadSummary struct {
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []BulkUploadResult `json:"results"`
}
