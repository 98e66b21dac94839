package models

import (
	"time"
)

// Signature records a user's assent to a document. A user may sign a given
// document at most once; the unique index backs the service-level check.
type Signature struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index;uniqueIndex:idx_document_signer" json:"document_id"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_document_signer" json:"user_id"`
	Payload    string    `gorm:"type:text;not null" json:"payload"` // drawn image data URL or typed text
	IPAddress  string    `gorm:"size:45" json:"ip_address"`
	UserAgent  string    `gorm:"size:255" json:"user_agent"`
	Metadata   string    `gorm:"type:text" json:"metadata"` // JSON blob from the client
	SignedAt   time.Time `gorm:"index" json:"signed_at"`

	// Associations
	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
	User     User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Signature
func (Signature) TableName() string {
	return "signatures"
}

// SignatureResponse is the JSON response format for signatures
type SignatureResponse struct {
	ID         uint      `json:"id"`
	DocumentID uint      `json:"document_id"`
	UserID     uint      `json:"user_id"`
	SignerName string    `json:"signer_name"`
	Payload    string    `json:"payload"`
	IPAddress  string    `json:"ip_address"`
	Metadata   string    `json:"metadata"`
	SignedAt   time.Time `json:"signed_at"`
}

// ToResponse converts Signature to SignatureResponse
func (s *Signature) ToResponse() SignatureResponse {
	return SignatureResponse{
		ID:         s.ID,
		DocumentID: s.DocumentID,
		UserID:     s.UserID,
		SignerName: s.User.FullName,
		Payload:    s.Payload,
		IPAddress:  s.IPAddress,
		Metadata:   s.Metadata,
		SignedAt:   s.SignedAt,
	}
}
