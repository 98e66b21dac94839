package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
)

// AuditService records and serves the append-only audit trail. Entries are
// compliance evidence: they are written once and never touched again.
type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// ActionContext carries request-scoped actor details into audit entries
type ActionContext struct {
	UserID    uint
	IPAddress string
	UserAgent string
}

// Record appends an audit entry
func (s *AuditService) Record(ctx context.Context, actor ActionContext, action string, documentID *uint, details string) error {
	entry := &models.AuditEntry{
		UserID:     actor.UserID,
		DocumentID: documentID,
		Action:     action,
		Details:    details,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	}
	return s.repo.Create(ctx, entry)
}

// RecordTx appends an audit entry inside an existing transaction, so the
// entry commits or rolls back together with the mutation it describes.
func (s *AuditService) RecordTx(ctx context.Context, tx *gorm.DB, actor ActionContext, action string, documentID *uint, details string) error {
	entry := &models.AuditEntry{
		UserID:     actor.UserID,
		DocumentID: documentID,
		Action:     action,
		Details:    details,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	}
	return s.repo.WithTx(tx).Create(ctx, entry)
}

// ListForDocument returns the full trail for one document in insertion order
func (s *AuditService) ListForDocument(ctx context.Context, documentID uint) ([]models.AuditEntry, error) {
	return s.repo.FindByDocument(ctx, documentID)
}

// List retrieves audit entries with filters, newest first
func (s *AuditService) List(ctx context.Context, query *repository.ListQuery) ([]models.AuditEntry, int64, error) {
	return s.repo.List(ctx, query)
}

// Recent returns the latest entries across all documents
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	return s.repo.FindRecent(ctx, limit)
}
