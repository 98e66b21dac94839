package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
)

// AuditRepository defines the interface for audit trail access. The trail is
// append-only: the interface deliberately exposes no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	FindByDocument(ctx context.Context, documentID uint) ([]models.AuditEntry, error)
	List(ctx context.Context, query *ListQuery) ([]models.AuditEntry, int64, error)
	FindRecent(ctx context.Context, limit int) ([]models.AuditEntry, error)
	WithTx(tx *gorm.DB) AuditRepository
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *auditRepository) WithTx(tx *gorm.DB) AuditRepository {
	return &auditRepository{db: tx}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByDocument returns the full trail for a document in insertion order.
// Insertion order is chronological order; rows are never reordered.
func (r *auditRepository) FindByDocument(ctx context.Context, documentID uint) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Preload("User").
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *auditRepository) List(ctx context.Context, query *ListQuery) ([]models.AuditEntry, int64, error) {
	var entries []models.AuditEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.AuditEntry{})
	if action := query.Filters["action"]; action != "" {
		db = db.Where("action = ?", action)
	}
	if userID := query.Filters["user_id"]; userID != "" {
		db = db.Where("user_id = ?", userID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").
		Order("created_at DESC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&entries).Error
	return entries, total, err
}

func (r *auditRepository) FindRecent(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
