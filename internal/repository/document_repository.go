package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
)

// DocumentRepository defines the interface for document data access
type DocumentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Document, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Document, error)
	Create(ctx context.Context, document *models.Document) error
	Update(ctx context.Context, document *models.Document) error
	List(ctx context.Context, query *DocumentQuery) ([]models.Document, int64, error)
	FindVersions(ctx context.Context, documentID uint) ([]models.DocumentVersion, error)
	CreateVersion(ctx context.Context, version *models.DocumentVersion) error
	FindActivePastExpiry(ctx context.Context, now time.Time) ([]models.Document, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) ([]models.MonthlyTrendPoint, error)
	WithTx(tx *gorm.DB) DocumentRepository
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *documentRepository) WithTx(tx *gorm.DB) DocumentRepository {
	return &documentRepository{db: tx}
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).First(&document, id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Document, error) {
	var document models.Document
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Template").
		Preload("Signatures", func(db *gorm.DB) *gorm.DB {
			return db.Order("signed_at ASC")
		}).
		Preload("Signatures.User").
		First(&document, id).Error
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *documentRepository) Create(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *documentRepository) Update(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Save(document).Error
}

func (r *documentRepository) List(ctx context.Context, query *DocumentQuery) ([]models.Document, int64, error) {
	var documents []models.Document
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Document{})

	// Regular users only see their own documents
	if !query.IsElevated && query.CreatedByID > 0 {
		db = db.Where("created_by_id = ?", query.CreatedByID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.TemplateID > 0 {
		db = db.Where("template_id = ?", query.TemplateID)
	}
	if query.Search != "" {
		db = db.Where("title LIKE ?", "%"+query.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("CreatedBy").
		Order("updated_at DESC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&documents).Error
	return documents, total, err
}

func (r *documentRepository) FindVersions(ctx context.Context, documentID uint) ([]models.DocumentVersion, error) {
	var versions []models.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Preload("CreatedBy").
		Order("version ASC").
		Find(&versions).Error
	return versions, err
}

func (r *documentRepository) CreateVersion(ctx context.Context, version *models.DocumentVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *documentRepository) FindActivePastExpiry(ctx context.Context, now time.Time) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.DocumentStatusActive, now).
		Find(&documents).Error
	return documents, err
}

func (r *documentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

// CountCreatedSince buckets document creation counts by calendar month.
// Bucketing is done in Go so the query stays portable across postgres and the
// sqlite test database.
func (r *documentRepository) CountCreatedSince(ctx context.Context, since time.Time) ([]models.MonthlyTrendPoint, error) {
	var createdAts []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &createdAts).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, t := range createdAts {
		counts[t.Format("2006-01")]++
	}

	// Emit a point for every month in range, including empty ones
	var points []models.MonthlyTrendPoint
	now := time.Now()
	for m := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(now); m = m.AddDate(0, 1, 0) {
		label := m.Format("2006-01")
		points = append(points, models.MonthlyTrendPoint{Label: label, Count: counts[label]})
	}
	return points, nil
}
