package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
)

// UserDocumentRepository defines the interface for user file metadata access
type UserDocumentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.UserDocument, error)
	Create(ctx context.Context, doc *models.UserDocument) error
	Update(ctx context.Context, doc *models.UserDocument) error
	FindByUser(ctx context.Context, userID uint, query *ListQuery) ([]models.UserDocument, int64, error)
	CountByCategory(ctx context.Context) ([]models.CategoryBucket, error)
}

type userDocumentRepository struct {
	db *gorm.DB
}

// NewUserDocumentRepository creates a new user document repository
func NewUserDocumentRepository(db *gorm.DB) UserDocumentRepository {
	return &userDocumentRepository{db: db}
}

func (r *userDocumentRepository) FindByID(ctx context.Context, id uint) (*models.UserDocument, error) {
	var doc models.UserDocument
	err := r.db.WithContext(ctx).First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *userDocumentRepository) Create(ctx context.Context, doc *models.UserDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *userDocumentRepository) Update(ctx context.Context, doc *models.UserDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *userDocumentRepository) FindByUser(ctx context.Context, userID uint, query *ListQuery) ([]models.UserDocument, int64, error) {
	var docs []models.UserDocument
	var total int64

	db := r.db.WithContext(ctx).
		Model(&models.UserDocument{}).
		Where("user_id = ? AND status = ?", userID, models.UserDocumentStatusActive)

	if category := query.Filters["category"]; category != "" {
		db = db.Where("category = ?", category)
	}
	if query.Filters["starred"] == "true" {
		db = db.Where("starred = ?", true)
	}
	if query.Search != "" {
		db = db.Where("file_name LIKE ?", "%"+query.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&docs).Error
	return docs, total, err
}

func (r *userDocumentRepository) CountByCategory(ctx context.Context) ([]models.CategoryBucket, error) {
	var buckets []models.CategoryBucket
	err := r.db.WithContext(ctx).
		Model(&models.UserDocument{}).
		Select("category, COUNT(*) as count, COALESCE(SUM(size), 0) as total_bytes").
		Where("status = ?", models.UserDocumentStatusActive).
		Group("category").
		Order("category ASC").
		Scan(&buckets).Error
	return buckets, err
}
