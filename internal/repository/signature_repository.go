package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
)

// SignatureRepository defines the interface for signature data access
type SignatureRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Signature, error)
	FindByDocument(ctx context.Context, documentID uint) ([]models.Signature, error)
	Exists(ctx context.Context, documentID, userID uint) (bool, error)
	Create(ctx context.Context, signature *models.Signature) error
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	WithTx(tx *gorm.DB) SignatureRepository
}

type signatureRepository struct {
	db *gorm.DB
}

// NewSignatureRepository creates a new signature repository
func NewSignatureRepository(db *gorm.DB) SignatureRepository {
	return &signatureRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *signatureRepository) WithTx(tx *gorm.DB) SignatureRepository {
	return &signatureRepository{db: tx}
}

func (r *signatureRepository) FindByID(ctx context.Context, id uint) (*models.Signature, error) {
	var signature models.Signature
	err := r.db.WithContext(ctx).Preload("User").First(&signature, id).Error
	if err != nil {
		return nil, err
	}
	return &signature, nil
}

func (r *signatureRepository) FindByDocument(ctx context.Context, documentID uint) ([]models.Signature, error) {
	var signatures []models.Signature
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Preload("User").
		Order("signed_at ASC").
		Find(&signatures).Error
	return signatures, err
}

func (r *signatureRepository) Exists(ctx context.Context, documentID, userID uint) (bool, error) {
	var signature models.Signature
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND user_id = ?", documentID, userID).
		First(&signature).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *signatureRepository) Create(ctx context.Context, signature *models.Signature) error {
	return r.db.WithContext(ctx).Create(signature).Error
}

func (r *signatureRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Signature{}).Count(&total).Error
	return total, err
}

func (r *signatureRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Signature{}).
		Where("signed_at >= ?", since).
		Count(&total).Error
	return total, err
}
