package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
)

// DeadlineRepository defines the interface for compliance deadline data access
type DeadlineRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ComplianceDeadline, error)
	Create(ctx context.Context, deadline *models.ComplianceDeadline) error
	Update(ctx context.Context, deadline *models.ComplianceDeadline) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *DeadlineQuery) ([]models.ComplianceDeadline, int64, error)
	FindDuePastUncompleted(ctx context.Context, now time.Time) ([]models.ComplianceDeadline, error)
	CountOpen(ctx context.Context) (int64, error)
	CountOverdueByDate(ctx context.Context, now time.Time) (int64, error)
	CompletionRate(ctx context.Context) (float64, error)
	WithTx(tx *gorm.DB) DeadlineRepository
}

type deadlineRepository struct {
	db *gorm.DB
}

// NewDeadlineRepository creates a new deadline repository
func NewDeadlineRepository(db *gorm.DB) DeadlineRepository {
	return &deadlineRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *deadlineRepository) WithTx(tx *gorm.DB) DeadlineRepository {
	return &deadlineRepository{db: tx}
}

func (r *deadlineRepository) FindByID(ctx context.Context, id uint) (*models.ComplianceDeadline, error) {
	var deadline models.ComplianceDeadline
	err := r.db.WithContext(ctx).
		Preload("Document").
		Preload("Assignee").
		First(&deadline, id).Error
	if err != nil {
		return nil, err
	}
	return &deadline, nil
}

func (r *deadlineRepository) Create(ctx context.Context, deadline *models.ComplianceDeadline) error {
	return r.db.WithContext(ctx).Create(deadline).Error
}

func (r *deadlineRepository) Update(ctx context.Context, deadline *models.ComplianceDeadline) error {
	return r.db.WithContext(ctx).Save(deadline).Error
}

func (r *deadlineRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ComplianceDeadline{}, id).Error
}

func (r *deadlineRepository) List(ctx context.Context, query *DeadlineQuery) ([]models.ComplianceDeadline, int64, error) {
	var deadlines []models.ComplianceDeadline
	var total int64

	db := r.db.WithContext(ctx).Model(&models.ComplianceDeadline{})
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.AssigneeID > 0 {
		db = db.Where("assignee_id = ?", query.AssigneeID)
	}
	if query.DocumentID > 0 {
		db = db.Where("document_id = ?", query.DocumentID)
	}
	if query.Search != "" {
		db = db.Where("title LIKE ?", "%"+query.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Document").
		Preload("Assignee").
		Order("deadline ASC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&deadlines).Error
	return deadlines, total, err
}

func (r *deadlineRepository) FindDuePastUncompleted(ctx context.Context, now time.Time) ([]models.ComplianceDeadline, error) {
	var deadlines []models.ComplianceDeadline
	err := r.db.WithContext(ctx).
		Where("deadline < ? AND status <> ?", now, models.DeadlineStatusCompleted).
		Preload("Assignee").
		Find(&deadlines).Error
	return deadlines, err
}

func (r *deadlineRepository) CountOpen(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ComplianceDeadline{}).
		Where("status <> ?", models.DeadlineStatusCompleted).
		Count(&total).Error
	return total, err
}

func (r *deadlineRepository) CountOverdueByDate(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ComplianceDeadline{}).
		Where("deadline < ? AND status <> ?", now, models.DeadlineStatusCompleted).
		Count(&total).Error
	return total, err
}

func (r *deadlineRepository) CompletionRate(ctx context.Context) (float64, error) {
	var total, completed int64
	db := r.db.WithContext(ctx).Model(&models.ComplianceDeadline{})
	if err := db.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.ComplianceDeadline{}).
		Where("status = ?", models.DeadlineStatusCompleted).
		Count(&completed).Error
	if err != nil {
		return 0, err
	}
	return float64(completed) / float64(total) * 100, nil
}
