package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
)

// TemplateRepository defines the interface for template data access
type TemplateRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Template, error)
	FindByName(ctx context.Context, name string) (*models.Template, error)
	Create(ctx context.Context, template *models.Template) error
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Template, int64, error)
	WithTx(tx *gorm.DB) TemplateRepository
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) FindByID(ctx context.Context, id uint) (*models.Template, error) {
	var template models.Template
	err := r.db.WithContext(ctx).First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) FindByName(ctx context.Context, name string) (*models.Template, error) {
	var template models.Template
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) Create(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) Update(ctx context.Context, template *models.Template) error {
	return r.db.WithContext(ctx).Save(template).Error
}

func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Template{}, id).Error
}

func (r *templateRepository) List(ctx context.Context, query *ListQuery) ([]models.Template, int64, error) {
	var templates []models.Template
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Template{})
	if active := query.Filters["is_active"]; active != "" {
		db = db.Where("is_active = ?", active == "true")
	}
	if query.Search != "" {
		db = db.Where("name LIKE ?", "%"+query.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("name ASC").
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&templates).Error
	return templates, total, err
}

func (r *templateRepository) WithTx(tx *gorm.DB) TemplateRepository {
	return &templateRepository{db: tx}
}
