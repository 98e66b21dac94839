package services

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
)

var templateVariablePattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// TemplateService manages reusable document templates. Placeholder names are
// extracted from the content on every save, so the stored variable list never
// drifts from the body.
type TemplateService struct {
	db       *gorm.DB
	repo     repository.TemplateRepository
	auditSvc *AuditService
}

func NewTemplateService(db *gorm.DB, repo repository.TemplateRepository, auditSvc *AuditService) *TemplateService {
	return &TemplateService{db: db, repo: repo, auditSvc: auditSvc}
}

// CreateTemplateInput holds the fields accepted on template creation
type CreateTemplateInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content" binding:"required"`
	Category    string `json:"category"`
}

// UpdateTemplateInput holds the mutable template fields
type UpdateTemplateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
	IsActive    *bool   `json:"is_active"`
}

// Create creates a template. Fails if the name is taken.
func (s *TemplateService) Create(ctx context.Context, actor ActionContext, input CreateTemplateInput) (*models.Template, error) {
	if existing, err := s.repo.FindByName(ctx, input.Name); err == nil && existing != nil {
		return nil, ErrDuplicate
	}

	template := &models.Template{
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
		Category:    input.Category,
		IsActive:    true,
		CreatedByID: actor.UserID,
	}
	template.SetVariableNames(ExtractVariables(input.Content))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, template); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditTemplateCreated, nil,
			fmt.Sprintf("Template %q created", template.Name))
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

// Update applies partial changes to a template and re-extracts variables when
// the content changes
func (s *TemplateService) Update(ctx context.Context, actor ActionContext, id uint, input UpdateTemplateInput) (*models.Template, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if input.Name != nil && *input.Name != template.Name {
		if existing, err := s.repo.FindByName(ctx, *input.Name); err == nil && existing != nil {
			return nil, ErrDuplicate
		}
		template.Name = *input.Name
	}
	if input.Description != nil {
		template.Description = *input.Description
	}
	if input.Category != nil {
		template.Category = *input.Category
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if input.Content != nil {
		template.Content = *input.Content
		template.SetVariableNames(ExtractVariables(*input.Content))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, template); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditTemplateUpdated, nil,
			fmt.Sprintf("Template %q updated", template.Name))
	})
	if err != nil {
		return nil, err
	}

	return template, nil
}

// Deactivate marks a template inactive so new documents can no longer use it.
// Existing documents keep their rendered content.
func (s *TemplateService) Deactivate(ctx context.Context, actor ActionContext, id uint) (*models.Template, error) {
	inactive := false
	return s.Update(ctx, actor, id, UpdateTemplateInput{IsActive: &inactive})
}

// FindByID gets a template by ID
func (s *TemplateService) FindByID(ctx context.Context, id uint) (*models.Template, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return template, nil
}

// List returns templates matching the query
func (s *TemplateService) List(ctx context.Context, query *repository.ListQuery) ([]models.Template, int64, error) {
	return s.repo.List(ctx, query)
}

// ExtractVariables returns the distinct {{name}} placeholders in content, in
// order of first appearance
func ExtractVariables(content string) []string {
	matches := templateVariablePattern.FindAllStringSubmatch(content, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		if !seen[match[1]] {
			seen[match[1]] = true
			names = append(names, match[1])
		}
	}
	return names
}
