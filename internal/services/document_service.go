package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/jobs"
	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/statemachine"
	"github.com/doclave/doclave-api/pkg/logger"
)

// DocumentService owns the document lifecycle: creation, content versioning
// and status transitions. Every mutation and its audit entry are committed in
// a single database transaction, so a failure on either side leaves no
// partial state.
type DocumentService struct {
	db              *gorm.DB
	repo            repository.DocumentRepository
	templateRepo    repository.TemplateRepository
	auditSvc        *AuditService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	worker          *jobs.Worker
}

func NewDocumentService(
	db *gorm.DB,
	repo repository.DocumentRepository,
	templateRepo repository.TemplateRepository,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	worker *jobs.Worker,
) *DocumentService {
	return &DocumentService{
		db:              db,
		repo:            repo,
		templateRepo:    templateRepo,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		worker:          worker,
	}
}

// CreateDocumentInput holds the fields accepted on document creation
type CreateDocumentInput struct {
	Title      string            `json:"title" binding:"required"`
	Content    string            `json:"content"`
	TemplateID *uint             `json:"template_id"`
	Variables  map[string]string `json:"variables"`
	ExpiresAt  *time.Time        `json:"expires_at"`
}

// Create creates a document in draft at version 1. When a template is given,
// its content is rendered with the provided variables.
func (s *DocumentService) Create(ctx context.Context, actor ActionContext, input CreateDocumentInput) (*models.Document, error) {
	content := input.Content

	if input.TemplateID != nil {
		template, err := s.templateRepo.FindByID(ctx, *input.TemplateID)
		if err != nil {
			return nil, ErrNotFound
		}
		if !template.IsActive {
			return nil, ErrTemplateInactive
		}
		content = RenderTemplate(template.Content, input.Variables)
	}

	document := &models.Document{
		Title:       input.Title,
		Content:     content,
		Status:      models.DocumentStatusDraft,
		Version:     1,
		CreatedByID: actor.UserID,
		TemplateID:  input.TemplateID,
		ExpiresAt:   input.ExpiresAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, document); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditDocumentCreated, &document.ID,
			fmt.Sprintf("Document %q created", document.Title))
	})
	if err != nil {
		return nil, err
	}

	return document, nil
}

// UpdateContent snapshots the previous content as an immutable version, bumps
// the version counter and overwrites the content. Only draft documents are
// editable.
func (s *DocumentService) UpdateContent(ctx context.Context, actor ActionContext, documentID uint, content string) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		return nil, ErrNotFound
	}

	if !document.IsEditable() {
		return nil, ErrNotEditable
	}

	previous := document.Content
	previousVersion := document.Version

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		snapshot := &models.DocumentVersion{
			DocumentID:  document.ID,
			Version:     previousVersion,
			Content:     previous,
			CreatedByID: actor.UserID,
		}
		if err := txRepo.CreateVersion(ctx, snapshot); err != nil {
			return err
		}

		document.Version = previousVersion + 1
		document.Content = content
		if err := txRepo.Update(ctx, document); err != nil {
			return err
		}

		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditDocumentUpdated, &document.ID,
			fmt.Sprintf("Content updated, v%d -> v%d (%d -> %d chars)",
				previousVersion, document.Version, len(previous), len(content)))
	})
	if err != nil {
		return nil, err
	}

	return document, nil
}

// Transition moves a document to the requested target status through the
// state machine. Illegal transitions are rejected before anything is written.
func (s *DocumentService) Transition(ctx context.Context, actor ActionContext, documentID uint, target string) (*models.Document, error) {
	event, ok := statemachine.EventForTarget(target)
	if !ok {
		return nil, ErrInvalidTransition
	}
	return s.fire(ctx, actor, documentID, event)
}

// Submit sends a draft document for approval
func (s *DocumentService) Submit(ctx context.Context, actor ActionContext, documentID uint) (*models.Document, error) {
	return s.fire(ctx, actor, documentID, "submit")
}

// Approve activates a pending document
func (s *DocumentService) Approve(ctx context.Context, actor ActionContext, documentID uint) (*models.Document, error) {
	return s.fire(ctx, actor, documentID, "approve")
}

// ReturnToDraft sends a pending document back for revision
func (s *DocumentService) ReturnToDraft(ctx context.Context, actor ActionContext, documentID uint) (*models.Document, error) {
	return s.fire(ctx, actor, documentID, "return_to_draft")
}

// Archive retires an active or expired document
func (s *DocumentService) Archive(ctx context.Context, actor ActionContext, documentID uint) (*models.Document, error) {
	return s.fire(ctx, actor, documentID, "archive")
}

func (s *DocumentService) fire(ctx context.Context, actor ActionContext, documentID uint, event string) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, documentID)
	if err != nil {
		return nil, ErrNotFound
	}

	from := document.Status
	machine := statemachine.NewDocumentFSM(document)
	if err := machine.Fire(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	}

	now := time.Now()
	switch document.Status {
	case models.DocumentStatusActive:
		document.ApprovedAt = &now
	case models.DocumentStatusArchived:
		document.ArchivedAt = &now
	}

	action, detail := auditForTransition(event, from, document.Status)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, document); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, action, &document.ID, detail)
	})
	if err != nil {
		return nil, err
	}

	s.notifyTransition(document, event)

	return document, nil
}

func auditForTransition(event, from, to string) (string, string) {
	detail := fmt.Sprintf("Status changed: %s -> %s", from, to)
	switch event {
	case "submit":
		return models.AuditDocumentSubmitted, detail
	case "approve":
		return models.AuditDocumentApproved, detail
	case "return_to_draft":
		return models.AuditDocumentReturned, detail
	case "expire":
		return models.AuditDocumentExpired, detail
	case "archive":
		return models.AuditDocumentArchived, detail
	}
	return models.AuditDocumentUpdated, detail
}

// notifyTransition fans out in-app and email notifications off the request path
func (s *DocumentService) notifyTransition(document *models.Document, event string) {
	switch event {
	case "submit":
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyOfficers(ctx,
				"Document pending approval",
				fmt.Sprintf("%q was submitted for approval", document.Title),
				models.NotificationTypeDocumentSubmitted)
		})
	case "approve":
		docID := document.ID
		title := document.Title
		creatorID := document.CreatedByID
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			if err := s.notificationSvc.NotifyUser(ctx, creatorID,
				"Document approved",
				fmt.Sprintf("%q is now active", title),
				models.NotificationTypeDocumentApproved); err != nil {
				return err
			}
			if err := s.emailSvc.SendDocumentApproved(ctx, creatorID, docID, title); err != nil {
				logger.Warn("Failed to send approval email", "document_id", docID, "error", err)
			}
			return nil
		})
	case "return_to_draft":
		title := document.Title
		creatorID := document.CreatedByID
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyUser(ctx, creatorID,
				"Document returned",
				fmt.Sprintf("%q was returned for revision", title),
				models.NotificationTypeDocumentReturned)
		})
	}
}

// ExpireOverdue marks active documents whose expiry date has passed. Runs on
// the scheduler; each document gets its own transition and audit entry, with
// the document creator recorded as the audited actor.
func (s *DocumentService) ExpireOverdue(ctx context.Context) error {
	documents, err := s.repo.FindActivePastExpiry(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, document := range documents {
		actor := ActionContext{UserID: document.CreatedByID}
		if _, err := s.fire(ctx, actor, document.ID, "expire"); err != nil {
			logger.Error("Failed to expire document", "document_id", document.ID, "error", err)
			continue
		}
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyUser(ctx, document.CreatedByID,
				"Document expired",
				fmt.Sprintf("%q has passed its expiry date", document.Title),
				models.NotificationTypeDocumentExpired)
		})
	}
	return nil
}

// FindByID gets a document by ID
func (s *DocumentService) FindByID(ctx context.Context, id uint) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return document, nil
}

// FindByIDWithDetails gets a document with creator, template and signatures preloaded
func (s *DocumentService) FindByIDWithDetails(ctx context.Context, id uint) (*models.Document, error) {
	document, err := s.repo.FindByIDWithDetails(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return document, nil
}

// List returns documents visible to the caller
func (s *DocumentService) List(ctx context.Context, query *repository.DocumentQuery) ([]models.Document, int64, error) {
	return s.repo.List(ctx, query)
}

// Versions returns the immutable version history of a document
func (s *DocumentService) Versions(ctx context.Context, documentID uint) ([]models.DocumentVersion, error) {
	if _, err := s.repo.FindByID(ctx, documentID); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.FindVersions(ctx, documentID)
}

// RenderTemplate substitutes {{name}} placeholders with the given values.
// Unknown placeholders are left untouched so missing variables are visible in
// the rendered document.
func RenderTemplate(content string, variables map[string]string) string {
	return templateVariablePattern.ReplaceAllStringFunc(content, func(match string) string {
		name := templateVariablePattern.FindStringSubmatch(match)[1]
		if value, ok := variables[name]; ok {
			return value
		}
		return match
	})
}
