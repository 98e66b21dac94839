package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/jobs"
	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/pkg/logger"
)

// DeadlineService manages compliance deadlines. Whether a deadline is overdue
// is derived from its date at read time; the stored status only tracks work
// progress (not_started, in_progress, completed).
type DeadlineService struct {
	db              *gorm.DB
	repo            repository.DeadlineRepository
	documentRepo    repository.DocumentRepository
	auditSvc        *AuditService
	notificationSvc *NotificationService
	emailSvc        *EmailService
	worker          *jobs.Worker
}

func NewDeadlineService(
	db *gorm.DB,
	repo repository.DeadlineRepository,
	documentRepo repository.DocumentRepository,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
	emailSvc *EmailService,
	worker *jobs.Worker,
) *DeadlineService {
	return &DeadlineService{
		db:              db,
		repo:            repo,
		documentRepo:    documentRepo,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		worker:          worker,
	}
}

// CreateDeadlineInput holds the fields accepted on deadline creation
type CreateDeadlineInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline" binding:"required"`
	AssigneeID  *uint     `json:"assignee_id"`
	DocumentID  *uint     `json:"document_id"`
}

// UpdateDeadlineInput holds the mutable deadline fields. Pointers distinguish
// "not sent" from zero values.
type UpdateDeadlineInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	AssigneeID  *uint      `json:"assignee_id"`
	Status      *string    `json:"status"`
}

// Create creates a deadline in not_started and audits it
func (s *DeadlineService) Create(ctx context.Context, actor ActionContext, input CreateDeadlineInput) (*models.ComplianceDeadline, error) {
	if input.DocumentID != nil {
		if _, err := s.documentRepo.FindByID(ctx, *input.DocumentID); err != nil {
			return nil, ErrNotFound
		}
	}

	deadline := &models.ComplianceDeadline{
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Status:      models.DeadlineStatusNotStarted,
		AssigneeID:  input.AssigneeID,
		DocumentID:  input.DocumentID,
		CreatedByID: actor.UserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, deadline); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditDeadlineCreated, deadline.DocumentID,
			fmt.Sprintf("Deadline %q due %s", deadline.Title, deadline.Deadline.Format("2006-01-02")))
	})
	if err != nil {
		return nil, err
	}

	if deadline.AssigneeID != nil && *deadline.AssigneeID != actor.UserID {
		assigneeID := *deadline.AssigneeID
		title := deadline.Title
		due := deadline.Deadline
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyUser(ctx, assigneeID,
				"Deadline assigned",
				fmt.Sprintf("%q is due %s", title, due.Format("2006-01-02")),
				models.NotificationTypeDeadlineDue)
		})
	}

	return deadline, nil
}

// Update applies partial changes to a deadline. Status changes are validated
// against the known progress values.
func (s *DeadlineService) Update(ctx context.Context, actor ActionContext, id uint, input UpdateDeadlineInput) (*models.ComplianceDeadline, error) {
	deadline, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	if input.Status != nil {
		if !models.ValidDeadlineStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		deadline.Status = *input.Status
		if *input.Status == models.DeadlineStatusCompleted {
			now := time.Now()
			deadline.CompletedAt = &now
		} else {
			deadline.CompletedAt = nil
		}
	}
	if input.Title != nil {
		deadline.Title = *input.Title
	}
	if input.Description != nil {
		deadline.Description = *input.Description
	}
	if input.Deadline != nil {
		deadline.Deadline = *input.Deadline
	}
	if input.AssigneeID != nil {
		deadline.AssigneeID = input.AssigneeID
	}

	action := models.AuditDeadlineUpdated
	if deadline.Status == models.DeadlineStatusCompleted {
		action = models.AuditDeadlineCompleted
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Update(ctx, deadline); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, action, deadline.DocumentID,
			fmt.Sprintf("Deadline %q updated, status %s", deadline.Title, deadline.Status))
	})
	if err != nil {
		return nil, err
	}

	return deadline, nil
}

// Delete removes a deadline
func (s *DeadlineService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// FindByID gets a deadline by ID
func (s *DeadlineService) FindByID(ctx context.Context, id uint) (*models.ComplianceDeadline, error) {
	deadline, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return deadline, nil
}

// List returns deadlines matching the query, soonest first
func (s *DeadlineService) List(ctx context.Context, query *repository.DeadlineQuery) ([]models.ComplianceDeadline, int64, error) {
	return s.repo.List(ctx, query)
}

// NotifyOverdue notifies assignees of uncompleted deadlines whose date has
// passed. Runs on the scheduler. It only notifies; stored statuses are left
// alone so completing late still works normally.
func (s *DeadlineService) NotifyOverdue(ctx context.Context) error {
	deadlines, err := s.repo.FindDuePastUncompleted(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, deadline := range deadlines {
		if deadline.AssigneeID == nil {
			continue
		}
		assigneeID := *deadline.AssigneeID
		title := deadline.Title
		due := deadline.Deadline
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			if err := s.notificationSvc.NotifyUser(ctx, assigneeID,
				"Deadline overdue",
				fmt.Sprintf("%q was due %s and is not completed", title, due.Format("2006-01-02")),
				models.NotificationTypeDeadlineDue); err != nil {
				return err
			}
			if err := s.emailSvc.SendDeadlineOverdue(ctx, assigneeID, title, due); err != nil {
				logger.Warn("Failed to send overdue email", "assignee_id", assigneeID, "error", err)
			}
			return nil
		})
	}
	return nil
}
