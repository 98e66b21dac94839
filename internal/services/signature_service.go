package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/jobs"
	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
)

// SignatureService records electronic signatures on documents. A signature is
// permanent: there is no update or revoke path, and each user signs a given
// document at most once.
type SignatureService struct {
	db              *gorm.DB
	repo            repository.SignatureRepository
	documentRepo    repository.DocumentRepository
	auditSvc        *AuditService
	notificationSvc *NotificationService
	worker          *jobs.Worker
}

func NewSignatureService(
	db *gorm.DB,
	repo repository.SignatureRepository,
	documentRepo repository.DocumentRepository,
	auditSvc *AuditService,
	notificationSvc *NotificationService,
	worker *jobs.Worker,
) *SignatureService {
	return &SignatureService{
		db:              db,
		repo:            repo,
		documentRepo:    documentRepo,
		auditSvc:        auditSvc,
		notificationSvc: notificationSvc,
		worker:          worker,
	}
}

// SignInput holds the signature payload from the client
type SignInput struct {
	Payload  string `json:"payload" binding:"required"`
	Metadata string `json:"metadata"`
}

// Sign records a signature on a document. The document must be in a signable
// state and must not already carry a signature from this user. Signing does
// not change the document status.
func (s *SignatureService) Sign(ctx context.Context, actor ActionContext, documentID uint, input SignInput) (*models.Signature, error) {
	document, err := s.documentRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, ErrNotFound
	}

	if !document.IsSignable() {
		return nil, ErrNotSignable
	}

	exists, err := s.repo.Exists(ctx, documentID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySigned
	}

	signature := &models.Signature{
		DocumentID: documentID,
		UserID:     actor.UserID,
		Payload:    input.Payload,
		Metadata:   input.Metadata,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		SignedAt:   time.Now(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, signature); err != nil {
			return err
		}
		return s.auditSvc.RecordTx(ctx, tx, actor, models.AuditDocumentSigned, &documentID,
			fmt.Sprintf("Signed from %s", actor.IPAddress))
	})
	if err != nil {
		return nil, err
	}

	if document.CreatedByID != actor.UserID {
		title := document.Title
		creatorID := document.CreatedByID
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.notificationSvc.NotifyUser(ctx, creatorID,
				"Document signed",
				fmt.Sprintf("%q received a new signature", title),
				models.NotificationTypeDocumentSigned)
		})
	}

	return signature, nil
}

// ListForDocument returns all signatures on a document, oldest first
func (s *SignatureService) ListForDocument(ctx context.Context, documentID uint) ([]models.Signature, error) {
	if _, err := s.documentRepo.FindByID(ctx, documentID); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.FindByDocument(ctx, documentID)
}

// FindByID gets a single signature
func (s *SignatureService) FindByID(ctx context.Context, id uint) (*models.Signature, error) {
	signature, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return signature, nil
}
