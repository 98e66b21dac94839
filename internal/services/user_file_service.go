package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/doclave/doclave-api/internal/config"
	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/storage"
	"github.com/doclave/doclave-api/pkg/logger"
)

// UserFileService stores user-uploaded files in object storage and tracks
// their metadata. Records always carry the storage key; download URLs are
// built by the handler layer.
type UserFileService struct {
	repo     repository.UserDocumentRepository
	store    storage.ObjectStorage
	auditSvc *AuditService
	maxSize  int64
}

func NewUserFileService(
	repo repository.UserDocumentRepository,
	store storage.ObjectStorage,
	auditSvc *AuditService,
	cfg *config.Config,
) *UserFileService {
	return &UserFileService{
		repo:     repo,
		store:    store,
		auditSvc: auditSvc,
		maxSize:  cfg.MaxUploadSize(),
	}
}

// UploadInput describes one file to store
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Category    string
	Reader      io.Reader
}

// Upload validates, stores and records a single file
func (s *UserFileService) Upload(ctx context.Context, actor ActionContext, input UploadInput) (*models.UserDocument, error) {
	if input.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, input.Size, s.maxSize)
	}
	if !storage.IsValidContentType(input.ContentType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, input.ContentType)
	}

	category := input.Category
	if category == "" {
		category = "general"
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	key := fmt.Sprintf("user-files/%d/%s%s", actor.UserID, uuid.New().String(), ext)

	if err := s.store.Put(ctx, key, input.Reader, input.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	doc := &models.UserDocument{
		UserID:      actor.UserID,
		FileName:    input.FileName,
		FileKey:     key,
		ContentType: input.ContentType,
		Size:        input.Size,
		Category:    category,
		Status:      models.UserDocumentStatusActive,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		// metadata insert failed, remove the orphaned object
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.Error("Failed to clean up stored object", "key", key, "error", delErr)
		}
		return nil, err
	}

	if err := s.auditSvc.Record(ctx, actor, models.AuditFileUploaded, nil,
		fmt.Sprintf("Uploaded %q (%d bytes)", doc.FileName, doc.Size)); err != nil {
		logger.Warn("Failed to audit file upload", "file_id", doc.ID, "error", err)
	}

	return doc, nil
}

// BulkUpload stores files one at a time and accumulates per-file outcomes. A
// failed file never aborts the batch.
func (s *UserFileService) BulkUpload(ctx context.Context, actor ActionContext, inputs []UploadInput) *models.BulkUploadSummary {
	summary := &models.BulkUploadSummary{
		Results: make([]models.BulkUploadResult, 0, len(inputs)),
	}

	for _, input := range inputs {
		doc, err := s.Upload(ctx, actor, input)
		if err != nil {
			summary.Failed++
			summary.Results = append(summary.Results, models.BulkUploadResult{
				FileName: input.FileName,
				Success:  false,
				Error:    err.Error(),
			})
			continue
		}
		summary.Successful++
		summary.Results = append(summary.Results, models.BulkUploadResult{
			FileName:   input.FileName,
			Success:    true,
			DocumentID: doc.ID,
		})
	}

	return summary
}

// Download returns the file metadata and a reader over its content. Only the
// owner may download; the handler enforces admin override.
func (s *UserFileService) Download(ctx context.Context, userID, fileID uint, elevated bool) (*models.UserDocument, io.ReadCloser, error) {
	doc, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, nil, ErrNotFound
	}
	if doc.Status != models.UserDocumentStatusActive {
		return nil, nil, ErrNotFound
	}
	if doc.UserID != userID && !elevated {
		return nil, nil, ErrUnauthorized
	}

	reader, err := s.store.Get(ctx, doc.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read stored file: %w", err)
	}
	return doc, reader, nil
}

// SetStarred toggles the starred flag on a file
func (s *UserFileService) SetStarred(ctx context.Context, userID, fileID uint, starred bool) (*models.UserDocument, error) {
	doc, err := s.ownedActive(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	doc.Starred = starred
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetCategory moves a file to another category
func (s *UserFileService) SetCategory(ctx context.Context, userID, fileID uint, category string) (*models.UserDocument, error) {
	doc, err := s.ownedActive(ctx, userID, fileID)
	if err != nil {
		return nil, err
	}
	doc.Category = category
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete soft-deletes the metadata and removes the stored object
func (s *UserFileService) Delete(ctx context.Context, actor ActionContext, fileID uint) error {
	doc, err := s.ownedActive(ctx, actor.UserID, fileID)
	if err != nil {
		return err
	}

	doc.Status = models.UserDocumentStatusDeleted
	if err := s.repo.Update(ctx, doc); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, doc.FileKey); err != nil && !errors.Is(err, storage.ErrNotExist) {
		logger.Error("Failed to delete stored object", "key", doc.FileKey, "error", err)
	}

	if err := s.auditSvc.Record(ctx, actor, models.AuditFileDeleted, nil,
		fmt.Sprintf("Deleted %q", doc.FileName)); err != nil {
		logger.Warn("Failed to audit file deletion", "file_id", doc.ID, "error", err)
	}

	return nil
}

// List returns the caller's active files
func (s *UserFileService) List(ctx context.Context, userID uint, query *repository.ListQuery) ([]models.UserDocument, int64, error) {
	return s.repo.FindByUser(ctx, userID, query)
}

func (s *UserFileService) ownedActive(ctx context.Context, userID, fileID uint) (*models.UserDocument, error) {
	doc, err := s.repo.FindByID(ctx, fileID)
	if err != nil {
		return nil, ErrNotFound
	}
	if doc.Status != models.UserDocumentStatusActive {
		return nil, ErrNotFound
	}
	if doc.UserID != userID {
		return nil, ErrUnauthorized
	}
	return doc, nil
}
