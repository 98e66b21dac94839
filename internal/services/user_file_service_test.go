package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/storage"
)

func pdfUpload(name, content, category string) UploadInput {
	return UploadInput{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Category:    category,
		Reader:      strings.NewReader(content),
	}
}

func TestUserFileService_Upload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	doc, err := env.userFiles.Upload(ctx, env.actor(user), pdfUpload("tax-return.pdf", "%PDF-1.4 fake", "tax"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, doc.UserID)
	assert.Equal(t, "tax", doc.Category)
	assert.Equal(t, models.UserDocumentStatusActive, doc.Status)
	assert.True(t, strings.HasPrefix(doc.FileKey, "user-files/"), doc.FileKey)
	assert.True(t, strings.HasSuffix(doc.FileKey, ".pdf"), doc.FileKey)
	assert.Equal(t, 1, env.store.Len())

	// Empty category defaults to general
	doc, err = env.userFiles.Upload(ctx, env.actor(user), pdfUpload("misc.pdf", "%PDF-1.4 fake", ""))
	require.NoError(t, err)
	assert.Equal(t, "general", doc.Category)
}

func TestUserFileService_UploadTooLarge(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	input := pdfUpload("huge.pdf", "x", "")
	input.Size = 2 << 20
	_, err := env.userFiles.Upload(context.Background(), env.actor(user), input)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, 0, env.store.Len())
}

func TestUserFileService_UploadBadContentType(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	input := pdfUpload("script.sh", "#!/bin/sh", "")
	input.ContentType = "application/x-sh"
	_, err := env.userFiles.Upload(context.Background(), env.actor(user), input)
	assert.ErrorIs(t, err, ErrInvalidContentType)
	assert.Equal(t, 0, env.store.Len())
}

func TestUserFileService_BulkUpload(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	oversize := pdfUpload("huge.pdf", "x", "")
	oversize.Size = 2 << 20

	summary := env.userFiles.BulkUpload(context.Background(), env.actor(user), []UploadInput{
		pdfUpload("a.pdf", "aaa", "reports"),
		oversize,
		pdfUpload("b.pdf", "bbb", "reports"),
	})
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results, 3)
	assert.True(t, summary.Results[0].Success)
	assert.False(t, summary.Results[1].Success)
	assert.NotEmpty(t, summary.Results[1].Error)
	assert.True(t, summary.Results[2].Success)
	assert.Equal(t, 2, env.store.Len())
}

func TestUserFileService_Download(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@doclave.test", models.RoleUser)
	other := env.createUser(t, "other@doclave.test", models.RoleUser)
	admin := env.createUser(t, "admin@doclave.test", models.RoleAdmin)

	doc, err := env.userFiles.Upload(ctx, env.actor(owner), pdfUpload("report.pdf", "content-bytes", ""))
	require.NoError(t, err)

	meta, reader, err := env.userFiles.Download(ctx, owner.ID, doc.ID, false)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "content-bytes", string(data))
	assert.Equal(t, "report.pdf", meta.FileName)

	_, _, err = env.userFiles.Download(ctx, other.ID, doc.ID, false)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, adminReader, err := env.userFiles.Download(ctx, admin.ID, doc.ID, true)
	require.NoError(t, err)
	adminReader.Close()
}

func TestUserFileService_StarAndCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	doc, err := env.userFiles.Upload(ctx, env.actor(user), pdfUpload("id-card.pdf", "img", ""))
	require.NoError(t, err)

	starred, err := env.userFiles.SetStarred(ctx, user.ID, doc.ID, true)
	require.NoError(t, err)
	assert.True(t, starred.Starred)

	moved, err := env.userFiles.SetCategory(ctx, user.ID, doc.ID, "identity")
	require.NoError(t, err)
	assert.Equal(t, "identity", moved.Category)

	other := env.createUser(t, "other@doclave.test", models.RoleUser)
	_, err = env.userFiles.SetStarred(ctx, other.ID, doc.ID, true)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserFileService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	doc, err := env.userFiles.Upload(ctx, env.actor(user), pdfUpload("old.pdf", "bytes", ""))
	require.NoError(t, err)
	require.Equal(t, 1, env.store.Len())

	require.NoError(t, env.userFiles.Delete(ctx, env.actor(user), doc.ID))
	assert.Equal(t, 0, env.store.Len())

	// Deleted files disappear from listings and can no longer be fetched
	files, total, err := env.userFiles.List(ctx, user.ID, &repository.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Zero(t, total)

	_, _, err = env.userFiles.Download(ctx, user.ID, doc.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

// wrappingStore decorates Delete errors the way cloud backends do, so the
// service must match sentinels with errors.Is rather than equality.
type wrappingStore struct {
	storage.ObjectStorage
}

func (w wrappingStore) Delete(ctx context.Context, key string) error {
	if err := w.ObjectStorage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func TestUserFileService_DeleteMissingObject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	svc := NewUserFileService(env.repos.UserDocument, wrappingStore{env.store}, env.audits, env.cfg)

	doc, err := svc.Upload(ctx, env.actor(user), pdfUpload("gone.pdf", "bytes", ""))
	require.NoError(t, err)

	// Object vanished out from under us; Delete still succeeds and the
	// metadata is gone
	require.NoError(t, env.store.Delete(ctx, doc.FileKey))
	require.NoError(t, svc.Delete(ctx, env.actor(user), doc.ID))

	files, total, err := svc.List(ctx, user.ID, &repository.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Zero(t, total)
}
