package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclave/doclave-api/internal/models"
)

func (e *testEnv) createPendingDocument(t *testing.T, author *models.User) *models.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := e.documents.Create(ctx, e.actor(author), CreateDocumentInput{Title: "Signable Policy"})
	require.NoError(t, err)
	doc, err = e.documents.Submit(ctx, e.actor(author), doc.ID)
	require.NoError(t, err)
	return doc
}

func TestSignatureService_Sign(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)
	signer := env.createUser(t, "signer@doclave.test", models.RoleUser)
	doc := env.createPendingDocument(t, author)

	signature, err := env.signatures.Sign(ctx, env.actor(signer), doc.ID, SignInput{Payload: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, signer.ID, signature.UserID)
	assert.Equal(t, doc.ID, signature.DocumentID)
	assert.Equal(t, "203.0.113.7", signature.IPAddress)

	// Signing leaves the document status alone
	reloaded, err := env.documents.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusPendingApproval, reloaded.Status)

	entries, err := env.audits.ListForDocument(ctx, doc.ID)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, models.AuditDocumentSigned, last.Action)
	assert.Equal(t, signer.ID, last.UserID)
}

func TestSignatureService_SignDraftRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)

	doc, err := env.documents.Create(ctx, env.actor(author), CreateDocumentInput{Title: "Draft Policy"})
	require.NoError(t, err)

	_, err = env.signatures.Sign(ctx, env.actor(author), doc.ID, SignInput{Payload: "Jane Doe"})
	assert.ErrorIs(t, err, ErrNotSignable)
	assert.Equal(t, 1, env.auditCount(t, doc.ID))
}

func TestSignatureService_SignTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "author@doclave.test", models.RoleUser)
	signer := env.createUser(t, "signer@doclave.test", models.RoleUser)
	doc := env.createPendingDocument(t, author)

	_, err := env.signatures.Sign(ctx, env.actor(signer), doc.ID, SignInput{Payload: "Jane Doe"})
	require.NoError(t, err)

	_, err = env.signatures.Sign(ctx, env.actor(signer), doc.ID, SignInput{Payload: "Jane Doe again"})
	assert.ErrorIs(t, err, ErrAlreadySigned)

	signatures, err := env.signatures.ListForDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, signatures, 1)
}

func TestSignatureService_SignMissingDocument(t *testing.T) {
	env := newTestEnv(t)
	signer := env.createUser(t, "signer@doclave.test", models.RoleUser)

	_, err := env.signatures.Sign(context.Background(), env.actor(signer), 9999, SignInput{Payload: "Jane Doe"})
	assert.ErrorIs(t, err, ErrNotFound)
}
