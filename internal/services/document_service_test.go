package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclave/doclave-api/internal/models"
)

func TestDocumentService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "author@doclave.test", models.RoleUser)

	doc, err := env.documents.Create(ctx, env.actor(user), CreateDocumentInput{
		Title:   "Data Retention Policy",
		Content: "Retain for 7 years.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.DocumentStatusDraft, doc.Status)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, user.ID, doc.CreatedByID)

	entries, err := env.audits.ListForDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditDocumentCreated, entries[0].Action)
	assert.Equal(t, user.ID, entries[0].UserID)
	assert.Equal(t, "203.0.113.7", entries[0].IPAddress)
}

func TestDocumentService_CreateFromTemplate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	officer := env.createUser(t, "officer@doclave.test", models.RoleComplianceOfficer)
	user := env.createUser(t, "author@doclave.test", models.RoleUser)

	template, err := env.templates.Create(ctx, env.actor(officer), CreateTemplateInput{
		Name:    "NDA",
		Content: "This NDA is between {{company}} and {{party}}. {{company}} agrees.",
	})
	require.NoError(t, err)

	doc, err := env.documents.Create(ctx, env.actor(user), CreateDocumentInput{
		Title:      "NDA with Acme",
		TemplateID: &template.ID,
		Variables:  map[string]string{"company": "Doclave Inc", "party": "Acme Corp"},
	})
	require.NoError(t, err)
	assert.Equal(t, "This NDA is between Doclave Inc and Acme Corp. Doclave Inc agrees.", doc.Content)

	// Inactive templates cannot be instantiated
	_, err = env.templates.Deactivate(ctx, env.actor(officer), template.ID)
	require.NoError(t, err)

	_, err = env.documents.Create(ctx, env.actor(user), CreateDocumentInput{
		Title:      "Second NDA",
		TemplateID: &template.ID,
	})
	assert.ErrorIs(t, err, ErrTemplateInactive)
}

func TestDocumentService_UpdateContentVersioning(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "author@doclave.test", models.RoleUser)
	actor := env.actor(user)

	doc, err := env.documents.Create(ctx, actor, CreateDocumentInput{Title: "Policy", Content: "A"})
	require.NoError(t, err)

	updated, err := env.documents.UpdateContent(ctx, actor, doc.ID, "B")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, "B", updated.Content)

	// The previous content is snapshotted under the previous version number
	versions, err := env.documents.Versions(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, "A", versions[0].Content)

	// Create + update = two audit entries
	assert.Equal(t, 2, env.auditCount(t, doc.ID))
}

func TestDocumentService_UpdateContentRejectedOutsideDraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "author@doclave.test", models.RoleUser)
	actor := env.actor(user)

	doc, err := env.documents.Create(ctx, actor, CreateDocumentInput{Title: "Policy", Content: "A"})
	require.NoError(t, err)

	_, err = env.documents.Submit(ctx, actor, doc.ID)
	require.NoError(t, err)

	_, err = env.documents.UpdateContent(ctx, actor, doc.ID, "B")
	assert.ErrorIs(t, err, ErrNotEditable)

	// No snapshot and no version bump happened
	versions, err := env.documents.Versions(ctx, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	reloaded, err := env.documents.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.Version)
	assert.Equal(t, "A", reloaded.Content)
}

func TestDocumentService_TransitionFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "author@doclave.test", models.RoleUser)
	officer := env.createUser(t, "officer@doclave.test", models.RoleComplianceOfficer)

	doc, err := env.documents.Create(ctx, env.actor(user), CreateDocumentInput{Title: "Policy"})
	require.NoError(t, err)

	doc, err = env.documents.Submit(ctx, env.actor(user), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusPendingApproval, doc.Status)

	doc, err = env.documents.Approve(ctx, env.actor(officer), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusActive, doc.Status)
	require.NotNil(t, doc.ApprovedAt)

	doc, err = env.documents.Archive(ctx, env.actor(officer), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusArchived, doc.Status)
	require.NotNil(t, doc.ArchivedAt)

	// Full trail in chronological order
	entries, err := env.audits.ListForDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, models.AuditDocumentCreated, entries[0].Action)
	assert.Equal(t, models.AuditDocumentSubmitted, entries[1].Action)
	assert.Equal(t, models.AuditDocumentApproved, entries[2].Action)
	assert.Equal(t, models.AuditDocumentArchived, entries[3].Action)
	assert.Equal(t, officer.ID, entries[2].UserID)
}

func TestDocumentService_IllegalTransitionWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "author@doclave.test", models.RoleUser)
	actor := env.actor(user)

	doc, err := env.documents.Create(ctx, actor, CreateDocumentInput{Title: "Policy"})
	require.NoError(t, err)

	// draft -> active skips review
	_, err = env.documents.Approve(ctx, actor, doc.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	reloaded, err := env.documents.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusDraft, reloaded.Status)
	assert.Equal(t, 1, env.auditCount(t, doc.ID))
}

func TestDocumentService_TransitionUnknownTarget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "author@doclave.test", models.RoleUser)

	doc, err := env.documents.Create(ctx, env.actor(user), CreateDocumentInput{Title: "Policy"})
	require.NoError(t, err)

	_, err = env.documents.Transition(ctx, env.actor(user), doc.ID, "frozen")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDocumentService_ExpireOverdue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "author@doclave.test", models.RoleUser)
	officer := env.createUser(t, "officer@doclave.test", models.RoleComplianceOfficer)

	past := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(24 * time.Hour)

	makeActive := func(title string, expires *time.Time) *models.Document {
		doc, err := env.documents.Create(ctx, env.actor(user), CreateDocumentInput{Title: title, ExpiresAt: expires})
		require.NoError(t, err)
		_, err = env.documents.Submit(ctx, env.actor(user), doc.ID)
		require.NoError(t, err)
		doc, err = env.documents.Approve(ctx, env.actor(officer), doc.ID)
		require.NoError(t, err)
		return doc
	}

	overdue := makeActive("Overdue Policy", &past)
	current := makeActive("Current Policy", &future)

	require.NoError(t, env.documents.ExpireOverdue(ctx))

	reloaded, err := env.documents.FindByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusExpired, reloaded.Status)

	reloaded, err = env.documents.FindByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusActive, reloaded.Status)
}

func TestRenderTemplate(t *testing.T) {
	content := "Hello {{ name }}, welcome to {{company}}. Bye {{name}}. {{unknown}} stays."
	out := RenderTemplate(content, map[string]string{"name": "Ada", "company": "Doclave"})
	assert.Equal(t, "Hello Ada, welcome to Doclave. Bye Ada. {{unknown}} stays.", out)
}
