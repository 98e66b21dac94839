package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doclave/doclave-api/internal/models"
)

func TestDocumentFSM_Lifecycle(t *testing.T) {
	ctx := context.Background()

	doc := &models.Document{Status: models.DocumentStatusDraft}
	machine := NewDocumentFSM(doc)

	assert.NoError(t, machine.Submit(ctx))
	assert.Equal(t, models.DocumentStatusPendingApproval, doc.Status)

	assert.NoError(t, machine.Approve(ctx))
	assert.Equal(t, models.DocumentStatusActive, doc.Status)

	assert.NoError(t, machine.Expire(ctx))
	assert.Equal(t, models.DocumentStatusExpired, doc.Status)

	assert.NoError(t, machine.Archive(ctx))
	assert.Equal(t, models.DocumentStatusArchived, doc.Status)
}

func TestDocumentFSM_ReturnToDraft(t *testing.T) {
	ctx := context.Background()

	doc := &models.Document{Status: models.DocumentStatusPendingApproval}
	machine := NewDocumentFSM(doc)

	assert.NoError(t, machine.ReturnToDraft(ctx))
	assert.Equal(t, models.DocumentStatusDraft, doc.Status)

	// Resubmission is allowed after revision
	assert.NoError(t, machine.Submit(ctx))
	assert.Equal(t, models.DocumentStatusPendingApproval, doc.Status)
}

func TestDocumentFSM_ArchiveFromActive(t *testing.T) {
	ctx := context.Background()

	doc := &models.Document{Status: models.DocumentStatusActive}
	machine := NewDocumentFSM(doc)

	assert.NoError(t, machine.Archive(ctx))
	assert.Equal(t, models.DocumentStatusArchived, doc.Status)
}

func TestDocumentFSM_IllegalTransitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		from  string
		event string
	}{
		{"approve from draft", models.DocumentStatusDraft, "approve"},
		{"archive from draft", models.DocumentStatusDraft, "archive"},
		{"expire from draft", models.DocumentStatusDraft, "expire"},
		{"submit from active", models.DocumentStatusActive, "submit"},
		{"return from active", models.DocumentStatusActive, "return_to_draft"},
		{"expire from pending", models.DocumentStatusPendingApproval, "expire"},
		{"archive from pending", models.DocumentStatusPendingApproval, "archive"},
		{"submit from archived", models.DocumentStatusArchived, "submit"},
		{"approve from archived", models.DocumentStatusArchived, "approve"},
		{"archive from archived", models.DocumentStatusArchived, "archive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &models.Document{Status: tt.from}
			machine := NewDocumentFSM(doc)

			err := machine.Fire(ctx, tt.event)
			assert.Error(t, err)
			assert.Equal(t, tt.from, doc.Status, "status must not change on a rejected transition")
		})
	}
}

func TestDocumentFSM_UnknownEvent(t *testing.T) {
	doc := &models.Document{Status: models.DocumentStatusDraft}
	machine := NewDocumentFSM(doc)

	err := machine.Fire(context.Background(), "promote")
	assert.Error(t, err)
	assert.Equal(t, models.DocumentStatusDraft, doc.Status)
}

func TestEventForTarget(t *testing.T) {
	tests := []struct {
		target string
		event  string
		ok     bool
	}{
		{models.DocumentStatusPendingApproval, "submit", true},
		{models.DocumentStatusDraft, "return_to_draft", true},
		{models.DocumentStatusActive, "approve", true},
		{models.DocumentStatusExpired, "expire", true},
		{models.DocumentStatusArchived, "archive", true},
		{"frozen", "", false},
	}

	for _, tt := range tests {
		event, ok := EventForTarget(tt.target)
		assert.Equal(t, tt.ok, ok, tt.target)
		assert.Equal(t, tt.event, event, tt.target)
	}
}
