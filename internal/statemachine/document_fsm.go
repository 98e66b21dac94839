package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/doclave/doclave-api/internal/models"
)

// DocumentFSM wraps a document with its lifecycle state machine. Every status
// change is validated here before it is persisted; clients never decide which
// transitions are legal.
type DocumentFSM struct {
	document *models.Document
	fsm      *fsm.FSM
}

// NewDocumentFSM creates a state machine seeded with the document's current status
func NewDocumentFSM(document *models.Document) *DocumentFSM {
	d := &DocumentFSM{
		document: document,
	}

	d.fsm = fsm.NewFSM(
		document.Status,
		fsm.Events{
			// draft → pending_approval
			{Name: "submit", Src: []string{models.DocumentStatusDraft}, Dst: models.DocumentStatusPendingApproval},

			// pending_approval → draft (the only backward edge)
			{Name: "return_to_draft", Src: []string{models.DocumentStatusPendingApproval}, Dst: models.DocumentStatusDraft},

			// pending_approval → active
			{Name: "approve", Src: []string{models.DocumentStatusPendingApproval}, Dst: models.DocumentStatusActive},

			// active → expired
			{Name: "expire", Src: []string{models.DocumentStatusActive}, Dst: models.DocumentStatusExpired},

			// active/expired → archived
			{Name: "archive", Src: []string{models.DocumentStatusActive, models.DocumentStatusExpired}, Dst: models.DocumentStatusArchived},
		},
		fsm.Callbacks{},
	)

	return d
}

// Submit transitions the document to pending_approval
func (d *DocumentFSM) Submit(ctx context.Context) error {
	if !d.document.MaySubmit() {
		return fmt.Errorf("document cannot be submitted in current state: %s", d.document.Status)
	}

	if err := d.fsm.Event(ctx, "submit"); err != nil {
		return fmt.Errorf("failed to submit document: %w", err)
	}

	d.document.Status = d.fsm.Current()
	return nil
}

// ReturnToDraft transitions the document back to draft
func (d *DocumentFSM) ReturnToDraft(ctx context.Context) error {
	if !d.document.MayReturn() {
		return fmt.Errorf("document cannot be returned to draft in current state: %s", d.document.Status)
	}

	if err := d.fsm.Event(ctx, "return_to_draft"); err != nil {
		return fmt.Errorf("failed to return document to draft: %w", err)
	}

	d.document.Status = d.fsm.Current()
	return nil
}

// Approve transitions the document to active
func (d *DocumentFSM) Approve(ctx context.Context) error {
	if !d.document.MayApprove() {
		return fmt.Errorf("document cannot be approved in current state: %s", d.document.Status)
	}

	if err := d.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve document: %w", err)
	}

	d.document.Status = d.fsm.Current()
	return nil
}

// Expire transitions the document to expired
func (d *DocumentFSM) Expire(ctx context.Context) error {
	if !d.document.MayExpire() {
		return fmt.Errorf("document cannot expire in current state: %s", d.document.Status)
	}

	if err := d.fsm.Event(ctx, "expire"); err != nil {
		return fmt.Errorf("failed to expire document: %w", err)
	}

	d.document.Status = d.fsm.Current()
	return nil
}

// Archive transitions the document to archived
func (d *DocumentFSM) Archive(ctx context.Context) error {
	if !d.document.MayArchive() {
		return fmt.Errorf("document cannot be archived in current state: %s", d.document.Status)
	}

	if err := d.fsm.Event(ctx, "archive"); err != nil {
		return fmt.Errorf("failed to archive document: %w", err)
	}

	d.document.Status = d.fsm.Current()
	return nil
}

// Current returns the current state
func (d *DocumentFSM) Current() string {
	return d.fsm.Current()
}

// Can checks if a transition is possible
func (d *DocumentFSM) Can(event string) bool {
	return d.fsm.Can(event)
}

// EventForTarget maps a requested target status to the FSM event that reaches
// it. Used by the update endpoint, where clients send a desired status rather
// than an event name.
func EventForTarget(target string) (string, bool) {
	switch target {
	case models.DocumentStatusPendingApproval:
		return "submit", true
	case models.DocumentStatusDraft:
		return "return_to_draft", true
	case models.DocumentStatusActive:
		return "approve", true
	case models.DocumentStatusExpired:
		return "expire", true
	case models.DocumentStatusArchived:
		return "archive", true
	}
	return "", false
}

// Fire dispatches an event by name after checking the model-level guard
func (d *DocumentFSM) Fire(ctx context.Context, event string) error {
	switch event {
	case "submit":
		return d.Submit(ctx)
	case "return_to_draft":
		return d.ReturnToDraft(ctx)
	case "approve":
		return d.Approve(ctx)
	case "expire":
		return d.Expire(ctx)
	case "archive":
		return d.Archive(ctx)
	}
	return fmt.Errorf("unknown document event: %s", event)
}
