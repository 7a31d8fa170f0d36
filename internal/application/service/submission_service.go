package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/room-invoice-admin/internal/application/payload"
	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/domain/attachment"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
	"github.com/garyjia/room-invoice-admin/internal/domain/submission"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Operator-facing submission messages
const (
	MessageInvoiceCreated = "Invoice created successfully"
	MessageInvoiceUpdated = "Invoice updated successfully"
	MessageSubmitFailed   = "Failed to submit invoice data"
)

// SubmissionService sends invoice drafts to the billing backend
type SubmissionService interface {
	// Submit reconciles the draft's attachments against baseline, dispatches
	// create or update and reports the result. It never returns an error:
	// failures are notified and described in the outcome.
	Submit(ctx context.Context, draft *entity.InvoiceDraft, baseline []entity.AttachmentRef) *entity.SubmissionOutcome
}

type submissionServiceImpl struct {
	gateway   port.InvoiceGateway
	journal   port.SubmissionRepository
	notifier  port.Notifier
	surface   port.EditingSurface
	refresher port.RefreshScheduler
	logger    Logger
	now       func() time.Time
}

// NewSubmissionService creates a new SubmissionService. journal may be nil.
func NewSubmissionService(
	gateway port.InvoiceGateway,
	journal port.SubmissionRepository,
	notifier port.Notifier,
	surface port.EditingSurface,
	refresher port.RefreshScheduler,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		gateway:   gateway,
		journal:   journal,
		notifier:  notifier,
		surface:   surface,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit implements SubmissionService
func (s *submissionServiceImpl) Submit(ctx context.Context, draft *entity.InvoiceDraft, baseline []entity.AttachmentRef) *entity.SubmissionOutcome {
	outcome := &entity.SubmissionOutcome{
		ID:        uuid.NewString(),
		Operation: entity.OperationCreate,
		Uploaded:  []string{},
	}
	if draft != nil {
		outcome.Operation = draft.Operation()
		outcome.InvoiceID = draft.ID
	}

	machine := submission.NewMachine(func(from, to submission.State, trigger submission.Trigger) {
		s.logger.Info("Submission state changed",
			"submission_id", outcome.ID,
			"from", from.String(),
			"to", to.String(),
			"trigger", trigger.String())
	})
	_ = machine.Fire(submission.TriggerDispatch)

	// The editing surface closes and the screen refreshes whatever the result
	defer func() {
		s.surface.Close()
		s.refresher.ScheduleRefresh()
		_ = machine.Fire(submission.TriggerReset)
	}()

	if draft != nil {
		outcome.Reconciliation = attachment.Reconcile(baseline, draft.Note.Attachments)
	}
	s.journalStart(ctx, outcome)

	if draft == nil {
		s.logger.Error("Submission without a draft", "submission_id", outcome.ID)
		s.fail(ctx, machine, outcome, 0, "")
		return outcome
	}

	body, err := payload.Build(draft, outcome.Reconciliation)
	if err != nil {
		s.logger.Error("Failed to build invoice payload",
			"error", err,
			"submission_id", outcome.ID,
			"invoice_id", draft.ID)
		s.fail(ctx, machine, outcome, 0, "")
		return outcome
	}

	resp, err := s.dispatch(ctx, draft, body)
	if err == nil && resp == nil {
		err = errors.New("gateway returned no response")
	}
	if err != nil {
		s.logger.Error("Invoice submission failed",
			"error", err,
			"submission_id", outcome.ID,
			"operation", outcome.Operation.String(),
			"invoice_id", draft.ID)
		s.fail(ctx, machine, outcome, 0, "")
		return outcome
	}

	if resp.StatusCode != outcome.Operation.SuccessStatus() {
		s.logger.Error("Invoice submission rejected",
			"submission_id", outcome.ID,
			"operation", outcome.Operation.String(),
			"status", resp.StatusCode,
			"expected_status", outcome.Operation.SuccessStatus(),
			"message", resp.Message)
		s.fail(ctx, machine, outcome, resp.StatusCode, resp.Message)
		return outcome
	}

	outcome.Uploaded = outcome.Reconciliation.AddedNames()
	s.succeed(ctx, machine, outcome, resp.StatusCode)
	return outcome
}

// dispatch picks update when the draft has an id, create otherwise
func (s *submissionServiceImpl) dispatch(ctx context.Context, draft *entity.InvoiceDraft, body *entity.TransportPayload) (*entity.BoundaryResponse, error) {
	if draft.IsNew() {
		return s.gateway.CreateInvoice(ctx, body)
	}
	return s.gateway.UpdateInvoice(ctx, draft.ID, body)
}

func (s *submissionServiceImpl) succeed(ctx context.Context, machine *submission.Machine, outcome *entity.SubmissionOutcome, status int) {
	_ = machine.Fire(submission.TriggerSucceed)

	outcome.Succeeded = true
	outcome.State = submission.StateSucceeded.String()
	outcome.StatusCode = status
	outcome.Message = MessageInvoiceCreated
	if outcome.Operation == entity.OperationUpdate {
		outcome.Message = MessageInvoiceUpdated
	}

	s.notifier.Success(ctx, outcome.Message)
	s.journalFinish(ctx, outcome)

	s.logger.Info("Invoice submitted",
		"submission_id", outcome.ID,
		"operation", outcome.Operation.String(),
		"invoice_id", outcome.InvoiceID,
		"kept", len(outcome.Reconciliation.Kept),
		"deleted", len(outcome.Reconciliation.Deleted),
		"uploaded", len(outcome.Uploaded))
}

func (s *submissionServiceImpl) fail(ctx context.Context, machine *submission.Machine, outcome *entity.SubmissionOutcome, status int, boundaryMessage string) {
	_ = machine.Fire(submission.TriggerFail)

	outcome.Succeeded = false
	outcome.State = submission.StateFailed.String()
	outcome.StatusCode = status
	outcome.Message = MessageSubmitFailed
	if boundaryMessage != "" {
		outcome.Message = boundaryMessage
	}

	s.notifier.Error(ctx, outcome.Message)
	s.journalFinish(ctx, outcome)
}

// journalStart records the submission; journal errors never change the outcome
func (s *submissionServiceImpl) journalStart(ctx context.Context, outcome *entity.SubmissionOutcome) {
	if s.journal == nil {
		return
	}
	record := &entity.SubmissionRecord{
		ID:           outcome.ID,
		InvoiceID:    outcome.InvoiceID,
		Operation:    outcome.Operation,
		State:        submission.StateSubmitting.String(),
		KeptCount:    len(outcome.Reconciliation.Kept),
		DeletedCount: len(outcome.Reconciliation.Deleted),
		AddedCount:   len(outcome.Reconciliation.Added),
		CreatedAt:    s.now(),
	}
	if err := s.journal.Create(ctx, record); err != nil {
		s.logger.Error("Failed to journal submission", "error", err, "submission_id", outcome.ID)
	}
}

func (s *submissionServiceImpl) journalFinish(ctx context.Context, outcome *entity.SubmissionOutcome) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Finish(ctx, outcome.ID, outcome.State, outcome.StatusCode, outcome.Message, s.now()); err != nil {
		s.logger.Error("Failed to finish submission journal entry", "error", err, "submission_id", outcome.ID)
	}
}
