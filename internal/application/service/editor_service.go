package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// ErrInvoiceNotFound is returned when an invoice is not on the current board
var ErrInvoiceNotFound = errors.New("invoice not found")

// EditorMode tells whether the editor creates or edits an invoice
type EditorMode string

const (
	EditorModeCreate EditorMode = "create"
	EditorModeEdit   EditorMode = "edit"
)

// EditorState is what the invoice editor currently shows
type EditorState struct {
	Open     bool                   `json:"open"`
	Mode     EditorMode             `json:"mode,omitempty"`
	Draft    *entity.InvoiceDraft   `json:"draft,omitempty"`
	Baseline []entity.AttachmentRef `json:"baseline,omitempty"`
}

// EditorService tracks the single invoice editor of the console. Submitting
// closes it through port.EditingSurface.
type EditorService interface {
	port.EditingSurface

	// OpenCreate opens the editor on a default draft
	OpenCreate() EditorState

	// OpenEdit opens the editor on a copy of the invoice with the given id.
	// The invoice's attachments become the reconciliation baseline.
	OpenEdit(id string) (EditorState, error)

	// State returns the current editor state
	State() EditorState
}

type editorServiceImpl struct {
	lists  ListService
	logger Logger

	mu    sync.RWMutex
	state EditorState
}

// NewEditorService creates a new EditorService reading invoices from lists
func NewEditorService(lists ListService, logger Logger) EditorService {
	return &editorServiceImpl{
		lists:  lists,
		logger: logger,
	}
}

// OpenCreate implements EditorService
func (s *editorServiceImpl) OpenCreate() EditorState {
	state := EditorState{
		Open:     true,
		Mode:     EditorModeCreate,
		Draft:    entity.NewDraft(),
		Baseline: []entity.AttachmentRef{},
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.logger.Info("Invoice editor opened", "mode", string(EditorModeCreate))
	return state
}

// OpenEdit implements EditorService
func (s *editorServiceImpl) OpenEdit(id string) (EditorState, error) {
	inv := s.lists.Snapshot().FindInvoice(id)
	if inv == nil {
		return EditorState{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}

	state := EditorState{
		Open:     true,
		Mode:     EditorModeEdit,
		Draft:    entity.DraftFromInvoice(inv),
		Baseline: inv.AttachmentRefs(),
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.logger.Info("Invoice editor opened", "mode", string(EditorModeEdit), "invoice_id", id)
	return state, nil
}

// State implements EditorService
func (s *editorServiceImpl) State() EditorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Close implements port.EditingSurface
func (s *editorServiceImpl) Close() {
	s.mu.Lock()
	wasOpen := s.state.Open
	s.state = EditorState{}
	s.mu.Unlock()

	if wasOpen {
		s.logger.Info("Invoice editor closed")
	}
}
