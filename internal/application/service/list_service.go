package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// Fallback load errors when the failure carries no text
const (
	MessageInvoicesLoadFailed = "Failed to load invoice list"
	MessageRoomsLoadFailed    = "Failed to load room list"
)

// ListService loads the invoice screen: invoices plus the rooms they can target
type ListService interface {
	// LoadAll fetches invoices and occupied rooms concurrently and waits for
	// both. A failed fetch leaves its collection empty and records a message.
	LoadAll(ctx context.Context) *entity.InvoiceBoard

	// Snapshot returns the board of the most recent completed load
	Snapshot() *entity.InvoiceBoard

	// Loading reports whether a load is in flight
	Loading() bool
}

type listServiceImpl struct {
	gateway port.InvoiceGateway
	logger  Logger
	now     func() time.Time

	mu       sync.RWMutex
	board    *entity.InvoiceBoard
	inFlight atomic.Int32
}

// NewListService creates a new ListService
func NewListService(gateway port.InvoiceGateway, logger Logger) ListService {
	return &listServiceImpl{
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
		board: &entity.InvoiceBoard{
			Invoices: []entity.Invoice{},
			Rooms:    []entity.Room{},
		},
	}
}

// LoadAll implements ListService
func (s *listServiceImpl) LoadAll(ctx context.Context) *entity.InvoiceBoard {
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	var (
		invoices            []entity.Invoice
		rooms               []entity.Room
		invoiceErr, roomErr string
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		result, err := s.gateway.FetchInvoices(ctx)
		if err != nil {
			s.logger.Error("Error fetching invoices", "error", err)
			invoiceErr = errorText(err, MessageInvoicesLoadFailed)
			return
		}
		invoices = result
	})
	wg.Go(func() {
		result, err := s.gateway.FetchOccupiedRooms(ctx)
		if err != nil {
			s.logger.Error("Error fetching rooms", "error", err)
			roomErr = errorText(err, MessageRoomsLoadFailed)
			return
		}
		rooms = result
	})
	wg.Wait()

	if invoices == nil {
		invoices = []entity.Invoice{}
	}
	if rooms == nil {
		rooms = []entity.Room{}
	}

	board := &entity.InvoiceBoard{
		Invoices: invoices,
		Rooms:    rooms,
		Error:    joinErrors(invoiceErr, roomErr),
		LoadedAt: s.now(),
	}

	s.mu.Lock()
	s.board = board
	s.mu.Unlock()

	s.logger.Info("Invoice board loaded",
		"invoices", len(board.Invoices),
		"rooms", len(board.Rooms),
		"error", board.Error)

	return board
}

// Snapshot implements ListService
func (s *listServiceImpl) Snapshot() *entity.InvoiceBoard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Loading implements ListService
func (s *listServiceImpl) Loading() bool {
	return s.inFlight.Load() > 0
}

func errorText(err error, fallback string) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func joinErrors(msgs ...string) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m != "" {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, "; ")
}
