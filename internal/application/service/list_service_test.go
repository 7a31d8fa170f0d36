package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

func sampleInvoices() []entity.Invoice {
	return []entity.Invoice{
		{ID: "inv-1", PaymentStatus: entity.PaymentStatusPaid},
		{ID: "inv-2", PaymentStatus: entity.PaymentStatusOverdue},
	}
}

func sampleRooms() []entity.Room {
	return []entity.Room{{ID: "room-1", RoomNumber: "101"}}
}

func TestListService_LoadAll(t *testing.T) {
	tests := []struct {
		name         string
		invoices     func(ctx context.Context) ([]entity.Invoice, error)
		rooms        func(ctx context.Context) ([]entity.Room, error)
		wantInvoices int
		wantRooms    int
		wantError    string
	}{
		{
			name:         "both succeed",
			invoices:     func(ctx context.Context) ([]entity.Invoice, error) { return sampleInvoices(), nil },
			rooms:        func(ctx context.Context) ([]entity.Room, error) { return sampleRooms(), nil },
			wantInvoices: 2,
			wantRooms:    1,
		},
		{
			name:         "invoice fetch fails",
			invoices:     func(ctx context.Context) ([]entity.Invoice, error) { return nil, errors.New("invoices down") },
			rooms:        func(ctx context.Context) ([]entity.Room, error) { return sampleRooms(), nil },
			wantInvoices: 0,
			wantRooms:    1,
			wantError:    "invoices down",
		},
		{
			name:         "room fetch fails",
			invoices:     func(ctx context.Context) ([]entity.Invoice, error) { return sampleInvoices(), nil },
			rooms:        func(ctx context.Context) ([]entity.Room, error) { return nil, errors.New("rooms down") },
			wantInvoices: 2,
			wantRooms:    0,
			wantError:    "rooms down",
		},
		{
			name:         "both fail",
			invoices:     func(ctx context.Context) ([]entity.Invoice, error) { return nil, errors.New("a") },
			rooms:        func(ctx context.Context) ([]entity.Room, error) { return nil, errors.New("b") },
			wantInvoices: 0,
			wantRooms:    0,
			wantError:    "a; b",
		},
		{
			name:         "empty error text falls back",
			invoices:     func(ctx context.Context) ([]entity.Invoice, error) { return nil, errors.New("") },
			rooms:        func(ctx context.Context) ([]entity.Room, error) { return sampleRooms(), nil },
			wantInvoices: 0,
			wantRooms:    1,
			wantError:    MessageInvoicesLoadFailed,
		},
		{
			name:         "nil results become empty",
			invoices:     func(ctx context.Context) ([]entity.Invoice, error) { return nil, nil },
			rooms:        func(ctx context.Context) ([]entity.Room, error) { return nil, nil },
			wantInvoices: 0,
			wantRooms:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewListService(&mockGateway{
				fetchInvoicesFunc: tt.invoices,
				fetchRoomsFunc:    tt.rooms,
			}, &mockLogger{})

			board := svc.LoadAll(context.Background())

			if len(board.Invoices) != tt.wantInvoices {
				t.Errorf("Invoices = %d, want %d", len(board.Invoices), tt.wantInvoices)
			}
			if len(board.Rooms) != tt.wantRooms {
				t.Errorf("Rooms = %d, want %d", len(board.Rooms), tt.wantRooms)
			}
			if board.Invoices == nil || board.Rooms == nil {
				t.Error("collections must never be nil")
			}
			if board.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", board.Error, tt.wantError)
			}
		})
	}
}

// A slow failing fetch must not hold back the other collection
func TestListService_FetchesRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(2)

	svc := NewListService(&mockGateway{
		fetchInvoicesFunc: func(ctx context.Context) ([]entity.Invoice, error) {
			started.Done()
			<-release
			return sampleInvoices(), nil
		},
		fetchRoomsFunc: func(ctx context.Context) ([]entity.Room, error) {
			started.Done()
			<-release
			return nil, errors.New("rooms down")
		},
	}, &mockLogger{})

	done := make(chan *entity.InvoiceBoard, 1)
	go func() { done <- svc.LoadAll(context.Background()) }()

	waited := make(chan struct{})
	go func() {
		started.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("fetches did not start concurrently")
	}

	if !svc.Loading() {
		t.Error("Loading() = false during fetch")
	}
	close(release)

	board := <-done
	if len(board.Invoices) != 2 {
		t.Errorf("Invoices = %d, want 2", len(board.Invoices))
	}
	if board.Error != "rooms down" {
		t.Errorf("Error = %q", board.Error)
	}
	if svc.Loading() {
		t.Error("Loading() = true after LoadAll returned")
	}
}

func TestListService_SnapshotReplacedByLatestLoad(t *testing.T) {
	calls := 0
	svc := NewListService(&mockGateway{
		fetchInvoicesFunc: func(ctx context.Context) ([]entity.Invoice, error) {
			calls++
			if calls == 1 {
				return sampleInvoices(), nil
			}
			return nil, errors.New("gone")
		},
	}, &mockLogger{})

	initial := svc.Snapshot()
	if len(initial.Invoices) != 0 || initial.Error != "" {
		t.Errorf("initial snapshot = %+v, want empty", initial)
	}

	first := svc.LoadAll(context.Background())
	if svc.Snapshot() != first {
		t.Error("Snapshot() should return the last loaded board")
	}

	svc.LoadAll(context.Background())
	got := svc.Snapshot()
	if len(got.Invoices) != 0 {
		t.Errorf("Invoices = %d, want 0 after failed reload", len(got.Invoices))
	}
	if got.Error != "gone" {
		t.Errorf("Error = %q, want %q", got.Error, "gone")
	}
}

func TestListService_FindInvoiceOnSnapshot(t *testing.T) {
	svc := NewListService(&mockGateway{
		fetchInvoicesFunc: func(ctx context.Context) ([]entity.Invoice, error) { return sampleInvoices(), nil },
	}, &mockLogger{})
	svc.LoadAll(context.Background())

	inv := svc.Snapshot().FindInvoice("inv-2")
	if inv == nil {
		t.Fatal("FindInvoice(inv-2) not found")
	}
	if inv.PaymentStatus != entity.PaymentStatusOverdue {
		t.Errorf("PaymentStatus = %q", inv.PaymentStatus)
	}
	if svc.Snapshot().FindInvoice("missing") != nil {
		t.Error("FindInvoice(missing) should not be found")
	}
}
