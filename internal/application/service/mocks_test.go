package service

import (
	"context"
	"sync"
	"time"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

type mockGateway struct {
	fetchInvoicesFunc func(ctx context.Context) ([]entity.Invoice, error)
	fetchRoomsFunc    func(ctx context.Context) ([]entity.Room, error)
	createFunc        func(ctx context.Context, p *entity.TransportPayload) (*entity.BoundaryResponse, error)
	updateFunc        func(ctx context.Context, id string, p *entity.TransportPayload) (*entity.BoundaryResponse, error)

	mu       sync.Mutex
	creates  []*entity.TransportPayload
	updates  []*entity.TransportPayload
	updateID []string
}

func (m *mockGateway) FetchInvoices(ctx context.Context) ([]entity.Invoice, error) {
	if m.fetchInvoicesFunc != nil {
		return m.fetchInvoicesFunc(ctx)
	}
	return []entity.Invoice{}, nil
}

func (m *mockGateway) FetchOccupiedRooms(ctx context.Context) ([]entity.Room, error) {
	if m.fetchRoomsFunc != nil {
		return m.fetchRoomsFunc(ctx)
	}
	return []entity.Room{}, nil
}

func (m *mockGateway) CreateInvoice(ctx context.Context, p *entity.TransportPayload) (*entity.BoundaryResponse, error) {
	m.mu.Lock()
	m.creates = append(m.creates, p)
	m.mu.Unlock()
	if m.createFunc != nil {
		return m.createFunc(ctx, p)
	}
	return &entity.BoundaryResponse{StatusCode: entity.CreateSuccessStatus}, nil
}

func (m *mockGateway) UpdateInvoice(ctx context.Context, id string, p *entity.TransportPayload) (*entity.BoundaryResponse, error) {
	m.mu.Lock()
	m.updates = append(m.updates, p)
	m.updateID = append(m.updateID, id)
	m.mu.Unlock()
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, p)
	}
	return &entity.BoundaryResponse{StatusCode: entity.UpdateSuccessStatus}, nil
}

type mockNotifier struct {
	successes []string
	errors    []string
}

func (m *mockNotifier) Success(ctx context.Context, message string) {
	m.successes = append(m.successes, message)
}

func (m *mockNotifier) Error(ctx context.Context, message string) {
	m.errors = append(m.errors, message)
}

type mockSurface struct {
	closed int
}

func (m *mockSurface) Close() {
	m.closed++
}

type mockRefresher struct {
	scheduled int
}

func (m *mockRefresher) ScheduleRefresh() {
	m.scheduled++
}

type mockJournal struct {
	createFunc func(ctx context.Context, record *entity.SubmissionRecord) error
	finishFunc func(ctx context.Context, id, state string, statusCode int, message string, finishedAt time.Time) error

	records  map[string]*entity.SubmissionRecord
	finished map[string]string
}

func newMockJournal() *mockJournal {
	return &mockJournal{
		records:  map[string]*entity.SubmissionRecord{},
		finished: map[string]string{},
	}
}

func (m *mockJournal) Create(ctx context.Context, record *entity.SubmissionRecord) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, record)
	}
	m.records[record.ID] = record
	return nil
}

func (m *mockJournal) Finish(ctx context.Context, id, state string, statusCode int, message string, finishedAt time.Time) error {
	if m.finishFunc != nil {
		return m.finishFunc(ctx, id, state, statusCode, message, finishedAt)
	}
	m.finished[id] = state
	return nil
}

func (m *mockJournal) GetByID(ctx context.Context, id string) (*entity.SubmissionRecord, error) {
	return m.records[id], nil
}

func (m *mockJournal) ListRecent(ctx context.Context, limit int) ([]*entity.SubmissionRecord, error) {
	return []*entity.SubmissionRecord{}, nil
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
