package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

type countingLoader struct {
	calls atomic.Int32
	err   string
}

func (l *countingLoader) LoadAll(ctx context.Context) *entity.InvoiceBoard {
	l.calls.Add(1)
	return &entity.InvoiceBoard{Invoices: []entity.Invoice{}, Rooms: []entity.Room{}, Error: l.err}
}

func TestRefreshWorker_ScheduleRefreshRunsAfterDelay(t *testing.T) {
	loader := &countingLoader{}
	w := NewRefreshWorker(RefreshConfig{Delay: 50 * time.Millisecond}, loader, zap.NewNop())

	start := time.Now()
	w.ScheduleRefresh()
	assert.Equal(t, int32(0), loader.calls.Load())

	w.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRefreshWorker_EachScheduleRefreshes(t *testing.T) {
	loader := &countingLoader{err: "rooms down"}
	w := NewRefreshWorker(RefreshConfig{}, loader, zap.NewNop())

	w.ScheduleRefresh()
	w.ScheduleRefresh()
	w.ScheduleRefresh()
	w.Wait()

	assert.Equal(t, int32(3), loader.calls.Load())
}

func TestRefreshWorker_StopCancelsPendingTimers(t *testing.T) {
	loader := &countingLoader{}
	w := NewRefreshWorker(RefreshConfig{Delay: time.Hour}, loader, zap.NewNop())
	require.NoError(t, w.Start(context.Background()))

	w.ScheduleRefresh()

	done := make(chan struct{})
	go func() {
		assert.NoError(t, w.Stop())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() blocked on a pending timer")
	}
	assert.Equal(t, int32(0), loader.calls.Load())

	w.ScheduleRefresh()
	w.Wait()
	assert.Equal(t, int32(0), loader.calls.Load())
}

func TestRefreshWorker_Interval(t *testing.T) {
	loader := &countingLoader{}
	w := NewRefreshWorker(RefreshConfig{Interval: 10 * time.Millisecond}, loader, zap.NewNop())
	require.NoError(t, w.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return loader.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, w.Stop())
	after := loader.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, loader.calls.Load())
}

func TestRefreshWorker_Name(t *testing.T) {
	w := NewRefreshWorker(DefaultRefreshConfig(), &countingLoader{}, zap.NewNop())
	assert.Equal(t, "refresh-worker", w.Name())
}

type stubWorker struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
}

func (s *stubWorker) Start(ctx context.Context) error {
	*s.events = append(*s.events, "start:"+s.name)
	return s.startErr
}

func (s *stubWorker) Stop() error {
	*s.events = append(*s.events, "stop:"+s.name)
	return s.stopErr
}

func (s *stubWorker) Name() string { return s.name }

func TestManager_Lifecycle(t *testing.T) {
	var events []string
	m := NewManager(zap.NewNop())
	m.Register(&stubWorker{name: "a", events: &events})
	m.Register(&stubWorker{name: "b", startErr: errors.New("boom"), events: &events})
	m.Register(&stubWorker{name: "c", events: &events})

	require.NoError(t, m.StartAll(context.Background()))
	assert.True(t, m.IsRunning())
	assert.Equal(t, 3, m.Count())
	assert.Error(t, m.StartAll(context.Background()))

	require.NoError(t, m.StopAll())
	assert.False(t, m.IsRunning())
	assert.Equal(t, []string{"start:a", "start:b", "start:c", "stop:c", "stop:b", "stop:a"}, events)

	assert.NoError(t, m.StopAll())
}

func TestManager_StopErrorsAreJoined(t *testing.T) {
	var events []string
	m := NewManager(zap.NewNop())
	m.Register(&stubWorker{name: "a", stopErr: errors.New("stuck"), events: &events})
	m.Register(&stubWorker{name: "b", events: &events})

	require.NoError(t, m.StartAll(context.Background()))
	err := m.StopAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: stuck")
}
