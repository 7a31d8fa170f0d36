package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// BoardLoader reloads the invoice board
type BoardLoader interface {
	LoadAll(ctx context.Context) *entity.InvoiceBoard
}

// RefreshConfig holds configuration for the refresh worker
type RefreshConfig struct {
	Delay    time.Duration // wait between a submission and its refresh
	Interval time.Duration // periodic reload, 0 disables it
	Timeout  time.Duration // upper bound for one reload
}

// DefaultRefreshConfig returns default configuration
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Delay:   500 * time.Millisecond,
		Timeout: 30 * time.Second,
	}
}

var (
	_ port.RefreshScheduler = (*RefreshWorker)(nil)
	_ Worker                = (*RefreshWorker)(nil)
)

// RefreshWorker reloads the board after submissions and, optionally, on a
// fixed interval
type RefreshWorker struct {
	config RefreshConfig
	loader BoardLoader
	logger *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
	timers  map[*time.Timer]struct{}
	pending sync.WaitGroup
	loop    sync.WaitGroup
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(config RefreshConfig, loader BoardLoader, logger *zap.Logger) *RefreshWorker {
	if config.Delay < 0 {
		config.Delay = 0
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultRefreshConfig().Timeout
	}
	return &RefreshWorker{
		config: config,
		loader: loader,
		logger: logger,
		ctx:    context.Background(),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Name implements Worker
func (w *RefreshWorker) Name() string {
	return "refresh-worker"
}

// Start implements Worker. Scheduled refreshes work without Start; Start only
// binds them to ctx and runs the periodic reload when an interval is set.
func (w *RefreshWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.stopped = false
	runCtx := w.ctx
	w.mu.Unlock()

	if w.config.Interval > 0 {
		w.loop.Add(1)
		go w.run(runCtx)
	}

	w.logger.Info("Refresh worker started",
		zap.Duration("delay", w.config.Delay),
		zap.Duration("interval", w.config.Interval))
	return nil
}

// Stop implements Worker. Timers that have not fired are cancelled.
func (w *RefreshWorker) Stop() error {
	w.mu.Lock()
	w.stopped = true
	if w.cancel != nil {
		w.cancel()
	}
	for t := range w.timers {
		if t.Stop() {
			w.pending.Done()
		}
		delete(w.timers, t)
	}
	w.mu.Unlock()

	w.loop.Wait()
	w.pending.Wait()
	w.logger.Info("Refresh worker stopped")
	return nil
}

// ScheduleRefresh implements port.RefreshScheduler
func (w *RefreshWorker) ScheduleRefresh() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		w.logger.Warn("Refresh requested after stop, ignoring")
		return
	}

	w.pending.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.config.Delay, func() {
		defer w.pending.Done()

		w.mu.Lock()
		delete(w.timers, timer)
		ctx := w.ctx
		w.mu.Unlock()

		w.refresh(ctx, "submission")
	})
	w.timers[timer] = struct{}{}
}

// Wait blocks until every scheduled refresh has run or been cancelled
func (w *RefreshWorker) Wait() {
	w.pending.Wait()
}

func (w *RefreshWorker) run(ctx context.Context) {
	defer w.loop.Done()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.refresh(ctx, "interval")
		}
	}
}

func (w *RefreshWorker) refresh(parent context.Context, reason string) {
	ctx, cancel := context.WithTimeout(parent, w.config.Timeout)
	defer cancel()

	start := time.Now()
	board := w.loader.LoadAll(ctx)

	fields := []zap.Field{
		zap.String("reason", reason),
		zap.Int("invoices", len(board.Invoices)),
		zap.Int("rooms", len(board.Rooms)),
		zap.Duration("took", time.Since(start)),
	}
	if board.Error != "" {
		w.logger.Warn("Invoice board refreshed with errors", append(fields, zap.String("error", board.Error))...)
		return
	}
	w.logger.Info("Invoice board refreshed", fields...)
}
