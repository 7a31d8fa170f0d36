package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// MessageSessionExpired is shown when the billing session has to be renewed
const MessageSessionExpired = "Session expired, please sign in again"

const defaultFeedCapacity = 100

var _ port.Notifier = (*Feed)(nil)

// Feed keeps the most recent operator notifications in memory until the
// console collects them
type Feed struct {
	capacity int
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	items []entity.Notification
}

// NewFeed creates a feed holding at most capacity notifications; older ones
// are dropped first
func NewFeed(capacity int, logger *zap.Logger) *Feed {
	if capacity <= 0 {
		capacity = defaultFeedCapacity
	}
	return &Feed{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
		items:    make([]entity.Notification, 0),
	}
}

// Success implements port.Notifier
func (f *Feed) Success(ctx context.Context, message string) {
	f.push(entity.NotificationSuccess, message)
}

// Error implements port.Notifier
func (f *Feed) Error(ctx context.Context, message string) {
	f.push(entity.NotificationError, message)
}

// Info adds an informational notification
func (f *Feed) Info(ctx context.Context, message string) {
	f.push(entity.NotificationInfo, message)
}

// SessionExpired records that the session token was cleared
func (f *Feed) SessionExpired() {
	f.push(entity.NotificationInfo, MessageSessionExpired)
}

// List returns the pending notifications, oldest first
func (f *Feed) List() []entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Notification{}, f.items...)
}

// Drain returns the pending notifications and empties the feed
func (f *Feed) Drain() []entity.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items
	f.items = make([]entity.Notification, 0)
	return items
}

func (f *Feed) push(level, message string) {
	n := entity.Notification{
		Level:     level,
		Message:   message,
		CreatedAt: f.now(),
	}

	f.mu.Lock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.capacity; over > 0 {
		f.items = append([]entity.Notification(nil), f.items[over:]...)
	}
	f.mu.Unlock()

	f.logger.Info("Operator notification",
		zap.String("level", level),
		zap.String("message", message))
}
