package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
)

var (
	_ port.Notifier = (*Console)(nil)
	_ port.Notifier = Multi(nil)
)

// Console prints notifications for the command line tool
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console notifier writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Success implements port.Notifier
func (c *Console) Success(ctx context.Context, message string) {
	c.print("OK", message)
}

// Error implements port.Notifier
func (c *Console) Error(ctx context.Context, message string) {
	c.print("ERROR", message)
}

func (c *Console) print(tag, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "[%s] %s\n", tag, message)
}

// Multi fans a notification out to several notifiers
type Multi []port.Notifier

// Success implements port.Notifier
func (m Multi) Success(ctx context.Context, message string) {
	for _, n := range m {
		n.Success(ctx, message)
	}
}

// Error implements port.Notifier
func (m Multi) Error(ctx context.Context, message string) {
	for _, n := range m {
		n.Error(ctx, message)
	}
}
