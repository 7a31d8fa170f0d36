package port

import "context"

// Notifier surfaces operator feedback (toasts)
type Notifier interface {
	Success(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// EditingSurface is the create/edit form a submission came from
type EditingSurface interface {
	Close()
}

// RefreshScheduler re-loads the invoice screen after a delay without blocking the caller
type RefreshScheduler interface {
	ScheduleRefresh()
}
