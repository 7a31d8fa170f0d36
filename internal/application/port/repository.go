package port

import (
	"context"
	"time"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
)

// SubmissionRepository defines persistence operations for the submission journal
type SubmissionRepository interface {
	Create(ctx context.Context, record *entity.SubmissionRecord) error
	Finish(ctx context.Context, id string, state string, statusCode int, message string, finishedAt time.Time) error
	GetByID(ctx context.Context, id string) (*entity.SubmissionRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.SubmissionRecord, error)
}
