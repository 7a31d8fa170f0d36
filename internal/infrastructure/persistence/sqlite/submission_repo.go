package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/application/port"
	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
	"github.com/garyjia/room-invoice-admin/pkg/database"
)

// ErrSubmissionNotFound is returned when no journal entry has the requested id
var ErrSubmissionNotFound = errors.New("submission not found")

const defaultListLimit = 50

// SubmissionRepository implements port.SubmissionRepository
type SubmissionRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a new submission journal repository
func NewSubmissionRepository(db *database.DB, logger *zap.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a submission that has just been dispatched
func (r *SubmissionRepository) Create(ctx context.Context, record *entity.SubmissionRecord) error {
	query := `
		INSERT INTO submissions (
			id, invoice_id, operation, state, status_code, message,
			kept_count, deleted_count, added_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Executor(ctx).ExecContext(ctx, query,
		record.ID,
		nullString(record.InvoiceID),
		record.Operation.String(),
		record.State,
		record.StatusCode,
		nullString(record.Message),
		record.KeptCount,
		record.DeletedCount,
		record.AddedCount,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create submission record",
			zap.String("submission_id", record.ID),
			zap.Error(err))
		return fmt.Errorf("failed to create submission record: %w", err)
	}
	return nil
}

// Finish stores the final state of a submission
func (r *SubmissionRepository) Finish(ctx context.Context, id, state string, statusCode int, message string, finishedAt time.Time) error {
	query := `
		UPDATE submissions
		SET state = ?, status_code = ?, message = ?, finished_at = ?
		WHERE id = ?
	`

	result, err := r.db.Executor(ctx).ExecContext(ctx, query, state, statusCode, nullString(message), finishedAt, id)
	if err != nil {
		r.logger.Error("Failed to finish submission record",
			zap.String("submission_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to finish submission record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	}
	return nil
}

// GetByID retrieves a submission record
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*entity.SubmissionRecord, error) {
	query := `
		SELECT id, invoice_id, operation, state, status_code, message,
			kept_count, deleted_count, added_count, created_at, finished_at
		FROM submissions
		WHERE id = ?
	`

	record, err := scanRecord(r.db.Executor(ctx).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSubmissionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission record: %w", err)
	}
	return record, nil
}

// ListRecent returns the newest submissions first
func (r *SubmissionRepository) ListRecent(ctx context.Context, limit int) ([]*entity.SubmissionRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, invoice_id, operation, state, status_code, message,
			kept_count, deleted_count, added_count, created_at, finished_at
		FROM submissions
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Executor(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	records := make([]*entity.SubmissionRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*entity.SubmissionRecord, error) {
	var record entity.SubmissionRecord
	var operation string
	var invoiceID, message sql.NullString
	var finishedAt sql.NullTime

	err := row.Scan(
		&record.ID,
		&invoiceID,
		&operation,
		&record.State,
		&record.StatusCode,
		&message,
		&record.KeptCount,
		&record.DeletedCount,
		&record.AddedCount,
		&record.CreatedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Operation = entity.Operation(operation)
	record.InvoiceID = invoiceID.String
	record.Message = message.String
	if finishedAt.Valid {
		t := finishedAt.Time
		record.FinishedAt = &t
	}
	return &record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Verify interface compliance
var _ port.SubmissionRepository = (*SubmissionRepository)(nil)
