package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/internal/domain/entity"
	"github.com/garyjia/room-invoice-admin/pkg/database"
)

var submissionColumns = []string{
	"id", "invoice_id", "operation", "state", "status_code", "message",
	"kept_count", "deleted_count", "added_count", "created_at", "finished_at",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *SubmissionRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := zap.NewNop()
	repo := NewSubmissionRepository(database.Wrap(db, logger), logger)

	return db, mock, repo
}

func TestSubmissionRepository_Create(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	createdAt := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	record := &entity.SubmissionRecord{
		ID:           "sub-1",
		InvoiceID:    "inv-1",
		Operation:    entity.OperationUpdate,
		State:        "SUBMITTING",
		KeptCount:    1,
		DeletedCount: 1,
		AddedCount:   2,
		CreatedAt:    createdAt,
	}

	mock.ExpectExec(`INSERT INTO submissions`).
		WithArgs("sub-1", "inv-1", "update", "SUBMITTING", 0, nil, 1, 1, 2, createdAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), record)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_CreateError(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO submissions`).
		WillReturnError(errors.New("database is locked"))

	err := repo.Create(context.Background(), &entity.SubmissionRecord{ID: "sub-1", Operation: entity.OperationCreate})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_Finish(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	finishedAt := time.Date(2024, 3, 5, 10, 0, 1, 0, time.UTC)
	mock.ExpectExec(`UPDATE submissions`).
		WithArgs("SUCCEEDED", 200, "Invoice updated successfully", finishedAt, "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Finish(context.Background(), "sub-1", "SUCCEEDED", 200, "Invoice updated successfully", finishedAt)

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_FinishNotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE submissions`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Finish(context.Background(), "missing", "FAILED", 0, "", time.Now())

	assert.ErrorIs(t, err, ErrSubmissionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_GetByID(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	createdAt := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	finishedAt := createdAt.Add(time.Second)
	rows := sqlmock.NewRows(submissionColumns).
		AddRow("sub-1", nil, "create", "FAILED", 422, "Room is required", 0, 0, 1, createdAt, finishedAt)

	mock.ExpectQuery(`SELECT (.+) FROM submissions WHERE id = \?`).
		WithArgs("sub-1").
		WillReturnRows(rows)

	record, err := repo.GetByID(context.Background(), "sub-1")

	require.NoError(t, err)
	assert.Equal(t, "sub-1", record.ID)
	assert.Empty(t, record.InvoiceID)
	assert.Equal(t, entity.OperationCreate, record.Operation)
	assert.Equal(t, "FAILED", record.State)
	assert.Equal(t, 422, record.StatusCode)
	assert.Equal(t, "Room is required", record.Message)
	assert.Equal(t, 1, record.AddedCount)
	require.NotNil(t, record.FinishedAt)
	assert.True(t, finishedAt.Equal(*record.FinishedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_GetByIDNotFound(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	record, err := repo.GetByID(context.Background(), "missing")

	assert.Nil(t, record)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_ListRecent(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(submissionColumns).
		AddRow("sub-2", "inv-1", "update", "SUCCEEDED", 200, "Invoice updated successfully", 1, 0, 0, now, now).
		AddRow("sub-1", nil, "create", "SUBMITTING", 0, nil, 0, 0, 0, now.Add(-time.Minute), nil)

	mock.ExpectQuery(`SELECT (.+) FROM submissions ORDER BY created_at DESC LIMIT \?`).
		WithArgs(defaultListLimit).
		WillReturnRows(rows)

	records, err := repo.ListRecent(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "sub-2", records[0].ID)
	assert.Nil(t, records[1].FinishedAt)
	assert.Empty(t, records[1].Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepository_ListRecentEmpty(t *testing.T) {
	db, mock, repo := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(submissionColumns))

	records, err := repo.ListRecent(context.Background(), 5)

	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_Embedded(t *testing.T) {
	migrations, err := database.LoadMigrations(Migrations())

	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "submissions", migrations[0].Name)
	assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS submissions")
}
