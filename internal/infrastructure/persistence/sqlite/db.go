package sqlite

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/garyjia/room-invoice-admin/pkg/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the journal schema migrations
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(fmt.Sprintf("embedded migrations missing: %v", err))
	}
	return sub
}

// Open connects to the journal database and brings its schema up to date
func Open(ctx context.Context, cfg database.Config, logger *zap.Logger) (*database.DB, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(ctx, Migrations()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal database: %w", err)
	}
	return db, nil
}
