package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"itrack/core/utils"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// ApplyMigrations brings the schema up to date for the active backend.
func ApplyMigrations(ctx context.Context, db *DB, logger *utils.Logger) error {
	var dialect database.Dialect
	var dir string
	switch db.Driver() {
	case DriverPostgres:
		dialect = database.DialectPostgres
		dir = "migrations/postgres"
	case DriverSQLite:
		dialect = database.DialectSQLite3
		dir = "migrations/sqlite"
	default:
		return fmt.Errorf("store: no migrations for driver %q", db.Driver())
	}
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db.DB, sub)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, res := range results {
		logger.Printf("store: migration applied %s", res.Source.Path)
	}
	return nil
}
