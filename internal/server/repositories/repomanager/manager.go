// Package repomanager vends repository implementations for the configured
// storage driver and applies the matching schema migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/dbx"
	"github.com/dmitrijs2005/gophid/internal/server/config"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/users"
)

type RepositoryManager interface {
	// DriverName is the database/sql driver to open DSNs with.
	DriverName() string
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}

// New returns the manager for a config.Storage* driver name.
func New(driver string) (RepositoryManager, error) {
	switch driver {
	case config.StoragePostgres:
		return NewPostgresRepositoryManager(), nil
	case config.StorageSQLite:
		return NewSQLiteRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported storage driver %q", common.ErrConfiguration, driver)
	}
}

// Open opens dsn with m's driver, checks connectivity and migrates the schema.
// SQLite databases are held on a single connection: writers serialize instead
// of failing with SQLITE_BUSY, and a ":memory:" DSN keeps one database.
func Open(ctx context.Context, m RepositoryManager, dsn string) (*sql.DB, error) {
	db, err := sql.Open(m.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if m.DriverName() == sqliteDriverName {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
