// Package migrations embeds the schema for every supported store and applies
// it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/gophid/internal/logging"
)

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Dialect selects the migration directory and the goose dialect.
type Dialect struct {
	Dir   string
	Goose string
}

var (
	Postgres = Dialect{Dir: "postgres", Goose: "pgx"}
	SQLite   = Dialect{Dir: "sqlite", Goose: "sqlite3"}
)

func init() {
	goose.SetLogger(goose.NopLogger())
}

// SetLogger routes goose progress lines to logger at info level.
func SetLogger(logger logging.Logger) {
	goose.SetLogger(&gooseLogger{logger: logger.With("component", "migrations")})
}

type gooseLogger struct {
	logger logging.Logger
	exit   func(int)
}

func (l *gooseLogger) Printf(format string, v ...any) {
	l.logger.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	if l.exit == nil {
		os.Exit(1)
	}
	l.exit(1)
}

// gooseUpContext is a seam for tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Up applies all pending migrations of dialect d.
func Up(ctx context.Context, db *sql.DB, d Dialect) error {
	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect(d.Goose); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, d.Dir); err != nil {
		return fmt.Errorf("migrate %s: %w", d.Dir, err)
	}
	return nil
}
