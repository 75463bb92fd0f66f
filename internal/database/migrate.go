package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationsTable records the applied schema version.
const MigrationsTable = "schema_migrations"

// Result reports the schema version before and after a Migrate call.
// Version 0 means no migration had been applied.
type Result struct {
	From uint
	To   uint
}

// Applied reports whether the call changed the schema.
func (r Result) Applied() bool { return r.From != r.To }

// Source returns the embedded migrations as a golang-migrate source.
func Source() (source.Driver, error) {
	return iofs.New(migrationFiles, "migrations")
}

// migrateLogger routes golang-migrate output through logrus.
type migrateLogger struct{ log *logrus.Entry }

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool { return l.log.Logger.IsLevelEnabled(logrus.DebugLevel) }

// Migrate applies every pending up migration on a dedicated connection
// from db.  The pool itself stays open.  Cancelling ctx stops the run
// between migrations.
func Migrate(ctx context.Context, db *sql.DB) (Result, error) {
	src, err := Source()
	if err != nil {
		return Result{}, fmt.Errorf("read migrations: %w", err)
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		_ = src.Close()
		return Result{}, fmt.Errorf("migration connection: %w", err)
	}
	drv, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = src.Close()
		_ = conn.Close()
		return Result{}, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		_ = src.Close()
		_ = drv.Close()
		return Result{}, fmt.Errorf("migrator: %w", err)
	}
	defer m.Close()
	m.Log = migrateLogger{log: logrus.WithField("component", "migrate")}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	from, err := version(m)
	if err != nil {
		return Result{}, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Result{From: from}, fmt.Errorf("migrate up: %w", err)
	}
	to, err := version(m)
	if err != nil {
		return Result{From: from}, err
	}
	return Result{From: from, To: to}, ctx.Err()
}

func version(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("schema version: %w", err)
	case dirty:
		return v, fmt.Errorf("schema version %d is dirty; fix it and force the version", v)
	}
	return v, nil
}
