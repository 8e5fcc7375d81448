package store

import (
	"context"
	"embed"
	"path"
	"sync"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration.
func (d *DB) Migrate(ctx context.Context) error {
	return d.RunMigrations(ctx, "up")
}

// RunMigrations runs a goose command (up, up-by-one, up-to, down, down-to, redo, reset,
// status, version) against the migrations embedded for the driver's dialect.
func (d *DB) RunMigrations(ctx context.Context, command string, args ...string) error {
	dialect, dir := "sqlite3", path.Join("migrations", "sqlite3")
	if d.driver == DriverPostgres {
		dialect, dir = "postgres", path.Join("migrations", "postgres")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunContext(ctx, command, d.Client.DB, dir, args...); err != nil {
		return errors.Wrapf(err, "migrate %s", command)
	}
	return nil
}
