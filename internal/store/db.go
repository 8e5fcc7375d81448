package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"schoolms/internal/school"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
	DriverMemory   = "memory"
)

// DB wraps sqlx.DB for Postgres (pgx) or SQLite and implements school.Repository.
type DB struct {
	Client *sqlx.DB
	driver string
}

// NewDB opens a connection with sane defaults and pings it.
func NewDB(driver, connString string) (*DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, errors.Errorf("unsupported db driver %q", driver)
	}
	db, err := sqlx.Open(driver, connString)
	if err != nil {
		return nil, errors.Wrap(err, "opening db")
	}
	if driver == DriverSQLite && (strings.Contains(connString, ":memory:") || strings.Contains(connString, "mode=memory")) {
		// every sqlite connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(time.Hour)
	return &DB{Client: db, driver: driver}, db.PingContext(context.Background())
}

// Ping checks the connection is usable.
func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.Client == nil {
		return errors.New("db not configured")
	}
	return d.Client.PingContext(ctx)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}

func (d *DB) q(query string) string {
	return d.Client.Rebind(query)
}

// mustAffect turns a zero row count into school.ErrNotFound.
func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return school.ErrNotFound
	}
	return nil
}

// uniqueViolation reports whether err is a unique constraint failure on either driver.
func uniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// conflict replaces a unique violation with the domain sentinel.
func conflict(err, sentinel error) error {
	if uniqueViolation(err) {
		return sentinel
	}
	return err
}
