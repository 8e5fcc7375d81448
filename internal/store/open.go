package store

import (
	"context"

	"schoolms/internal/school"
)

// Backend is a school.Repository with its lifecycle hooks.
type Backend interface {
	school.Repository
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	RunMigrations(ctx context.Context, command string, args ...string) error
	Close() error
}

// Open returns the backend selected by driver. "memory" keeps everything in process.
func Open(driver, connString string) (Backend, error) {
	if driver == DriverMemory {
		return NewMemory(), nil
	}
	db, err := NewDB(driver, connString)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}
	return db, nil
}

// Migrate is a no-op: memory tables need no schema.
func (m *Memory) Migrate(context.Context) error { return nil }

func (m *Memory) RunMigrations(context.Context, string, ...string) error { return nil }

func (m *Memory) Close() error { return nil }
