package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"schoolms/internal/school"
)

const accountColumns = `id, username, email, password_hash, full_name, role, avatar, created_at`

// get runs a single row query and maps sql.ErrNoRows to school.ErrNotFound.
func (d *DB) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := d.Client.GetContext(ctx, dest, d.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return school.ErrNotFound
	}
	return err
}

func (d *DB) CreateAccount(ctx context.Context, acc school.Account) error {
	_, err := d.Client.NamedExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (:id, :username, :email, :password_hash, :full_name, :role, :avatar, :created_at)
	`, acc)
	return conflict(err, school.ErrAccountExists)
}

func (d *DB) AccountByID(ctx context.Context, id string) (school.Account, error) {
	var acc school.Account
	err := d.get(ctx, &acc, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return acc, err
}

func (d *DB) AccountByUsername(ctx context.Context, username string) (school.Account, error) {
	var acc school.Account
	err := d.get(ctx, &acc, `SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username)
	return acc, err
}

func (d *DB) AccountExists(ctx context.Context, username, email string) (bool, error) {
	var n int
	err := d.get(ctx, &n, `SELECT COUNT(*) FROM accounts WHERE username = ? OR email = ?`, username, email)
	return n > 0, err
}

func (d *DB) RoleExists(ctx context.Context, role school.Role) (bool, error) {
	var n int
	err := d.get(ctx, &n, `SELECT COUNT(*) FROM accounts WHERE role = ?`, role)
	return n > 0, err
}

func (d *DB) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return mustAffect(d.Client.ExecContext(ctx, d.q(`UPDATE accounts SET password_hash = ? WHERE id = ?`), passwordHash, id))
}
