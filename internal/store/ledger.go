package store

import (
	"context"

	"schoolms/internal/school"
)

const attendanceColumns = `id, student_ref, student_name, date, status, remarks, created_at, updated_at`

func (d *DB) ListAttendance(ctx context.Context) ([]school.AttendanceRecord, error) {
	recs := []school.AttendanceRecord{}
	err := d.Client.SelectContext(ctx, &recs, `SELECT `+attendanceColumns+` FROM attendance ORDER BY date DESC, created_at DESC`)
	return recs, err
}

func (d *DB) AttendanceByID(ctx context.Context, id string) (school.AttendanceRecord, error) {
	var a school.AttendanceRecord
	err := d.get(ctx, &a, `SELECT `+attendanceColumns+` FROM attendance WHERE id = ?`, id)
	return a, err
}

func (d *DB) CreateAttendance(ctx context.Context, a school.AttendanceRecord) error {
	_, err := d.Client.NamedExecContext(ctx, `
		INSERT INTO attendance (`+attendanceColumns+`)
		VALUES (:id, :student_ref, :student_name, :date, :status, :remarks, :created_at, :updated_at)
	`, a)
	return err
}

func (d *DB) UpdateAttendance(ctx context.Context, a school.AttendanceRecord) error {
	return mustAffect(d.Client.NamedExecContext(ctx, `
		UPDATE attendance SET student_ref = :student_ref, student_name = :student_name, date = :date,
			status = :status, remarks = :remarks, updated_at = :updated_at
		WHERE id = :id
	`, a))
}

func (d *DB) DeleteAttendance(ctx context.Context, id string) error {
	return mustAffect(d.Client.ExecContext(ctx, d.q(`DELETE FROM attendance WHERE id = ?`), id))
}

const financeColumns = `id, student_ref, student_name, amount, type, status, due_date, paid_date, remarks,
	created_at, updated_at`

func (d *DB) ListFinance(ctx context.Context) ([]school.FinanceRecord, error) {
	recs := []school.FinanceRecord{}
	err := d.Client.SelectContext(ctx, &recs, `SELECT `+financeColumns+` FROM finance ORDER BY created_at DESC`)
	return recs, err
}

func (d *DB) FinanceByID(ctx context.Context, id string) (school.FinanceRecord, error) {
	var f school.FinanceRecord
	err := d.get(ctx, &f, `SELECT `+financeColumns+` FROM finance WHERE id = ?`, id)
	return f, err
}

func (d *DB) CreateFinance(ctx context.Context, f school.FinanceRecord) error {
	_, err := d.Client.NamedExecContext(ctx, `
		INSERT INTO finance (`+financeColumns+`)
		VALUES (:id, :student_ref, :student_name, :amount, :type, :status, :due_date, :paid_date, :remarks,
			:created_at, :updated_at)
	`, f)
	return err
}

func (d *DB) UpdateFinance(ctx context.Context, f school.FinanceRecord) error {
	return mustAffect(d.Client.NamedExecContext(ctx, `
		UPDATE finance SET student_ref = :student_ref, student_name = :student_name, amount = :amount,
			type = :type, status = :status, due_date = :due_date, paid_date = :paid_date,
			remarks = :remarks, updated_at = :updated_at
		WHERE id = :id
	`, f))
}

func (d *DB) DeleteFinance(ctx context.Context, id string) error {
	return mustAffect(d.Client.ExecContext(ctx, d.q(`DELETE FROM finance WHERE id = ?`), id))
}

func (d *DB) SumFinance(ctx context.Context, status school.FinanceStatus) (float64, error) {
	var total float64
	err := d.get(ctx, &total, `SELECT COALESCE(SUM(amount), 0.0) FROM finance WHERE status = ?`, status)
	return total, err
}
