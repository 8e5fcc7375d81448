package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"schoolms/internal/school"
)

const studentColumns = `id, name, email, age, grade, course, enroll_date, parent_name, parent_contact,
	address, city, status, student_id, avatar, created_at, updated_at`

func (d *DB) ListStudents(ctx context.Context) ([]school.Student, error) {
	students := []school.Student{}
	err := d.Client.SelectContext(ctx, &students, `SELECT `+studentColumns+` FROM students ORDER BY created_at DESC`)
	return students, err
}

func (d *DB) StudentByID(ctx context.Context, id string) (school.Student, error) {
	var s school.Student
	err := d.get(ctx, &s, `SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	return s, err
}

func (d *DB) StudentsByIDs(ctx context.Context, ids []string) (map[string]school.Student, error) {
	out := make(map[string]school.Student, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+studentColumns+` FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building student lookup")
	}
	var students []school.Student
	if err := d.Client.SelectContext(ctx, &students, d.q(query), args...); err != nil {
		return nil, err
	}
	for _, s := range students {
		out[s.ID] = s
	}
	return out, nil
}

func (d *DB) CreateStudent(ctx context.Context, s school.Student) error {
	_, err := d.Client.NamedExecContext(ctx, `
		INSERT INTO students (`+studentColumns+`)
		VALUES (:id, :name, :email, :age, :grade, :course, :enroll_date, :parent_name, :parent_contact,
			:address, :city, :status, :student_id, :avatar, :created_at, :updated_at)
	`, s)
	return err
}

func (d *DB) UpdateStudent(ctx context.Context, s school.Student) error {
	return mustAffect(d.Client.NamedExecContext(ctx, `
		UPDATE students SET name = :name, email = :email, age = :age, grade = :grade, course = :course,
			enroll_date = :enroll_date, parent_name = :parent_name, parent_contact = :parent_contact,
			address = :address, city = :city, status = :status, student_id = :student_id,
			avatar = :avatar, updated_at = :updated_at
		WHERE id = :id
	`, s))
}

func (d *DB) DeleteStudent(ctx context.Context, id string) error {
	return mustAffect(d.Client.ExecContext(ctx, d.q(`DELETE FROM students WHERE id = ?`), id))
}

func (d *DB) CountStudents(ctx context.Context, status school.Status) (int, error) {
	var n int
	err := d.get(ctx, &n, `SELECT COUNT(*) FROM students WHERE status = ?`, status)
	return n, err
}

const teacherColumns = `id, name, email, phone, subject, qualification, experience, salary, join_date,
	status, teacher_id, avatar, created_at, updated_at`

func (d *DB) ListTeachers(ctx context.Context) ([]school.Teacher, error) {
	teachers := []school.Teacher{}
	err := d.Client.SelectContext(ctx, &teachers, `SELECT `+teacherColumns+` FROM teachers ORDER BY created_at DESC`)
	return teachers, err
}

func (d *DB) TeacherByID(ctx context.Context, id string) (school.Teacher, error) {
	var t school.Teacher
	err := d.get(ctx, &t, `SELECT `+teacherColumns+` FROM teachers WHERE id = ?`, id)
	return t, err
}

func (d *DB) CreateTeacher(ctx context.Context, t school.Teacher) error {
	_, err := d.Client.NamedExecContext(ctx, `
		INSERT INTO teachers (`+teacherColumns+`)
		VALUES (:id, :name, :email, :phone, :subject, :qualification, :experience, :salary, :join_date,
			:status, :teacher_id, :avatar, :created_at, :updated_at)
	`, t)
	return conflict(err, school.ErrTeacherEmailTaken)
}

// UpdateTeacher never rewrites teacher_id.
func (d *DB) UpdateTeacher(ctx context.Context, t school.Teacher) error {
	err := mustAffect(d.Client.NamedExecContext(ctx, `
		UPDATE teachers SET name = :name, email = :email, phone = :phone, subject = :subject,
			qualification = :qualification, experience = :experience, salary = :salary,
			join_date = :join_date, status = :status, avatar = :avatar, updated_at = :updated_at
		WHERE id = :id
	`, t))
	return conflict(err, school.ErrTeacherEmailTaken)
}

func (d *DB) DeleteTeacher(ctx context.Context, id string) error {
	return mustAffect(d.Client.ExecContext(ctx, d.q(`DELETE FROM teachers WHERE id = ?`), id))
}

func (d *DB) CountTeachers(ctx context.Context, status school.Status) (int, error) {
	var n int
	err := d.get(ctx, &n, `SELECT COUNT(*) FROM teachers WHERE status = ?`, status)
	return n, err
}

func (d *DB) TeacherEmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var n int
	err := d.get(ctx, &n, `SELECT COUNT(*) FROM teachers WHERE email = ? AND id <> ?`, email, excludeID)
	return n > 0, err
}

// NextTeacherSeq increments the teacher sequence in a single statement, so
// concurrent callers always receive distinct values.
func (d *DB) NextTeacherSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := d.get(ctx, &seq, `UPDATE sequences SET value = value + 1 WHERE name = 'teacher' RETURNING value`)
	if err != nil {
		return 0, errors.Wrap(err, "incrementing teacher sequence")
	}
	return seq, nil
}
