package school

import "context"

// Repositories return ErrNotFound for id misses on get, update and delete.

type AccountRepository interface {
	CreateAccount(ctx context.Context, acc Account) error
	AccountByID(ctx context.Context, id string) (Account, error)
	AccountByUsername(ctx context.Context, username string) (Account, error)
	AccountExists(ctx context.Context, username, email string) (bool, error)
	RoleExists(ctx context.Context, role Role) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// StudentLookup resolves weak student references. Missing ids are absent from the result.
type StudentLookup interface {
	StudentsByIDs(ctx context.Context, ids []string) (map[string]Student, error)
}

type StudentRepository interface {
	StudentLookup
	ListStudents(ctx context.Context) ([]Student, error)
	StudentByID(ctx context.Context, id string) (Student, error)
	CreateStudent(ctx context.Context, s Student) error
	UpdateStudent(ctx context.Context, s Student) error
	DeleteStudent(ctx context.Context, id string) error
	CountStudents(ctx context.Context, status Status) (int, error)
}

type TeacherRepository interface {
	ListTeachers(ctx context.Context) ([]Teacher, error)
	TeacherByID(ctx context.Context, id string) (Teacher, error)
	CreateTeacher(ctx context.Context, t Teacher) error
	UpdateTeacher(ctx context.Context, t Teacher) error
	DeleteTeacher(ctx context.Context, id string) error
	CountTeachers(ctx context.Context, status Status) (int, error)
	// TeacherEmailTaken ignores the teacher with id excludeID.
	TeacherEmailTaken(ctx context.Context, email, excludeID string) (bool, error)
	// NextTeacherSeq atomically increments and returns the teacher sequence.
	NextTeacherSeq(ctx context.Context) (int64, error)
}

type AttendanceRepository interface {
	// ListAttendance orders by date, newest first.
	ListAttendance(ctx context.Context) ([]AttendanceRecord, error)
	AttendanceByID(ctx context.Context, id string) (AttendanceRecord, error)
	CreateAttendance(ctx context.Context, a AttendanceRecord) error
	UpdateAttendance(ctx context.Context, a AttendanceRecord) error
	DeleteAttendance(ctx context.Context, id string) error
}

type FinanceRepository interface {
	ListFinance(ctx context.Context) ([]FinanceRecord, error)
	FinanceByID(ctx context.Context, id string) (FinanceRecord, error)
	CreateFinance(ctx context.Context, f FinanceRecord) error
	UpdateFinance(ctx context.Context, f FinanceRecord) error
	DeleteFinance(ctx context.Context, id string) error
	SumFinance(ctx context.Context, status FinanceStatus) (float64, error)
}

// Repository is everything the service persists.
type Repository interface {
	AccountRepository
	StudentRepository
	TeacherRepository
	AttendanceRepository
	FinanceRepository
}
