package school

import (
	"encoding/json"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD:
		return true
	}
	return false
}

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

type FinanceType string

const (
	FinanceFee   FinanceType = "fee"
	FinanceFine  FinanceType = "fine"
	FinanceOther FinanceType = "other"
)

func (t FinanceType) Valid() bool {
	switch t {
	case FinanceFee, FinanceFine, FinanceOther:
		return true
	}
	return false
}

type FinanceStatus string

const (
	FinancePaid    FinanceStatus = "paid"
	FinancePending FinanceStatus = "pending"
	FinanceOverdue FinanceStatus = "overdue"
)

func (s FinanceStatus) Valid() bool {
	switch s {
	case FinancePaid, FinancePending, FinanceOverdue:
		return true
	}
	return false
}

// Account is a login identity. The password hash never leaves the server.
type Account struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"fullName"`
	Role         Role      `db:"role" json:"role"`
	Avatar       string    `db:"avatar" json:"avatar"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

type Student struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name" validate:"required"`
	Email         string    `db:"email" json:"email" validate:"required,email"`
	Age           int       `db:"age" json:"age" validate:"required,gte=1,lte=150"`
	Grade         Grade     `db:"grade" json:"grade" validate:"enum"`
	Course        string    `db:"course" json:"course" validate:"required"`
	EnrollDate    time.Time `db:"enroll_date" json:"enrollDate"`
	ParentName    string    `db:"parent_name" json:"parentName"`
	ParentContact string    `db:"parent_contact" json:"parentContact"`
	Address       string    `db:"address" json:"address"`
	City          string    `db:"city" json:"city"`
	Status        Status    `db:"status" json:"status" validate:"enum"`
	StudentID     string    `db:"student_id" json:"studentId"`
	Avatar        string    `db:"avatar" json:"avatar"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type Teacher struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name" validate:"required"`
	Email         string    `db:"email" json:"email" validate:"required,email"`
	Phone         string    `db:"phone" json:"phone"`
	Subject       string    `db:"subject" json:"subject" validate:"required"`
	Qualification string    `db:"qualification" json:"qualification"`
	Experience    int       `db:"experience" json:"experience" validate:"gte=0"`
	Salary        float64   `db:"salary" json:"salary" validate:"gte=0"`
	JoinDate      time.Time `db:"join_date" json:"joinDate"`
	Status        Status    `db:"status" json:"status" validate:"enum"`
	TeacherID     string    `db:"teacher_id" json:"teacherId"`
	Avatar        string    `db:"avatar" json:"avatar"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

type AttendanceRecord struct {
	ID          string           `db:"id" json:"id"`
	StudentID   string           `db:"student_ref" json:"studentId"`
	StudentName string           `db:"student_name" json:"studentName"`
	Date        time.Time        `db:"date" json:"date" validate:"required"`
	Status      AttendanceStatus `db:"status" json:"status" validate:"required,enum"`
	Remarks     string           `db:"remarks" json:"remarks"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
}

type FinanceRecord struct {
	ID          string        `db:"id" json:"id"`
	StudentID   string        `db:"student_ref" json:"studentId"`
	StudentName string        `db:"student_name" json:"studentName"`
	Amount      float64       `db:"amount" json:"amount" validate:"required,gt=0"`
	Type        FinanceType   `db:"type" json:"type" validate:"enum"`
	Status      FinanceStatus `db:"status" json:"status" validate:"enum"`
	DueDate     *time.Time    `db:"due_date" json:"dueDate"`
	PaidDate    *time.Time    `db:"paid_date" json:"paidDate"`
	Remarks     string        `db:"remarks" json:"remarks"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

// StudentRef is the outcome of resolving a weak student reference.
// Resolved is false when the id is empty or the student no longer exists.
type StudentRef struct {
	ID       string   `json:"id"`
	Resolved bool     `json:"resolved"`
	Record   *Student `json:"record,omitempty"`
}

// AttendanceEntry is an attendance record joined with its student.
type AttendanceEntry struct {
	AttendanceRecord
	Student StudentRef `json:"student"`
}

// FinanceEntry is a finance record joined with its student.
type FinanceEntry struct {
	FinanceRecord
	Student StudentRef `json:"student"`
}

type Stats struct {
	TotalStudents int     `json:"totalStudents"`
	TotalTeachers int     `json:"totalTeachers"`
	TotalRevenue  float64 `json:"totalRevenue"`
	// AttendanceRate is not computed yet and is always 0.
	AttendanceRate float64 `json:"attendanceRate"`
}

// Date accepts RFC 3339 timestamps as well as plain 2006-01-02 dates from HTML forms.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
