package school

import "time"

// Inputs carry the fields a client sent. Nil fields keep their current
// value on update and take the record default on create.

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role" validate:"omitempty,enum"`
	Avatar   string `json:"avatar"`
}

type StudentInput struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Age           *int    `json:"age"`
	Grade         *Grade  `json:"grade"`
	Course        *string `json:"course"`
	EnrollDate    *Date   `json:"enrollDate"`
	ParentName    *string `json:"parentName"`
	ParentContact *string `json:"parentContact"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	Status        *Status `json:"status"`
	StudentID     *string `json:"studentId"`
	Avatar        *string `json:"avatar"`
}

func (in StudentInput) apply(s *Student) {
	setString(&s.Name, in.Name)
	setString(&s.Email, in.Email)
	if in.Age != nil {
		s.Age = *in.Age
	}
	if in.Grade != nil {
		s.Grade = *in.Grade
	}
	setString(&s.Course, in.Course)
	setTime(&s.EnrollDate, in.EnrollDate)
	setString(&s.ParentName, in.ParentName)
	setString(&s.ParentContact, in.ParentContact)
	setString(&s.Address, in.Address)
	setString(&s.City, in.City)
	if in.Status != nil {
		s.Status = *in.Status
	}
	setString(&s.StudentID, in.StudentID)
	setString(&s.Avatar, in.Avatar)
}

// TeacherInput has no teacherId: it is always generated.
type TeacherInput struct {
	Name          *string  `json:"name"`
	Email         *string  `json:"email"`
	Phone         *string  `json:"phone"`
	Subject       *string  `json:"subject"`
	Qualification *string  `json:"qualification"`
	Experience    *int     `json:"experience"`
	Salary        *float64 `json:"salary"`
	JoinDate      *Date    `json:"joinDate"`
	Status        *Status  `json:"status"`
	Avatar        *string  `json:"avatar"`
}

func (in TeacherInput) apply(t *Teacher) {
	setString(&t.Name, in.Name)
	setString(&t.Email, in.Email)
	setString(&t.Phone, in.Phone)
	setString(&t.Subject, in.Subject)
	setString(&t.Qualification, in.Qualification)
	if in.Experience != nil {
		t.Experience = *in.Experience
	}
	if in.Salary != nil {
		t.Salary = *in.Salary
	}
	setTime(&t.JoinDate, in.JoinDate)
	if in.Status != nil {
		t.Status = *in.Status
	}
	setString(&t.Avatar, in.Avatar)
}

type AttendanceInput struct {
	StudentID   *string           `json:"studentId"`
	StudentName *string           `json:"studentName"`
	Date        *Date             `json:"date"`
	Status      *AttendanceStatus `json:"status"`
	Remarks     *string           `json:"remarks"`
}

func (in AttendanceInput) apply(a *AttendanceRecord) {
	setString(&a.StudentID, in.StudentID)
	setString(&a.StudentName, in.StudentName)
	setTime(&a.Date, in.Date)
	if in.Status != nil {
		a.Status = *in.Status
	}
	setString(&a.Remarks, in.Remarks)
}

type FinanceInput struct {
	StudentID   *string        `json:"studentId"`
	StudentName *string        `json:"studentName"`
	Amount      *float64       `json:"amount"`
	Type        *FinanceType   `json:"type"`
	Status      *FinanceStatus `json:"status"`
	DueDate     *Date          `json:"dueDate"`
	PaidDate    *Date          `json:"paidDate"`
	Remarks     *string        `json:"remarks"`
}

func (in FinanceInput) apply(f *FinanceRecord) {
	setString(&f.StudentID, in.StudentID)
	setString(&f.StudentName, in.StudentName)
	if in.Amount != nil {
		f.Amount = *in.Amount
	}
	if in.Type != nil {
		f.Type = *in.Type
	}
	if in.Status != nil {
		f.Status = *in.Status
	}
	setOptionalTime(&f.DueDate, in.DueDate)
	setOptionalTime(&f.PaidDate, in.PaidDate)
	setString(&f.Remarks, in.Remarks)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// setTime ignores an empty date: the fields it fills always carry a value.
func setTime(dst *time.Time, src *Date) {
	if src != nil && !src.IsZero() {
		*dst = src.Time
	}
}

// setOptionalTime clears dst when the client sent an empty date.
func setOptionalTime(dst **time.Time, src *Date) {
	if src == nil {
		return
	}
	if src.IsZero() {
		*dst = nil
		return
	}
	t := src.Time
	*dst = &t
}
