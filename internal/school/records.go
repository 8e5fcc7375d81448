package school

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Service) ListStudents(ctx context.Context) ([]Student, error) {
	return s.repo.ListStudents(ctx)
}

func (s *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return s.repo.StudentByID(ctx, id)
}

// CreateStudent applies defaults (grade B, active, enrolled now), validates and persists.
func (s *Service) CreateStudent(ctx context.Context, in StudentInput) (Student, error) {
	now := s.now()
	st := Student{
		ID:         uuid.NewString(),
		Grade:      GradeB,
		Status:     StatusActive,
		EnrollDate: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	in.apply(&st)
	if err := validate(st); err != nil {
		return Student{}, err
	}
	if err := s.repo.CreateStudent(ctx, st); err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	recordsCreated.WithLabelValues("student").Inc()
	return st, nil
}

// UpdateStudent merges in over the stored student and persists only if the result is valid.
func (s *Service) UpdateStudent(ctx context.Context, id string, in StudentInput) (Student, error) {
	st, err := s.repo.StudentByID(ctx, id)
	if err != nil {
		return Student{}, err
	}
	in.apply(&st)
	st.UpdatedAt = s.now()
	if err := validate(st); err != nil {
		return Student{}, err
	}
	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	return st, nil
}

// DeleteStudent removes a student. Attendance and finance records pointing at it are kept.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	return s.repo.DeleteStudent(ctx, id)
}

func (s *Service) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return s.repo.ListTeachers(ctx)
}

func (s *Service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return s.repo.TeacherByID(ctx, id)
}

// CreateTeacher validates the teacher, enforces email uniqueness and assigns
// the next TCHnnnn identifier from the atomic sequence.
func (s *Service) CreateTeacher(ctx context.Context, in TeacherInput) (Teacher, error) {
	now := s.now()
	t := Teacher{
		ID:        uuid.NewString(),
		Status:    StatusActive,
		JoinDate:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&t)
	if err := validate(t); err != nil {
		return Teacher{}, err
	}

	taken, err := s.repo.TeacherEmailTaken(ctx, t.Email, "")
	if err != nil {
		return Teacher{}, errors.Wrap(err, "checking teacher email")
	}
	if taken {
		return Teacher{}, ErrTeacherEmailTaken
	}

	seq, err := s.repo.NextTeacherSeq(ctx)
	if err != nil {
		return Teacher{}, errors.Wrap(err, "allocating teacher id")
	}
	t.TeacherID = FormatTeacherID(seq)

	if err := s.repo.CreateTeacher(ctx, t); err != nil {
		return Teacher{}, errors.Wrap(err, "creating teacher")
	}
	recordsCreated.WithLabelValues("teacher").Inc()
	return t, nil
}

// FormatTeacherID renders a sequence number as TCH followed by at least four digits.
func FormatTeacherID(seq int64) string {
	return fmt.Sprintf("TCH%04d", seq)
}

func (s *Service) UpdateTeacher(ctx context.Context, id string, in TeacherInput) (Teacher, error) {
	t, err := s.repo.TeacherByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	in.apply(&t)
	t.UpdatedAt = s.now()
	if err := validate(t); err != nil {
		return Teacher{}, err
	}
	if in.Email != nil {
		taken, err := s.repo.TeacherEmailTaken(ctx, t.Email, t.ID)
		if err != nil {
			return Teacher{}, errors.Wrap(err, "checking teacher email")
		}
		if taken {
			return Teacher{}, ErrTeacherEmailTaken
		}
	}
	if err := s.repo.UpdateTeacher(ctx, t); err != nil {
		return Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return t, nil
}

func (s *Service) DeleteTeacher(ctx context.Context, id string) error {
	return s.repo.DeleteTeacher(ctx, id)
}

// ListAttendance returns attendance newest first, each joined with its student.
func (s *Service) ListAttendance(ctx context.Context) ([]AttendanceEntry, error) {
	recs, err := s.repo.ListAttendance(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.StudentID
	}
	students, err := s.lookupStudents(ctx, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]AttendanceEntry, len(recs))
	for i, r := range recs {
		out[i] = AttendanceEntry{AttendanceRecord: r, Student: resolve(r.StudentID, students)}
	}
	return out, nil
}

func (s *Service) GetAttendance(ctx context.Context, id string) (AttendanceEntry, error) {
	rec, err := s.repo.AttendanceByID(ctx, id)
	if err != nil {
		return AttendanceEntry{}, err
	}
	return s.attendanceEntry(ctx, rec)
}

// CreateAttendance marks attendance. The student name snapshot is filled
// from the referenced student when the client did not send one.
func (s *Service) CreateAttendance(ctx context.Context, in AttendanceInput) (AttendanceEntry, error) {
	now := s.now()
	rec := AttendanceRecord{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&rec)
	if err := validate(rec); err != nil {
		return AttendanceEntry{}, err
	}
	entry, err := s.attendanceEntry(ctx, rec)
	if err != nil {
		return AttendanceEntry{}, err
	}
	if entry.StudentName == "" && entry.Student.Resolved {
		entry.StudentName = entry.Student.Record.Name
	}
	if err := s.repo.CreateAttendance(ctx, entry.AttendanceRecord); err != nil {
		return AttendanceEntry{}, errors.Wrap(err, "creating attendance")
	}
	recordsCreated.WithLabelValues("attendance").Inc()
	return entry, nil
}

func (s *Service) UpdateAttendance(ctx context.Context, id string, in AttendanceInput) (AttendanceEntry, error) {
	rec, err := s.repo.AttendanceByID(ctx, id)
	if err != nil {
		return AttendanceEntry{}, err
	}
	in.apply(&rec)
	rec.UpdatedAt = s.now()
	if err := validate(rec); err != nil {
		return AttendanceEntry{}, err
	}
	if err := s.repo.UpdateAttendance(ctx, rec); err != nil {
		return AttendanceEntry{}, errors.Wrap(err, "updating attendance")
	}
	return s.attendanceEntry(ctx, rec)
}

func (s *Service) DeleteAttendance(ctx context.Context, id string) error {
	return s.repo.DeleteAttendance(ctx, id)
}

func (s *Service) attendanceEntry(ctx context.Context, rec AttendanceRecord) (AttendanceEntry, error) {
	students, err := s.lookupStudents(ctx, rec.StudentID)
	if err != nil {
		return AttendanceEntry{}, err
	}
	return AttendanceEntry{AttendanceRecord: rec, Student: resolve(rec.StudentID, students)}, nil
}

// ListFinance returns finance records newest first, each joined with its student.
func (s *Service) ListFinance(ctx context.Context) ([]FinanceEntry, error) {
	recs, err := s.repo.ListFinance(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.StudentID
	}
	students, err := s.lookupStudents(ctx, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]FinanceEntry, len(recs))
	for i, r := range recs {
		out[i] = FinanceEntry{FinanceRecord: r, Student: resolve(r.StudentID, students)}
	}
	return out, nil
}

func (s *Service) GetFinance(ctx context.Context, id string) (FinanceEntry, error) {
	rec, err := s.repo.FinanceByID(ctx, id)
	if err != nil {
		return FinanceEntry{}, err
	}
	return s.financeEntry(ctx, rec)
}

// CreateFinance applies defaults (type fee, status pending), validates and persists.
func (s *Service) CreateFinance(ctx context.Context, in FinanceInput) (FinanceEntry, error) {
	now := s.now()
	rec := FinanceRecord{
		ID:        uuid.NewString(),
		Type:      FinanceFee,
		Status:    FinancePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&rec)
	if err := validate(rec); err != nil {
		return FinanceEntry{}, err
	}
	entry, err := s.financeEntry(ctx, rec)
	if err != nil {
		return FinanceEntry{}, err
	}
	if entry.StudentName == "" && entry.Student.Resolved {
		entry.StudentName = entry.Student.Record.Name
	}
	if err := s.repo.CreateFinance(ctx, entry.FinanceRecord); err != nil {
		return FinanceEntry{}, errors.Wrap(err, "creating finance record")
	}
	recordsCreated.WithLabelValues("finance").Inc()
	return entry, nil
}

func (s *Service) UpdateFinance(ctx context.Context, id string, in FinanceInput) (FinanceEntry, error) {
	rec, err := s.repo.FinanceByID(ctx, id)
	if err != nil {
		return FinanceEntry{}, err
	}
	in.apply(&rec)
	rec.UpdatedAt = s.now()
	if err := validate(rec); err != nil {
		return FinanceEntry{}, err
	}
	if err := s.repo.UpdateFinance(ctx, rec); err != nil {
		return FinanceEntry{}, errors.Wrap(err, "updating finance record")
	}
	return s.financeEntry(ctx, rec)
}

func (s *Service) DeleteFinance(ctx context.Context, id string) error {
	return s.repo.DeleteFinance(ctx, id)
}

func (s *Service) financeEntry(ctx context.Context, rec FinanceRecord) (FinanceEntry, error) {
	students, err := s.lookupStudents(ctx, rec.StudentID)
	if err != nil {
		return FinanceEntry{}, err
	}
	return FinanceEntry{FinanceRecord: rec, Student: resolve(rec.StudentID, students)}, nil
}

// lookupStudents fetches each distinct non-empty id once.
func (s *Service) lookupStudents(ctx context.Context, ids ...string) (map[string]Student, error) {
	seen := make(map[string]struct{}, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return map[string]Student{}, nil
	}
	students, err := s.repo.StudentsByIDs(ctx, uniq)
	if err != nil {
		return nil, errors.Wrap(err, "resolving students")
	}
	return students, nil
}

func resolve(id string, students map[string]Student) StudentRef {
	st, ok := students[id]
	if id == "" || !ok {
		return StudentRef{ID: id}
	}
	return StudentRef{ID: id, Resolved: true, Record: &st}
}
