package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"schoolms/internal/school"
)

// Memory keeps every table in process memory. It backs DB_DRIVER=memory and tests.
type Memory struct {
	mu         sync.RWMutex
	accounts   table[school.Account]
	students   table[school.Student]
	teachers   table[school.Teacher]
	attendance table[school.AttendanceRecord]
	finance    table[school.FinanceRecord]
	teacherSeq int64
}

// table is a map that remembers insertion order so equal sort keys list newest first.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func (t *table[T]) put(id string, v T) {
	if t.rows == nil {
		t.rows = make(map[string]T)
	}
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) remove(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// newestFirst returns rows ordered by key descending, later inserts first on ties.
func (t *table[T]) newestFirst(key func(T) time.Time) []T {
	out := make([]T, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		out = append(out, t.rows[t.order[i]])
	}
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]).After(key(out[j])) })
	return out
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) CreateAccount(_ context.Context, acc school.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts.rows {
		if a.Username == acc.Username || a.Email == acc.Email {
			return school.ErrAccountExists
		}
	}
	m.accounts.put(acc.ID, acc)
	return nil
}

func (m *Memory) AccountByID(_ context.Context, id string) (school.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts.get(id); ok {
		return acc, nil
	}
	return school.Account{}, school.ErrNotFound
}

func (m *Memory) AccountByUsername(_ context.Context, username string) (school.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts.rows {
		if acc.Username == username {
			return acc, nil
		}
	}
	return school.Account{}, school.ErrNotFound
}

func (m *Memory) AccountExists(_ context.Context, username, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts.rows {
		if acc.Username == username || acc.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) RoleExists(_ context.Context, role school.Role) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts.rows {
		if acc.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts.get(id)
	if !ok {
		return school.ErrNotFound
	}
	acc.PasswordHash = passwordHash
	m.accounts.put(id, acc)
	return nil
}

func (m *Memory) ListStudents(context.Context) ([]school.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.students.newestFirst(func(s school.Student) time.Time { return s.CreatedAt }), nil
}

func (m *Memory) StudentByID(_ context.Context, id string) (school.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.students.get(id); ok {
		return s, nil
	}
	return school.Student{}, school.ErrNotFound
}

func (m *Memory) StudentsByIDs(_ context.Context, ids []string) (map[string]school.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]school.Student, len(ids))
	for _, id := range ids {
		if s, ok := m.students.get(id); ok {
			out[id] = s
		}
	}
	return out, nil
}

func (m *Memory) CreateStudent(_ context.Context, s school.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students.put(s.ID, s)
	return nil
}

func (m *Memory) UpdateStudent(_ context.Context, s school.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students.get(s.ID); !ok {
		return school.ErrNotFound
	}
	m.students.put(s.ID, s)
	return nil
}

func (m *Memory) DeleteStudent(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.students.remove(id) {
		return school.ErrNotFound
	}
	return nil
}

func (m *Memory) CountStudents(_ context.Context, status school.Status) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.students.rows {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListTeachers(context.Context) ([]school.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.teachers.newestFirst(func(t school.Teacher) time.Time { return t.CreatedAt }), nil
}

func (m *Memory) TeacherByID(_ context.Context, id string) (school.Teacher, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.teachers.get(id); ok {
		return t, nil
	}
	return school.Teacher{}, school.ErrNotFound
}

func (m *Memory) CreateTeacher(_ context.Context, t school.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.teachers.rows {
		if other.Email == t.Email {
			return school.ErrTeacherEmailTaken
		}
	}
	m.teachers.put(t.ID, t)
	return nil
}

func (m *Memory) UpdateTeacher(_ context.Context, t school.Teacher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teachers.get(t.ID); !ok {
		return school.ErrNotFound
	}
	for _, other := range m.teachers.rows {
		if other.ID != t.ID && other.Email == t.Email {
			return school.ErrTeacherEmailTaken
		}
	}
	m.teachers.put(t.ID, t)
	return nil
}

func (m *Memory) DeleteTeacher(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.teachers.remove(id) {
		return school.ErrNotFound
	}
	return nil
}

func (m *Memory) CountTeachers(_ context.Context, status school.Status) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, t := range m.teachers.rows {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *Memory) TeacherEmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.teachers.rows {
		if t.Email == email && t.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) NextTeacherSeq(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teacherSeq++
	return m.teacherSeq, nil
}

func (m *Memory) ListAttendance(context.Context) ([]school.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attendance.newestFirst(func(a school.AttendanceRecord) time.Time { return a.Date }), nil
}

func (m *Memory) AttendanceByID(_ context.Context, id string) (school.AttendanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.attendance.get(id); ok {
		return a, nil
	}
	return school.AttendanceRecord{}, school.ErrNotFound
}

func (m *Memory) CreateAttendance(_ context.Context, a school.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance.put(a.ID, a)
	return nil
}

func (m *Memory) UpdateAttendance(_ context.Context, a school.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attendance.get(a.ID); !ok {
		return school.ErrNotFound
	}
	m.attendance.put(a.ID, a)
	return nil
}

func (m *Memory) DeleteAttendance(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.attendance.remove(id) {
		return school.ErrNotFound
	}
	return nil
}

func (m *Memory) ListFinance(context.Context) ([]school.FinanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.finance.newestFirst(func(f school.FinanceRecord) time.Time { return f.CreatedAt }), nil
}

func (m *Memory) FinanceByID(_ context.Context, id string) (school.FinanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.finance.get(id); ok {
		return f, nil
	}
	return school.FinanceRecord{}, school.ErrNotFound
}

func (m *Memory) CreateFinance(_ context.Context, f school.FinanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finance.put(f.ID, f)
	return nil
}

func (m *Memory) UpdateFinance(_ context.Context, f school.FinanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.finance.get(f.ID); !ok {
		return school.ErrNotFound
	}
	m.finance.put(f.ID, f)
	return nil
}

func (m *Memory) DeleteFinance(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.finance.remove(id) {
		return school.ErrNotFound
	}
	return nil
}

func (m *Memory) SumFinance(_ context.Context, status school.FinanceStatus) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, f := range m.finance.rows {
		if f.Status == status {
			total += f.Amount
		}
	}
	return total, nil
}
