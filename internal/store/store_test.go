package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolms/internal/school"
)

func openSQLite(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

// backends runs fn against every school.Repository implementation.
func backends(t *testing.T, fn func(t *testing.T, repo school.Repository)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, openSQLite(t)) })
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, db.Migrate(context.Background()))

	seq, err := db.NextTeacherSeq(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
}

func TestNewDB_UnknownDriver(t *testing.T) {
	_, err := NewDB("mongo", "whatever")
	assert.Error(t, err)
}

func TestAccounts(t *testing.T) {
	backends(t, func(t *testing.T, repo school.Repository) {
		ctx := context.Background()
		acc := school.Account{
			ID: "a1", Username: "jane", Email: "jane@school.com", PasswordHash: "hash",
			FullName: "Jane", Role: school.RoleTeacher, CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, repo.CreateAccount(ctx, acc))

		got, err := repo.AccountByUsername(ctx, "jane")
		require.NoError(t, err)
		assert.Equal(t, "a1", got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		_, err = repo.AccountByID(ctx, "missing")
		assert.Equal(t, school.ErrNotFound, err)
		_, err = repo.AccountByUsername(ctx, "missing")
		assert.Equal(t, school.ErrNotFound, err)

		exists, err := repo.AccountExists(ctx, "other", "jane@school.com")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.AccountExists(ctx, "other", "other@school.com")
		require.NoError(t, err)
		assert.False(t, exists)

		isAdmin, err := repo.RoleExists(ctx, school.RoleAdmin)
		require.NoError(t, err)
		assert.False(t, isAdmin)

		require.NoError(t, repo.UpdatePassword(ctx, "a1", "new-hash"))
		got, err = repo.AccountByID(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)
		assert.Equal(t, school.ErrNotFound, repo.UpdatePassword(ctx, "missing", "x"))
	})
}

func TestStudents(t *testing.T) {
	backends(t, func(t *testing.T, repo school.Repository) {
		ctx := context.Background()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, name := range []string{"Ann", "Bob", "Cid"} {
			s := school.Student{
				ID: fmt.Sprintf("s%d", i+1), Name: name, Email: name + "@x.com", Age: 10 + i,
				Grade: school.GradeB, Course: "Math", EnrollDate: base,
				Status: school.StatusActive, CreatedAt: base.Add(time.Duration(i) * time.Hour), UpdatedAt: base,
			}
			require.NoError(t, repo.CreateStudent(ctx, s))
		}

		list, err := repo.ListStudents(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"Cid", "Bob", "Ann"}, []string{list[0].Name, list[1].Name, list[2].Name})

		s, err := repo.StudentByID(ctx, "s2")
		require.NoError(t, err)
		s.Status = school.StatusInactive
		s.City = "Dhaka"
		require.NoError(t, repo.UpdateStudent(ctx, s))

		got, err := repo.StudentByID(ctx, "s2")
		require.NoError(t, err)
		assert.Equal(t, "Dhaka", got.City)
		assert.True(t, got.EnrollDate.Equal(base))

		n, err := repo.CountStudents(ctx, school.StatusActive)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		found, err := repo.StudentsByIDs(ctx, []string{"s1", "s3", "nope"})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		assert.Equal(t, "Ann", found["s1"].Name)

		require.NoError(t, repo.DeleteStudent(ctx, "s1"))
		assert.Equal(t, school.ErrNotFound, repo.DeleteStudent(ctx, "s1"))
		_, err = repo.StudentByID(ctx, "s1")
		assert.Equal(t, school.ErrNotFound, err)
		assert.Equal(t, school.ErrNotFound, repo.UpdateStudent(ctx, school.Student{ID: "s1"}))
	})
}

func TestTeachers(t *testing.T) {
	backends(t, func(t *testing.T, repo school.Repository) {
		ctx := context.Background()
		now := time.Now().UTC()
		tch := school.Teacher{
			ID: "t1", Name: "Karim", Email: "karim@x.com", Subject: "Physics", Experience: 4,
			Salary: 1200.5, JoinDate: now, Status: school.StatusActive, TeacherID: "TCH0001",
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, repo.CreateTeacher(ctx, tch))

		taken, err := repo.TeacherEmailTaken(ctx, "karim@x.com", "")
		require.NoError(t, err)
		assert.True(t, taken)
		taken, err = repo.TeacherEmailTaken(ctx, "karim@x.com", "t1")
		require.NoError(t, err)
		assert.False(t, taken)

		tch.TeacherID = "TCH9999"
		tch.Salary = 1500
		require.NoError(t, repo.UpdateTeacher(ctx, tch))
		got, err := repo.TeacherByID(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, 1500.0, got.Salary)

		n, err := repo.CountTeachers(ctx, school.StatusActive)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		list, err := repo.ListTeachers(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, repo.DeleteTeacher(ctx, "t1"))
		assert.Equal(t, school.ErrNotFound, repo.DeleteTeacher(ctx, "t1"))
	})
}

func TestNextTeacherSeq_Concurrent(t *testing.T) {
	backends(t, func(t *testing.T, repo school.Repository) {
		ctx := context.Background()
		const n = 20

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int64]bool)
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				seq, err := repo.NextTeacherSeq(ctx)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				seen[seq] = true
				mu.Unlock()
			}()
		}
		wg.Wait()

		assert.Len(t, seen, n)
		for i := int64(1); i <= n; i++ {
			assert.True(t, seen[i], "missing sequence %d", i)
		}
	})
}

func TestAttendanceAndFinance(t *testing.T) {
	backends(t, func(t *testing.T, repo school.Repository) {
		ctx := context.Background()
		now := time.Now().UTC()
		day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

		for i, d := range []int{5, 9, 7} {
			require.NoError(t, repo.CreateAttendance(ctx, school.AttendanceRecord{
				ID: fmt.Sprintf("a%d", i+1), StudentID: "s1", StudentName: "Ann", Date: day(d),
				Status: school.AttendancePresent, CreatedAt: now, UpdatedAt: now,
			}))
		}
		list, err := repo.ListAttendance(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"a2", "a3", "a1"}, []string{list[0].ID, list[1].ID, list[2].ID})

		a, err := repo.AttendanceByID(ctx, "a1")
		require.NoError(t, err)
		a.Status = school.AttendanceLate
		require.NoError(t, repo.UpdateAttendance(ctx, a))
		a, err = repo.AttendanceByID(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, school.AttendanceLate, a.Status)
		require.NoError(t, repo.DeleteAttendance(ctx, "a1"))
		assert.Equal(t, school.ErrNotFound, repo.DeleteAttendance(ctx, "a1"))

		total, err := repo.SumFinance(ctx, school.FinancePaid)
		require.NoError(t, err)
		assert.Equal(t, 0.0, total)

		due := day(20)
		records := []school.FinanceRecord{
			{ID: "f1", Amount: 500, Type: school.FinanceFee, Status: school.FinancePaid, DueDate: &due, CreatedAt: now, UpdatedAt: now},
			{ID: "f2", Amount: 300, Type: school.FinanceFee, Status: school.FinancePending, CreatedAt: now.Add(time.Second), UpdatedAt: now},
			{ID: "f3", Amount: 25.5, Type: school.FinanceFine, Status: school.FinancePaid, CreatedAt: now.Add(2 * time.Second), UpdatedAt: now},
		}
		for _, f := range records {
			require.NoError(t, repo.CreateFinance(ctx, f))
		}
		total, err = repo.SumFinance(ctx, school.FinancePaid)
		require.NoError(t, err)
		assert.Equal(t, 525.5, total)

		fl, err := repo.ListFinance(ctx)
		require.NoError(t, err)
		require.Len(t, fl, 3)
		assert.Equal(t, "f3", fl[0].ID)

		f, err := repo.FinanceByID(ctx, "f1")
		require.NoError(t, err)
		require.NotNil(t, f.DueDate)
		assert.True(t, f.DueDate.Equal(due))
		assert.Nil(t, f.PaidDate)

		f.DueDate = nil
		require.NoError(t, repo.UpdateFinance(ctx, f))
		f, err = repo.FinanceByID(ctx, "f1")
		require.NoError(t, err)
		assert.Nil(t, f.DueDate)

		require.NoError(t, repo.DeleteFinance(ctx, "f2"))
		_, err = repo.FinanceByID(ctx, "f2")
		assert.Equal(t, school.ErrNotFound, err)
	})
}

func TestRedis_Disabled(t *testing.T) {
	r := NewRedis("")
	assert.Nil(t, r)
	assert.False(t, r.Enabled())
	assert.False(t, r.Healthy(context.Background()))
	assert.NoError(t, r.Close())
}

func TestOpen(t *testing.T) {
	b, err := Open(DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)
	assert.NoError(t, b.Migrate(context.Background()))
	assert.NoError(t, b.Close())

	b, err = Open(DriverSQLite, "file:open_test?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.Migrate(context.Background()))
	assert.NoError(t, b.Ping(context.Background()))

	_, err = Open("mongo", "x")
	assert.Error(t, err)
}

func TestUniqueViolationsAreConflicts(t *testing.T) {
	backends(t, func(t *testing.T, repo school.Repository) {
		ctx := context.Background()
		now := time.Now().UTC()

		acc := school.Account{ID: "a1", Username: "rahim", Email: "rahim@x.com", PasswordHash: "h", Role: school.RoleAdmin, CreatedAt: now}
		require.NoError(t, repo.CreateAccount(ctx, acc))
		for _, dup := range []school.Account{
			{ID: "a2", Username: "rahim", Email: "other@x.com", PasswordHash: "h", Role: school.RoleTeacher, CreatedAt: now},
			{ID: "a3", Username: "other", Email: "rahim@x.com", PasswordHash: "h", Role: school.RoleTeacher, CreatedAt: now},
		} {
			err := repo.CreateAccount(ctx, dup)
			assert.True(t, school.IsConflict(err), "%s: %v", dup.ID, err)
			assert.Equal(t, school.ErrAccountExists, err)
		}

		newTeacher := func(id, email, teacherID string) school.Teacher {
			return school.Teacher{
				ID: id, Name: "T", Email: email, Subject: "Math", JoinDate: now, Status: school.StatusActive,
				TeacherID: teacherID, CreatedAt: now, UpdatedAt: now,
			}
		}
		require.NoError(t, repo.CreateTeacher(ctx, newTeacher("t1", "one@x.com", "TCH0001")))
		require.NoError(t, repo.CreateTeacher(ctx, newTeacher("t2", "two@x.com", "TCH0002")))

		err := repo.CreateTeacher(ctx, newTeacher("t3", "one@x.com", "TCH0003"))
		assert.Equal(t, school.ErrTeacherEmailTaken, err)
		err = repo.UpdateTeacher(ctx, newTeacher("t2", "one@x.com", "TCH0002"))
		assert.Equal(t, school.ErrTeacherEmailTaken, err)

		got, err := repo.TeacherByID(ctx, "t2")
		require.NoError(t, err)
		assert.Equal(t, "two@x.com", got.Email)
	})
}

func TestRunMigrations(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	var version int64
	require.NoError(t, db.Client.GetContext(ctx, &version, `SELECT MAX(version_id) FROM goose_db_version`))
	assert.Equal(t, int64(1), version)

	require.NoError(t, db.RunMigrations(ctx, "status"))
	require.NoError(t, db.RunMigrations(ctx, "down"))
	_, err := db.ListStudents(ctx)
	assert.Error(t, err, "down drops the tables")

	require.NoError(t, db.RunMigrations(ctx, "up"))
	_, err = db.ListStudents(ctx)
	assert.NoError(t, err)

	assert.Error(t, db.RunMigrations(ctx, "sideways"))
}
