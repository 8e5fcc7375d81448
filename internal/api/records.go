package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolms/internal/school"
)

var (
	studentList   = failure{failed: "Failed to fetch students"}
	studentGet    = failure{failed: "Failed to fetch student", notFound: "Student not found"}
	studentCreate = failure{failed: "Failed to create student"}
	studentUpdate = failure{failed: "Failed to update student", notFound: "Student not found"}
	studentDelete = failure{failed: "Failed to delete student", notFound: "Student not found"}

	teacherList   = failure{failed: "Failed to fetch teachers"}
	teacherGet    = failure{failed: "Failed to fetch teacher", notFound: "Teacher not found"}
	teacherCreate = failure{failed: "Failed to create teacher"}
	teacherUpdate = failure{failed: "Failed to update teacher", notFound: "Teacher not found"}
	teacherDelete = failure{failed: "Failed to delete teacher", notFound: "Teacher not found"}

	attendanceList   = failure{failed: "Failed to fetch attendance"}
	attendanceGet    = failure{failed: "Failed to fetch attendance", notFound: "Attendance record not found"}
	attendanceCreate = failure{failed: "Failed to mark attendance"}
	attendanceUpdate = failure{failed: "Failed to update attendance", notFound: "Attendance record not found"}
	attendanceDelete = failure{failed: "Failed to delete attendance", notFound: "Attendance record not found"}

	financeList   = failure{failed: "Failed to fetch finance records"}
	financeGet    = failure{failed: "Failed to fetch finance record", notFound: "Finance record not found"}
	financeCreate = failure{failed: "Failed to create finance record"}
	financeUpdate = failure{failed: "Failed to update finance record", notFound: "Finance record not found"}
	financeDelete = failure{failed: "Failed to delete finance record", notFound: "Finance record not found"}
)

func (s *server) listStudents(c *gin.Context) {
	students, err := s.svc.ListStudents(c.Request.Context())
	if err != nil {
		s.fail(c, err, studentList)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (s *server) getStudent(c *gin.Context) {
	st, err := s.svc.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, studentGet)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *server) createStudent(c *gin.Context) {
	var in school.StudentInput
	if !s.bind(c, &in, studentCreate) {
		return
	}
	st, err := s.svc.CreateStudent(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, studentCreate)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (s *server) updateStudent(c *gin.Context) {
	var in school.StudentInput
	if !s.bind(c, &in, studentUpdate) {
		return
	}
	st, err := s.svc.UpdateStudent(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err, studentUpdate)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *server) deleteStudent(c *gin.Context) {
	if err := s.svc.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, studentDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted successfully"})
}

func (s *server) listTeachers(c *gin.Context) {
	teachers, err := s.svc.ListTeachers(c.Request.Context())
	if err != nil {
		s.fail(c, err, teacherList)
		return
	}
	c.JSON(http.StatusOK, teachers)
}

func (s *server) getTeacher(c *gin.Context) {
	t, err := s.svc.GetTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, teacherGet)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *server) createTeacher(c *gin.Context) {
	var in school.TeacherInput
	if !s.bind(c, &in, teacherCreate) {
		return
	}
	t, err := s.svc.CreateTeacher(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, teacherCreate)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (s *server) updateTeacher(c *gin.Context) {
	var in school.TeacherInput
	if !s.bind(c, &in, teacherUpdate) {
		return
	}
	t, err := s.svc.UpdateTeacher(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err, teacherUpdate)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (s *server) deleteTeacher(c *gin.Context) {
	if err := s.svc.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, teacherDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Teacher deleted successfully"})
}

func (s *server) listAttendance(c *gin.Context) {
	entries, err := s.svc.ListAttendance(c.Request.Context())
	if err != nil {
		s.fail(c, err, attendanceList)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *server) getAttendance(c *gin.Context) {
	e, err := s.svc.GetAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, attendanceGet)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *server) createAttendance(c *gin.Context) {
	var in school.AttendanceInput
	if !s.bind(c, &in, attendanceCreate) {
		return
	}
	e, err := s.svc.CreateAttendance(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, attendanceCreate)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *server) updateAttendance(c *gin.Context) {
	var in school.AttendanceInput
	if !s.bind(c, &in, attendanceUpdate) {
		return
	}
	e, err := s.svc.UpdateAttendance(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err, attendanceUpdate)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *server) deleteAttendance(c *gin.Context) {
	if err := s.svc.DeleteAttendance(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, attendanceDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted successfully"})
}

func (s *server) listFinance(c *gin.Context) {
	entries, err := s.svc.ListFinance(c.Request.Context())
	if err != nil {
		s.fail(c, err, financeList)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *server) getFinance(c *gin.Context) {
	e, err := s.svc.GetFinance(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, financeGet)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *server) createFinance(c *gin.Context) {
	var in school.FinanceInput
	if !s.bind(c, &in, financeCreate) {
		return
	}
	e, err := s.svc.CreateFinance(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err, financeCreate)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (s *server) updateFinance(c *gin.Context) {
	var in school.FinanceInput
	if !s.bind(c, &in, financeUpdate) {
		return
	}
	e, err := s.svc.UpdateFinance(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.fail(c, err, financeUpdate)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (s *server) deleteFinance(c *gin.Context) {
	if err := s.svc.DeleteFinance(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err, financeDelete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Finance record deleted successfully"})
}
