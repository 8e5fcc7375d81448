package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"schoolms/internal/school"
)

// failure carries the client-facing messages of one route.
type failure struct {
	// failed is used for validation and internal errors.
	failed string
	// notFound is used for id misses.
	notFound string
}

// fail maps err to a status and a {error} body. Internal causes are logged, never returned.
func (s *server) fail(c *gin.Context, err error, f failure) {
	var vErr *school.ValidationError
	switch {
	case errors.As(err, &vErr):
		body := gin.H{"error": f.failed}
		if len(vErr.Fields) > 0 {
			body["fields"] = vErr.FieldMap()
		}
		c.JSON(http.StatusBadRequest, body)
	case school.IsConflict(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.Cause(err).Error()})
	case errors.Cause(err) == school.ErrInvalidCredentials:
		c.JSON(http.StatusBadRequest, gin.H{"error": school.ErrInvalidCredentials.Error()})
	case school.IsNotFound(err) && f.notFound != "":
		c.JSON(http.StatusNotFound, gin.H{"error": f.notFound})
	default:
		s.log.Error(f.failed, "error", err, "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": f.failed})
	}
}

// bind decodes the JSON body into dst, answering 400 on malformed input.
func (s *server) bind(c *gin.Context, dst interface{}, f failure) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": f.failed})
		return false
	}
	return true
}
