package school

import "github.com/pkg/errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrAccountExists      = errors.New("Username or email already exists")
	ErrTeacherEmailTaken  = errors.New("Teacher email already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")
)

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	cause := errors.Cause(err)
	return cause == ErrAccountExists || cause == ErrTeacherEmailTaken
}

// IsNotFound reports whether err is an id lookup miss.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError lists the constraints a record violated.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldMap returns the violations keyed by JSON field name.
func (err ValidationError) FieldMap() map[string]string {
	out := make(map[string]string, len(err.Fields))
	for _, f := range err.Fields {
		out[f.Field] = f.Error
	}
	return out
}
