package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrUserExists        = errors.New("email already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrTooManyAttempts   = errors.New("too many login attempts")

	ErrCourseNotFound = errors.New("course not found")
	ErrForbidden      = errors.New("access forbidden")
)

var (
	ErrInstructorOnly = fmt.Errorf("%w: only instructors can upload courses", ErrForbidden)
	ErrNotCourseOwner = fmt.Errorf("%w: only the course instructor can modify this course", ErrForbidden)
)

// ValidationError carries the first schema violation found in an input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
