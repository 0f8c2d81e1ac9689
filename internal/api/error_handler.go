package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edumarket/course-api/internal/api/handler"
	"github.com/edumarket/course-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors and returns their text with a 500.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	// ErrInstructorOnly wraps ErrForbidden, so it must be matched first.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "Email already registered. Please use a different email or log in with the existing one."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, "Login failed. User not found. Verify your credentials or sign up for an account."
	case errors.Is(err, domain.ErrIncorrectPassword):
		return http.StatusUnauthorized, "Login failed. Incorrect password. Please double-check and try again."
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many login attempts. Please try again later."
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrInstructorOnly):
		return http.StatusBadRequest, "Only instructors can upload new courses."
	case errors.Is(err, domain.ErrNotCourseOwner):
		return http.StatusForbidden, "Sorry, only the course instructor can modify this course."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrCourseNotFound):
		return http.StatusBadRequest, "Course not found."
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, err.Error()
}
