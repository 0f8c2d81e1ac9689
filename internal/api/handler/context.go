package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edumarket/course-api/internal/api/middleware"
	"github.com/edumarket/course-api/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Auth middleware. A missing
// identity means the route was mounted without Auth; treat it as 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication identity")
	}
	return id, nil
}

// ErrorResponse is the error envelope of every API failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
