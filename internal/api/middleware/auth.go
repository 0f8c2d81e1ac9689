package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edumarket/course-api/internal/core/domain"
	"github.com/edumarket/course-api/internal/core/ports"
)

// IdentityKey is the context key under which Auth stores the domain.Identity.
const IdentityKey = "identity"

// Auth resolves the Authorization header into an identity and injects it into
// the context. Both "JWT <token>" and "Bearer <token>" are accepted. Rejected
// tokens answer 401; lookup failures go to the central error handler.
func Auth(authenticator ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !knownScheme(parts[0]) || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			id, err := authenticator.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
				}
				return err
			}

			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

func knownScheme(s string) bool {
	return strings.EqualFold(s, "jwt") || strings.EqualFold(s, "bearer")
}

// IdentityFrom returns the identity injected by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(IdentityKey).(domain.Identity)
	return id, ok && id.ID != ""
}
