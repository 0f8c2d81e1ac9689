package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/edumarket/course-api/internal/core/domain"
)

func runRBAC(t *testing.T, id *domain.Identity, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if id != nil {
		c.Set(IdentityKey, *id)
	}

	mw := RBAC(domain.RoleInstructor, domain.RoleStudent)
	if err := mw(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRBAC_Allows(t *testing.T) {
	called := false
	rec := runRBAC(t, &domain.Identity{ID: "u1", Role: domain.RoleStudent}, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	rec := runRBAC(t, &domain.Identity{ID: "u1", Role: "guest"}, func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_RequiresIdentity(t *testing.T) {
	rec := runRBAC(t, nil, func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
