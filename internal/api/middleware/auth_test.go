package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/edumarket/course-api/internal/core/domain"
)

type stubAuthenticator struct {
	tokens map[string]domain.Identity
	seen   string
	err    error
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (domain.Identity, error) {
	s.seen = token
	if s.err != nil {
		return domain.Identity{}, s.err
	}
	id, ok := s.tokens[token]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return id, nil
}

func newStubAuthenticator() *stubAuthenticator {
	return &stubAuthenticator{tokens: map[string]domain.Identity{
		"good": {ID: "u1", Email: "alice@example.com", Role: domain.RoleInstructor},
	}}
}

func runAuth(t *testing.T, auth *stubAuthenticator, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(auth)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	for _, header := range []string{"JWT good", "jwt good", "Bearer good", "bearer good"} {
		auth := newStubAuthenticator()
		called := false
		rec := runAuth(t, auth, header, func(c echo.Context) error {
			called = true
			id, ok := IdentityFrom(c)
			if !ok || id.ID != "u1" || id.Role != domain.RoleInstructor {
				t.Fatalf("identity not set: %+v", id)
			}
			return c.NoContent(http.StatusOK)
		})

		if !called {
			t.Fatalf("%q: next not called", header)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", header, rec.Code)
		}
		if auth.seen != "good" {
			t.Fatalf("%q: authenticator got %q, want the bare token", header, auth.seen)
		}
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"unknown scheme": "Token good",
		"no token":       "JWT",
		"blank token":    "JWT   ",
		"invalid token":  "JWT not-a-token",
		"scheme-less":    "good",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runAuth(t, newStubAuthenticator(), header, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_StoreFailureIsNotUnauthorized(t *testing.T) {
	storeErr := fmt.Errorf("authenticate: %w", errors.New("server selection timeout"))
	auth := newStubAuthenticator()
	auth.err = storeErr

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "JWT good")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Auth(auth)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)

	if !errors.Is(err, storeErr) {
		t.Fatalf("expected the store error to propagate, got %v", err)
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		t.Fatalf("store failure must not become an HTTP %d", he.Code)
	}
}

func TestAuthMiddleware_WrappedUnauthorizedIs401(t *testing.T) {
	auth := newStubAuthenticator()
	auth.err = fmt.Errorf("%w: token is expired", domain.ErrUnauthorized)

	rec := runAuth(t, auth, "JWT good", func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestIdentityFrom_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, ok := IdentityFrom(c); ok {
		t.Fatal("expected no identity")
	}
	c.Set(IdentityKey, domain.Identity{})
	if _, ok := IdentityFrom(c); ok {
		t.Fatal("expected empty identity to be rejected")
	}
}
