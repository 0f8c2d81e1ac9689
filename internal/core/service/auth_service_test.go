package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/edumarket/course-api/internal/core/domain"
	"github.com/edumarket/course-api/internal/core/ports"
)

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by id
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

type stubLimiter struct {
	allowed int
	calls   int
	err     error
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) {
	l.calls++
	if l.err != nil {
		return false, l.err
	}
	return l.calls <= l.allowed, nil
}

func registerInput(username, email, role string) ports.RegisterInput {
	return ports.RegisterInput{Username: username, Email: email, Password: "pass123", Role: role}
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret")

	user, err := svc.Register(context.Background(), registerInput("alice", "alice@example.com", domain.RoleInstructor))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil || user.ID == "" {
		t.Fatalf("expected user with id, got %+v", user)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleInstructor {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret")

	cases := []ports.RegisterInput{
		{Username: "", Email: "bob@example.com", Password: "pass123", Role: domain.RoleStudent},
		{Username: "bob", Email: "not-an-email", Password: "pass123", Role: domain.RoleStudent},
		{Username: "bob", Email: "bob@example.com", Password: "123", Role: domain.RoleStudent},
		{Username: "bob", Email: "bob@example.com", Password: "pass123", Role: "admin"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("input %+v: expected ValidationError, got %v", in, err)
		}
	}
	if len(repo.users) != 0 {
		t.Fatalf("invalid input must not be stored")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret")

	if _, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com", domain.RoleStudent)); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	// Any other field values still collide on the email.
	_, err := svc.Register(context.Background(), registerInput("robert", "bob@example.com", domain.RoleInstructor))
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("db unavailable")
	svc := NewAuthService(repo, "secret")

	_, err := svc.Register(context.Background(), registerInput("bob", "bob@example.com", domain.RoleStudent))
	if err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret")

	registered, err := svc.Register(context.Background(), registerInput("carol", "carol@example.com", domain.RoleInstructor))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), ports.LoginInput{Email: "carol@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.HasPrefix(res.Token, "JWT ") {
		t.Fatalf("expected token with JWT scheme, got %q", res.Token)
	}
	if res.User == nil || res.User.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	identity, err := svc.Authenticate(context.Background(), strings.TrimPrefix(res.Token, "JWT "))
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if identity.ID != registered.ID || identity.Email != "carol@example.com" || identity.Role != domain.RoleInstructor {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestAuthService_Login_TokenHasNoExpiryByDefault(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret")
	_, _ = svc.Register(context.Background(), registerInput("dan", "dan@example.com", domain.RoleStudent))

	res, err := svc.Login(context.Background(), ports.LoginInput{Email: "dan@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(strings.TrimPrefix(res.Token, "JWT "), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if _, ok := claims["exp"]; ok {
		t.Fatalf("expected no exp claim, got %v", claims["exp"])
	}
	if claims["email"] != "dan@example.com" || claims["_id"] == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_TokenTTL(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", WithTokenTTL(time.Hour))
	_, _ = svc.Register(context.Background(), registerInput("erin", "erin@example.com", domain.RoleStudent))

	res, err := svc.Login(context.Background(), ports.LoginInput{Email: "erin@example.com", Password: "pass123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(strings.TrimPrefix(res.Token, "JWT "), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatal("expected exp claim when a TTL is configured")
	}
}

func TestAuthService_Login_IncorrectPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret")

	_, _ = svc.Register(context.Background(), registerInput("dave", "dave@example.com", domain.RoleStudent))
	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "dave@example.com", Password: "badpass"})
	if !errors.Is(err, domain.ErrIncorrectPassword) {
		t.Fatalf("expected ErrIncorrectPassword, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret")

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "ghost@example.com", Password: "pass123"})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_Validation(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), "secret")

	_, err := svc.Login(context.Background(), ports.LoginInput{Email: "ghost", Password: "pass123"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: 1}
	svc := NewAuthService(repo, "secret", WithLoginLimiter(limiter))
	_, _ = svc.Register(context.Background(), registerInput("fay", "fay@example.com", domain.RoleStudent))

	in := ports.LoginInput{Email: "fay@example.com", Password: "pass123"}
	if _, err := svc.Login(context.Background(), in); err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), in); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterFailureAllows(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret", WithLoginLimiter(&stubLimiter{err: errors.New("redis down")}))
	_, _ = svc.Register(context.Background(), registerInput("gus", "gus@example.com", domain.RoleStudent))

	if _, err := svc.Login(context.Background(), ports.LoginInput{Email: "gus@example.com", Password: "pass123"}); err != nil {
		t.Fatalf("limiter errors must not block login, got %v", err)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, "secret")
	user, _ := svc.Register(context.Background(), registerInput("hal", "hal@example.com", domain.RoleStudent))

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": sign(jwt.MapClaims{"_id": user.ID, "email": user.Email}, jwt.SigningMethodHS256, []byte("other")),
		"wrong alg":    sign(jwt.MapClaims{"_id": user.ID}, jwt.SigningMethodHS512, []byte("secret")),
		"no subject":   sign(jwt.MapClaims{"email": user.Email}, jwt.SigningMethodHS256, []byte("secret")),
		"unknown user": sign(jwt.MapClaims{"_id": "user-999"}, jwt.SigningMethodHS256, []byte("secret")),
		"expired":      sign(jwt.MapClaims{"_id": user.ID, "exp": time.Now().Add(-time.Minute).Unix()}, jwt.SigningMethodHS256, []byte("secret")),
	}
	for name, token := range cases {
		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}
