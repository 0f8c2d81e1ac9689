package ports

import (
	"context"

	"github.com/edumarket/course-api/internal/core/domain"
)

// RegisterInput is the registration schema.
type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,min=6,max=50,email"`
	Password string `json:"password" validate:"required,min=6,max=255"`
	Role     string `json:"role"     validate:"required,oneof=instructor student"`
}

// LoginInput is the login schema.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,min=6,max=50,email"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

// LoginResult carries the scheme-prefixed token and the authenticated user.
type LoginResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

// Authenticator resolves a raw bearer token into the acting identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// LoginLimiter throttles login attempts per key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
