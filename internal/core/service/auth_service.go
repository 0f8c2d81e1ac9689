package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/edumarket/course-api/internal/api/metrics"
	"github.com/edumarket/course-api/internal/core/domain"
	"github.com/edumarket/course-api/internal/core/ports"
	"github.com/edumarket/course-api/internal/pkg/validation"
)

// TokenScheme prefixes every issued token and is expected back in the
// Authorization header.
const TokenScheme = "JWT"

// tokenClaims is the signed payload: the user's id and email.
type tokenClaims struct {
	UserID string `json:"_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and token authentication.
type AuthService struct {
	repo      ports.UserRepository
	limiter   ports.LoginLimiter
	validate  *validation.Validator
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithTokenTTL sets an expiry on issued tokens. Zero or negative leaves
// tokens without an exp claim.
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) { s.tokenTTL = ttl }
}

// WithLoginLimiter throttles Login calls per email.
func WithLoginLimiter(l ports.LoginLimiter) AuthOption {
	return func(s *AuthService) { s.limiter = l }
}

// WithLogger sets the service logger. Defaults to zerolog.Nop().
func WithLogger(log zerolog.Logger) AuthOption {
	return func(s *AuthService) { s.log = log }
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:      repo,
		validate:  validation.New(),
		jwtSecret: []byte(jwtSecret),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.WithLabelValues(created.Role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		ok, err := s.limiter.Allow(ctx, in.Email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if !ok {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("user_not_found").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			metrics.LoginsTotal.WithLabelValues("incorrect_password").Inc()
			return nil, domain.ErrIncorrectPassword
		}
		return nil, fmt.Errorf("login: compare password: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("login: sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &ports.LoginResult{Token: TokenScheme + " " + token, User: user}, nil
}

// Authenticate verifies the token signature and reloads the user it names so
// the returned role reflects the stored account.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (domain.Identity, error) {
	var claims tokenClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if _, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.UserID == "" {
		return domain.Identity{}, fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return domain.Identity{}, fmt.Errorf("authenticate: %w", err)
	}

	return domain.Identity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := tokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if s.tokenTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(s.tokenTTL))
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}
