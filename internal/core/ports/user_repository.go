package ports

import (
	"context"

	"github.com/edumarket/course-api/internal/core/domain"
)

// UserRepository defines persistence for registered accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, keyed by id.
	// Unknown or malformed ids are skipped.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
}
