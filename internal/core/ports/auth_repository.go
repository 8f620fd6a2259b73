package ports

import (
	"context"

	"github.com/solx/solx-api/internal/core/domain"
)

// UserRepository is the credential store as seen by the authenticator.
type UserRepository interface {
	// FindByEmail is an exact, case-sensitive match.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateName(ctx context.Context, id, name string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// AccessRequestRepository persists access requests.
type AccessRequestRepository interface {
	Create(ctx context.Context, req *domain.AccessRequest) (*domain.AccessRequest, error)
}
