package ports

import (
	"context"

	"github.com/solx/solx-api/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	User        domain.PublicUser
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Profile(ctx context.Context, userID string) (domain.PublicUser, error)
	UpdateProfile(ctx context.Context, userID, name string) (domain.PublicUser, error)
}

// AccessRequestInput carries the fields of a request-access submission.
type AccessRequestInput struct {
	Name    string
	Email   string
	Company string
	Message string
}

type AccessRequestService interface {
	RequestAccess(ctx context.Context, input AccessRequestInput) (*domain.AccessRequest, error)
}
