package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

// AuthService implements login and profile management.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, tokens ports.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Login checks email and password against the credential store and issues
// a token. Unknown email and wrong password both yield
// domain.ErrInvalidCredentials; an inactive account yields
// domain.ErrAccountInactive.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Msg("login rejected: unknown account")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if !user.IsActive {
		s.log.Info().Str("user_id", user.ID).Msg("login rejected: inactive account")
		return nil, domain.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("stored password hash unusable")
		}
		s.log.Info().Str("user_id", user.ID).Msg("login rejected: bad password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.IdentityOf(user))
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")

	return &ports.LoginResult{AccessToken: token, User: user.Public()}, nil
}

// Profile returns the public projection of the given user.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile changes the display name. No other field is writable.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (domain.PublicUser, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return domain.PublicUser{}, domain.NewValidationError("Name must be at least 2 characters")
	}

	user, err := s.users.UpdateName(ctx, userID, name)
	if err != nil {
		return domain.PublicUser{}, err
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return user.Public(), nil
}

// HashPassword returns the bcrypt hash of password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ProvisionUser creates an account unless one already exists for the email.
// It returns the stored user and whether it was created.
func ProvisionUser(ctx context.Context, users ports.UserRepository, name, email, password string, role domain.Role, cost int) (*domain.User, bool, error) {
	if !role.Valid() {
		return nil, false, domain.NewValidationError("unknown role " + string(role))
	}

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := HashPassword(password, cost)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	created, err := users.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}
