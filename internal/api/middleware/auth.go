package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/solx/solx-api/internal/api/metrics"
	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

// IdentityKey is the echo context key holding the authenticated domain.Identity.
const IdentityKey = "identity"

type identityCtxKey struct{}

// Authenticate resolves an Authorization header value into an identity.
// It returns one of domain.ErrUnauthenticated, domain.ErrMalformedToken,
// domain.ErrInvalidToken or a wrapped domain.ErrInternal.
func Authenticate(header string, verifier ports.TokenVerifier) (domain.Identity, error) {
	if header == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	fields := strings.Fields(header)
	if len(fields) < 2 {
		return domain.Identity{}, domain.ErrMalformedToken
	}

	identity, err := verifier.Verify(fields[1])
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return domain.Identity{}, domain.ErrInvalidToken
		}
		return domain.Identity{}, fmt.Errorf("%w: verify token: %v", domain.ErrInternal, err)
	}
	return identity, nil
}

// Auth verifies the bearer token and attaches the identity to the request.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := authenticateSafely(c.Request().Header.Get(echo.HeaderAuthorization), verifier)
			if err != nil {
				reason := rejectionReason(err)
				metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
				if reason == "internal" {
					log.Error().Err(err).Str("path", c.Path()).Msg("authentication failed internally")
				}
				return err
			}

			c.Set(IdentityKey, identity)
			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), identity)))

			return next(c)
		}
	}
}

// authenticateSafely turns a panicking verifier into an internal error so a
// request can never slip through unauthenticated.
func authenticateSafely(header string, verifier ports.TokenVerifier) (identity domain.Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			identity = domain.Identity{}
			err = fmt.Errorf("%w: verifier panic: %v", domain.ErrInternal, r)
		}
	}()
	return Authenticate(header, verifier)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return "missing_header"
	case errors.Is(err, domain.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid_token"
	default:
		return "internal"
	}
}

// IdentityFrom returns the identity attached by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(IdentityKey).(domain.Identity)
	if !ok || identity.UserID == "" {
		return domain.Identity{}, false
	}
	return identity, true
}

// WithIdentity stores identity in ctx for code below the HTTP layer.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// IdentityFromContext is the context.Context counterpart of IdentityFrom.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(domain.Identity)
	return identity, ok
}
