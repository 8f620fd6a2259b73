package ports

import "github.com/solx/solx-api/internal/core/domain"

// TokenIssuer signs identities into bearer tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
}

// TokenVerifier decodes bearer tokens. Implementations return
// domain.ErrInvalidToken for any malformed, tampered or expired token.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}
