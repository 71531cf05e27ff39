package ports

import "github.com/gocommerce/marketplace-api/internal/core/domain"

// TokenIssuer signs and verifies the tokens asserted on protected requests.
type TokenIssuer interface {
	// Issue produces a signed, time-bounded token embedding the claims.
	Issue(claims domain.TokenClaims) (string, error)
	// Verify decodes a presented token. It fails closed: signature
	// mismatch, malformed payload, or past expiry never yields claims.
	// Expiry is reported as domain.ErrTokenExpired, everything else as
	// domain.ErrInvalidToken.
	Verify(token string) (*domain.TokenClaims, error)
}
