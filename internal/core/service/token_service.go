package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies HS256-signed tokens. The signing secret is
// set once at construction and never mutated afterwards.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// signedClaims is the wire shape of the token payload: the claim projection
// plus the registered time bounds. Subject carries the principal ID.
type signedClaims struct {
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	Roles     []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// Issue signs the claims with an issued-at of now and an expiry of now+TTL.
func (s *TokenService) Issue(claims domain.TokenClaims) (string, error) {
	now := s.now().UTC()
	sc := signedClaims{
		Email:     claims.Email,
		FirstName: claims.FirstName,
		Roles:     claims.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(s.secret)
}

// Verify decodes and validates a presented token. Any signature mismatch,
// malformed payload, or wrong signing method is domain.ErrInvalidToken; a
// structurally valid but expired token is domain.ErrTokenExpired.
func (s *TokenService) Verify(token string) (*domain.TokenClaims, error) {
	var sc signedClaims
	parsed, err := jwt.ParseWithClaims(token, &sc, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	return &domain.TokenClaims{
		ID:        sc.Subject,
		Email:     sc.Email,
		FirstName: sc.FirstName,
		Roles:     sc.Roles,
	}, nil
}
