package ports

import (
	"context"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

// RegisterUserInput carries the fields accepted at user registration.
type RegisterUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterSellerInput carries the fields accepted at seller registration.
type RegisterSellerInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Company   string
}

// LoginInput carries login credentials for either principal kind.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is the success value of every register/login operation: the
// redacted principal plus the token issued for it.
type AuthResult struct {
	Principal domain.PublicPrincipal
	Token     string
}

// AuthService orchestrates credential verification and token issuance for
// both principal kinds.
type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterUserInput) (*AuthResult, error)
	LoginUser(ctx context.Context, in LoginInput) (*AuthResult, error)
	RegisterSeller(ctx context.Context, in RegisterSellerInput) (*AuthResult, error)
	LoginSeller(ctx context.Context, in LoginInput) (*AuthResult, error)
}
