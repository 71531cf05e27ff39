package handler

import (
	"time"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
	"github.com/gocommerce/marketplace-api/internal/core/ports"
)

// --- Request types ---

type registerUserRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
}

type registerSellerRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=6"`
	Company   string `json:"company"    validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

// authResponse is the redacted principal merged flat with the issued token.
type authResponse struct {
	ID        string        `json:"id"`
	Kind      domain.Kind   `json:"kind"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
	Company   string        `json:"company,omitempty"`
	Roles     []domain.Role `json:"roles"`
	IsActive  bool          `json:"is_active"`
	CreatedAt time.Time     `json:"created_at"`
	Token     string        `json:"token"`
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	return authResponse{
		ID:        r.Principal.ID,
		Kind:      r.Principal.Kind,
		FirstName: r.Principal.FirstName,
		LastName:  r.Principal.LastName,
		Email:     r.Principal.Email,
		Company:   r.Principal.Company,
		Roles:     r.Principal.Roles,
		IsActive:  r.Principal.IsActive,
		CreatedAt: r.Principal.CreatedAt.UTC(),
		Token:     r.Token,
	}
}
