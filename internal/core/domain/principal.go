package domain

import "time"

// Kind distinguishes the two independent credential namespaces. A user and a
// seller may register the same email without conflict.
type Kind string

const (
	KindUser   Kind = "user"
	KindSeller Kind = "seller"
)

// Role is a tag controlling which routes a principal may invoke.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

// Principal models an authenticated identity as stored. User principals hold
// roles from {buyer, admin}; seller principals hold {seller} and carry a
// company name.
type Principal struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Company      string    `json:"company,omitempty"`
	Roles        []Role    `json:"roles"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicPrincipal is the view of a principal that may cross the system
// boundary. It has no password hash field at all, so secret material cannot
// leak through serialization of this type.
type PublicPrincipal struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Roles     []Role    `json:"roles"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Redact projects a stored principal onto its public view.
func (p *Principal) Redact() PublicPrincipal {
	roles := make([]Role, len(p.Roles))
	copy(roles, p.Roles)
	return PublicPrincipal{
		ID:        p.ID,
		Kind:      p.Kind,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Company:   p.Company,
		Roles:     roles,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
	}
}

// TokenClaims is the immutable payload embedded in a token. It is always
// derived from the redacted view, never from the stored record.
type TokenClaims struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	Roles     []Role `json:"roles"`
}

// NewTokenClaims builds the claim projection of a public principal.
func NewTokenClaims(p PublicPrincipal) TokenClaims {
	roles := make([]Role, len(p.Roles))
	copy(roles, p.Roles)
	return TokenClaims{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		Roles:     roles,
	}
}

// HasAnyRole reports whether held and required share at least one role.
// Access decisions use intersection semantics, not exact match.
func HasAnyRole(held, required []Role) bool {
	for _, h := range held {
		for _, r := range required {
			if h == r {
				return true
			}
		}
	}
	return false
}

// DefaultUserRoles is the role set assigned to a newly registered user.
func DefaultUserRoles() []Role { return []Role{RoleBuyer} }

// DefaultSellerRoles is the role set assigned to a newly registered seller.
func DefaultSellerRoles() []Role { return []Role{RoleSeller} }
