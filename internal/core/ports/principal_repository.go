package ports

import (
	"context"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

// PrincipalRepository is the credential store contract for one principal
// kind. User and seller stores are separate instances of this interface;
// their email namespaces are independent.
type PrincipalRepository interface {
	// Create persists a new principal and returns it with its assigned ID.
	// Fails with domain.ErrDuplicateEmail when an active principal of the
	// same kind already holds the email.
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	// FindByEmail fails with domain.ErrPrincipalNotFound on a miss.
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	// FindByID fails with domain.ErrPrincipalNotFound on a miss.
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
}
