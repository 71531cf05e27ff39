package ports

import (
	"context"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

// AuditTrail receives auth events for asynchronous recording. Record must
// not block the calling request beyond queue admission.
type AuditTrail interface {
	Record(event domain.AuthEvent)
}

// AuditService persists a single auth event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository is the persistence contract for the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
