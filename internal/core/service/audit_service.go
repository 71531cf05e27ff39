package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
	"github.com/gocommerce/marketplace-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting events to the given
// repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single auth event. The trail records outcomes only;
// credentials never reach this path.
func (s *auditService) Process(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}

	s.log.Debug().
		Str("kind", string(event.Kind)).
		Str("action", string(event.Action)).
		Bool("success", event.Success).
		Msg("auth event recorded")

	return nil
}
