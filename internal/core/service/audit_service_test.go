package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

type stubAuditRepo struct {
	inserted []domain.AuthEvent
	err      error
}

func (r *stubAuditRepo) Insert(_ context.Context, event *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, *event)
	return nil
}

func TestAuditService_Process(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	event := domain.AuthEvent{
		Kind:      domain.KindUser,
		Action:    domain.ActionLogin,
		Email:     "a@x.com",
		Success:   true,
		Timestamp: time.Now().UTC(),
	}
	if err := svc.Process(context.Background(), event); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Email != "a@x.com" {
		t.Fatalf("event not persisted: %+v", repo.inserted)
	}
}

func TestAuditService_Process_RepoError(t *testing.T) {
	wantErr := errors.New("mongo down")
	svc := NewAuditService(&stubAuditRepo{err: wantErr}, zerolog.Nop())

	err := svc.Process(context.Background(), domain.AuthEvent{Action: domain.ActionRegister})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}
