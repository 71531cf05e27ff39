package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
	"github.com/gocommerce/marketplace-api/internal/core/ports"
)

// dummyHash is a bcrypt hash at the same cost registration uses. Login runs
// a comparison against it when the email is unknown, so the unknown-email and
// wrong-password branches cost the same and response timing does not reveal
// which emails exist.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// LoginLimiter throttles repeated login attempts per kind+email (Redis).
type LoginLimiter interface {
	Allow(ctx context.Context, kind domain.Kind, email string) (bool, error)
	Reset(ctx context.Context, kind domain.Kind, email string) error
}

// AuthService implements registration and login for both principal kinds.
// The register/login sequence is shared; only the store and the default role
// set differ per kind.
type AuthService struct {
	users   ports.PrincipalRepository
	sellers ports.PrincipalRepository
	tokens  ports.TokenIssuer
	limiter LoginLimiter
	audit   ports.AuditTrail
	log     zerolog.Logger
}

// NewAuthService wires the service. limiter and audit may be nil; both are
// optional collaborators.
func NewAuthService(
	users ports.PrincipalRepository,
	sellers ports.PrincipalRepository,
	tokens ports.TokenIssuer,
	limiter LoginLimiter,
	audit ports.AuditTrail,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		sellers: sellers,
		tokens:  tokens,
		limiter: limiter,
		audit:   audit,
		log:     log,
	}
}

func (s *AuthService) RegisterUser(ctx context.Context, in ports.RegisterUserInput) (*ports.AuthResult, error) {
	if in.FirstName == "" || in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return s.register(ctx, s.users, &domain.Principal{
		Kind:      domain.KindUser,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Roles:     domain.DefaultUserRoles(),
	}, in.Password)
}

func (s *AuthService) LoginUser(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.login(ctx, s.users, domain.KindUser, in)
}

func (s *AuthService) RegisterSeller(ctx context.Context, in ports.RegisterSellerInput) (*ports.AuthResult, error) {
	if in.FirstName == "" || in.Email == "" || in.Password == "" || in.Company == "" {
		return nil, domain.ErrInvalidCredentials
	}
	return s.register(ctx, s.sellers, &domain.Principal{
		Kind:      domain.KindSeller,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Company:   in.Company,
		Roles:     domain.DefaultSellerRoles(),
	}, in.Password)
}

func (s *AuthService) LoginSeller(ctx context.Context, in ports.LoginInput) (*ports.AuthResult, error) {
	return s.login(ctx, s.sellers, domain.KindSeller, in)
}

// register hashes the password, persists the principal, and issues a token
// for the redacted view. A duplicate email surfaces unchanged from the store;
// it is not transient, so there is no retry.
func (s *AuthService) register(ctx context.Context, repo ports.PrincipalRepository, p *domain.Principal, password string) (*ports.AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.PasswordHash = string(hash)
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now

	created, err := repo.Create(ctx, p)
	if err != nil {
		s.record(p.Kind, domain.ActionRegister, p.Email, false, reason(err))
		return nil, err
	}

	return s.finish(created, domain.ActionRegister)
}

// login verifies credentials against the stored hash. A missing email and a
// wrong password return the same error value so callers cannot enumerate
// accounts.
func (s *AuthService) login(ctx context.Context, repo ports.PrincipalRepository, kind domain.Kind, in ports.LoginInput) (*ports.AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, kind, in.Email)
		if err != nil {
			// Throttle store unavailable: process the login anyway.
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("login limiter check failed")
		} else if !allowed {
			s.record(kind, domain.ActionLogin, in.Email, false, reason(domain.ErrTooManyAttempts))
			return nil, domain.ErrTooManyAttempts
		}
	}

	p, err := repo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
			s.record(kind, domain.ActionLogin, in.Email, false, reason(domain.ErrInvalidCredentials))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !p.IsActive || bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)) != nil {
		s.record(kind, domain.ActionLogin, in.Email, false, reason(domain.ErrInvalidCredentials))
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, kind, in.Email); err != nil {
			s.log.Warn().Err(err).Str("kind", string(kind)).Msg("login limiter reset failed")
		}
	}

	return s.finish(p, domain.ActionLogin)
}

// finish redacts the stored record first, then derives claims from the
// redacted view and issues the token. The ordering makes hash leakage into
// claims structurally impossible.
func (s *AuthService) finish(p *domain.Principal, action domain.AuthAction) (*ports.AuthResult, error) {
	pub := p.Redact()

	token, err := s.tokens.Issue(domain.NewTokenClaims(pub))
	if err != nil {
		return nil, err
	}

	s.record(pub.Kind, action, pub.Email, true, "")
	return &ports.AuthResult{Principal: pub, Token: token}, nil
}

func (s *AuthService) record(kind domain.Kind, action domain.AuthAction, email string, success bool, why string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Kind:      kind,
		Action:    action,
		Email:     email,
		Success:   success,
		Reason:    why,
		Timestamp: time.Now().UTC(),
	})
}

func reason(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
