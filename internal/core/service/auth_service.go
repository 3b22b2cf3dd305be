package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// TokenTypeBearer is the token_type reported on login.
const TokenTypeBearer = "bearer"

// AuthService implements login, token resolution and role checks.
type AuthService struct {
	tx     ports.TransactionManager
	hasher ports.PasswordHasher
	tokens ports.TokenService
	logger zerolog.Logger

	decoyOnce sync.Once
	decoy     string
}

func NewAuthService(tx ports.TransactionManager, hasher ports.PasswordHasher, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{tx: tx, hasher: hasher, tokens: tokens, logger: logger}
}

// Authenticate returns the employee owning email when password matches. An
// unknown email and a wrong password fail identically with ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Employee, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var employee *domain.Employee
	err := s.tx.Execute(ctx, func(ctx context.Context, repo ports.EmployeeRepository) error {
		found, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		employee = found
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		// Same hash work as a wrong password, so response time does not reveal the email.
		s.hasher.Verify(password, s.decoyHash())
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !s.hasher.Verify(password, employee.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return employee, nil
}

// decoyHash is a hash in the active scheme that no submitted password matches.
func (s *AuthService) decoyHash() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("\x00unmatched")
		if err != nil {
			s.logger.Warn().Err(err).Msg("decoy hash unavailable")
			return
		}
		s.decoy = hash
	})
	return s.decoy
}

// Login authenticates the credentials and issues a bearer token for the employee email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AccessToken, error) {
	employee, err := s.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.Info().Msg("login rejected")
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(employee.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.logger.Info().Int64("employee_id", employee.ID).Msg("login succeeded")
	return &ports.AccessToken{Token: token, TokenType: TokenTypeBearer, ExpiresAt: expiresAt}, nil
}

// Resolve maps a bearer token to the employee it names. Invalid tokens and
// subjects that no longer exist both fail with ErrUnauthorized.
func (s *AuthService) Resolve(ctx context.Context, token string) (*domain.Employee, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	email, err := s.tokens.Validate(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	var employee *domain.Employee
	err = s.tx.Execute(ctx, func(ctx context.Context, repo ports.EmployeeRepository) error {
		found, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		employee = found
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		s.logger.Debug().Msg("token subject no longer exists")
		return nil, domain.ErrUnauthorized
	case err != nil:
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	return employee, nil
}

// Authorize passes employee through when allowed is empty or contains its role.
func (s *AuthService) Authorize(employee *domain.Employee, allowed ...domain.Role) (*domain.Employee, error) {
	if employee == nil {
		return nil, domain.ErrUnauthorized
	}
	if !employee.Role.In(allowed) {
		return nil, domain.ErrForbidden
	}
	return employee, nil
}
