package ports

import (
	"context"
	"time"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
)

// PasswordHasher hashes with the current scheme and verifies any recognised one.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// TokenService issues and validates signed bearer tokens carrying the subject email.
type TokenService interface {
	Issue(subject string) (token string, expiresAt time.Time, err error)
	IssueWithTTL(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)
	// Validate returns the subject claim or domain.ErrUnauthorized.
	Validate(token string) (subject string, err error)
}

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
}

// AuthService is the gate every request passes before reaching the employee operations.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Employee, error)
	Login(ctx context.Context, email, password string) (*AccessToken, error)
	Resolve(ctx context.Context, token string) (*domain.Employee, error)
	Authorize(employee *domain.Employee, allowed ...domain.Role) (*domain.Employee, error)
}
