package ports

import (
	"context"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
)

// EmployeeRepository persists employee records, password hash included.
type EmployeeRepository interface {
	// Create assigns e.ID. Fails with domain.ErrEmployeeExists when the email is taken.
	Create(ctx context.Context, e *domain.Employee) error
	FindByID(ctx context.Context, id int64) (*domain.Employee, error)
	FindByEmail(ctx context.Context, email string) (*domain.Employee, error)
	// List returns every employee ordered by id.
	List(ctx context.Context) ([]*domain.Employee, error)
	// Update overwrites the mutable columns of an existing record.
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

// TransactionManager scopes a unit of work to one store transaction. The
// transaction commits only when fn returns nil and ctx is still live; it is
// rolled back on every other exit path, panics included.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repo EmployeeRepository) error) error
}
