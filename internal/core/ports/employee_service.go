package ports

import (
	"context"
	"time"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
)

// CreateEmployeeInput carries a new employee together with the plaintext password.
type CreateEmployeeInput struct {
	Email     string
	Name      string
	EntryDate time.Time
	Age       *int
	Pay       float64
	Role      domain.Role
	Password  string
}

// EmployeeView is the externally safe read model; it has no password hash.
type EmployeeView struct {
	ID        int64
	Email     string
	Name      string
	EntryDate time.Time
	Age       *int
	Pay       float64
	Role      domain.Role
}

// NewEmployeeView strips the secret fields of e.
func NewEmployeeView(e *domain.Employee) *EmployeeView {
	return &EmployeeView{
		ID:        e.ID,
		Email:     e.Email,
		Name:      e.Name,
		EntryDate: e.EntryDate,
		Age:       e.Age,
		Pay:       e.Pay,
		Role:      e.Role,
	}
}

// EmployeeService defines the employee CRUD use cases.
type EmployeeService interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*EmployeeView, error)
	List(ctx context.Context) ([]*EmployeeView, error)
	Get(ctx context.Context, id int64) (*EmployeeView, error)
	Replace(ctx context.Context, id int64, input domain.EmployeeReplace) (*EmployeeView, error)
	Update(ctx context.Context, id int64, patch domain.EmployeePatch) (*EmployeeView, error)
	Delete(ctx context.Context, id int64) error
}
