package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

var timeNow = time.Now

// EmployeeService runs every operation inside one store transaction.
type EmployeeService struct {
	tx     ports.TransactionManager
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewEmployeeService(tx ports.TransactionManager, hasher ports.PasswordHasher, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{tx: tx, hasher: hasher, logger: logger}
}

// Create hashes the password and persists a new employee. A taken email fails
// with ErrEmployeeExists and leaves the existing record untouched.
func (s *EmployeeService) Create(ctx context.Context, in ports.CreateEmployeeInput) (*ports.EmployeeView, error) {
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleEmployee
	}

	employee := &domain.Employee{
		Email:     strings.TrimSpace(in.Email),
		Name:      in.Name,
		EntryDate: domain.TruncateDate(in.EntryDate),
		Age:       in.Age,
		Pay:       in.Pay,
		Role:      role,
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create employee: hash password: %w", err)
	}
	employee.PasswordHash = hash

	err = s.tx.Execute(ctx, func(ctx context.Context, repo ports.EmployeeRepository) error {
		_, err := repo.FindByEmail(ctx, employee.Email)
		switch {
		case err == nil:
			return domain.ErrEmployeeExists
		case !errors.Is(err, domain.ErrEmployeeNotFound):
			return err
		}
		return repo.Create(ctx, employee)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrEmployeeExists) {
			s.logger.Error().Err(err).Msg("failed to create employee")
		}
		return nil, err
	}

	s.logger.Info().Int64("employee_id", employee.ID).Str("role", string(employee.Role)).Msg("employee created")
	return ports.NewEmployeeView(employee), nil
}

// List returns every employee ordered by id.
func (s *EmployeeService) List(ctx context.Context) ([]*ports.EmployeeView, error) {
	var views []*ports.EmployeeView
	err := s.tx.Execute(ctx, func(ctx context.Context, repo ports.EmployeeRepository) error {
		employees, err := repo.List(ctx)
		if err != nil {
			return err
		}
		views = make([]*ports.EmployeeView, 0, len(employees))
		for _, e := range employees {
			views = append(views, ports.NewEmployeeView(e))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return views, nil
}

// Get returns one employee or ErrEmployeeNotFound.
func (s *EmployeeService) Get(ctx context.Context, id int64) (*ports.EmployeeView, error) {
	var view *ports.EmployeeView
	err := s.tx.Execute(ctx, func(ctx context.Context, repo ports.EmployeeRepository) error {
		e, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		view = ports.NewEmployeeView(e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return view, nil
}

// Replace overwrites every mutable field of the employee. Email and password
// hash are kept.
func (s *EmployeeService) Replace(ctx context.Context, id int64, in domain.EmployeeReplace) (*ports.EmployeeView, error) {
	return s.modify(ctx, "replace", id, in.Apply)
}

// Update overwrites only the fields supplied in patch. An empty patch writes
// nothing and returns the current record.
func (s *EmployeeService) Update(ctx context.Context, id int64, patch domain.EmployeePatch) (*ports.EmployeeView, error) {
	if patch.Empty() {
		return s.Get(ctx, id)
	}
	return s.modify(ctx, "update", id, patch.Apply)
}

// modify is the shared read-modify-write of Replace and Update.
func (s *EmployeeService) modify(ctx context.Context, op string, id int64, apply func(*domain.Employee)) (*ports.EmployeeView, error) {
	var view *ports.EmployeeView
	err := s.tx.Execute(ctx, func(ctx context.Context, repo ports.EmployeeRepository) error {
		employee, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		apply(employee)
		if err := employee.Validate(); err != nil {
			return err
		}
		if err := repo.Update(ctx, employee); err != nil {
			return err
		}
		view = ports.NewEmployeeView(employee)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s employee: %w", op, err)
	}

	s.logger.Info().Int64("employee_id", id).Str("operation", op).Msg("employee modified")
	return view, nil
}

// Delete removes the employee permanently.
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	err := s.tx.Execute(ctx, func(ctx context.Context, repo ports.EmployeeRepository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}

	s.logger.Info().Int64("employee_id", id).Msg("employee deleted")
	return nil
}

// EnsureAdmin creates an ADMIN with the given credentials unless the email is
// already registered. It reports whether a record was created.
func (s *EmployeeService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	if name == "" {
		name = "Administrator"
	}
	_, err := s.Create(ctx, ports.CreateEmployeeInput{
		Email:     email,
		Name:      name,
		EntryDate: timeNow(),
		Pay:       0,
		Role:      domain.RoleAdmin,
		Password:  password,
	})
	switch {
	case errors.Is(err, domain.ErrEmployeeExists):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	return true, nil
}
