package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// employeeRepository implements ports.EmployeeRepository on one *gorm.DB,
// normally the transaction opened by TransactionManager.
type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) ports.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	m := fromEmployeeDomain(e)
	m.ID = 0

	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateWriteError(err, "failed to create employee")
	}

	e.ID = m.ID
	e.CreatedAt = m.CreatedAt
	e.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var m EmployeeModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, errors.Wrap(err, "failed to find employee by id")
	}
	return toEmployeeDomain(&m), nil
}

func (r *employeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	var m EmployeeModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, errors.Wrap(err, "failed to find employee by email")
	}
	return toEmployeeDomain(&m), nil
}

func (r *employeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	var models []EmployeeModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list employees")
	}

	employees := make([]*domain.Employee, 0, len(models))
	for i := range models {
		employees = append(employees, toEmployeeDomain(&models[i]))
	}
	return employees, nil
}

// Update writes every column except id and created_at. A map is used so a
// nil age is stored as NULL.
func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	m := fromEmployeeDomain(e)
	now := time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&EmployeeModel{}).Where("id = ?", e.ID).Updates(map[string]any{
		"email":           m.Email,
		"name":            m.Name,
		"entry_date":      m.EntryDate,
		"age":             m.Age,
		"pay":             m.Pay,
		"role":            m.Role,
		"hashed_password": m.HashedPassword,
		"updated_at":      now,
	})
	if res.Error != nil {
		return translateWriteError(res.Error, "failed to update employee")
	}
	if res.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}

	e.UpdatedAt = now
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&EmployeeModel{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "failed to delete employee")
	}
	if res.RowsAffected == 0 {
		return domain.ErrEmployeeNotFound
	}
	return nil
}

func translateWriteError(err error, msg string) error {
	switch {
	case isUniqueConstraintViolation(err):
		return domain.ErrEmployeeExists
	case isCheckConstraintViolation(err):
		return fmt.Errorf("%w: pay must be greater than or equal to 0", domain.ErrValidation)
	default:
		return errors.Wrap(err, msg)
	}
}
