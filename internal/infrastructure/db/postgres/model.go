package postgres

import (
	"time"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
)

const payCheckConstraint = "chk_employee_pay_non_negative"

// EmployeeModel mirrors the 'employee' table.
type EmployeeModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name           string    `gorm:"type:varchar(255);not null"`
	EntryDate      time.Time `gorm:"type:date;not null"`
	Age            *int      `gorm:"index"`
	Pay            float64   `gorm:"not null;check:chk_employee_pay_non_negative,pay >= 0"`
	Role           string    `gorm:"type:varchar(16);not null;default:EMPLOYEE"`
	HashedPassword string    `gorm:"column:hashed_password;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (EmployeeModel) TableName() string {
	return "employee"
}

func fromEmployeeDomain(e *domain.Employee) *EmployeeModel {
	return &EmployeeModel{
		ID:             e.ID,
		Email:          e.Email,
		Name:           e.Name,
		EntryDate:      domain.TruncateDate(e.EntryDate),
		Age:            e.Age,
		Pay:            e.Pay,
		Role:           string(e.Role),
		HashedPassword: e.PasswordHash,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toEmployeeDomain(m *EmployeeModel) *domain.Employee {
	return &domain.Employee{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		EntryDate:    domain.TruncateDate(m.EntryDate),
		Age:          m.Age,
		Pay:          m.Pay,
		Role:         domain.Role(m.Role),
		PasswordHash: m.HashedPassword,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
