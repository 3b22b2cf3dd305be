package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// RBAC lets the request through when the employee resolved by Auth holds one
// of allowedRoles. No roles means any authenticated employee.
func RBAC(auth ports.AuthService, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			employee, _ := EmployeeFrom(c)
			if _, err := auth.Authorize(employee, allowedRoles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
