package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cagataysunal/payroll-manager/internal/api/metrics"
	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

// ContextKeyEmployee holds the *domain.Employee resolved by Auth.
const ContextKeyEmployee = "employee"

// Auth resolves the bearer token into the calling employee and stores it in
// the echo context. Every failure is domain.ErrUnauthorized.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenRejectionsTotal.Inc()
				return domain.ErrUnauthorized
			}

			employee, err := auth.Resolve(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					metrics.TokenRejectionsTotal.Inc()
				}
				return err
			}

			c.Set(ContextKeyEmployee, employee)
			return next(c)
		}
	}
}

// EmployeeFrom returns the employee stored by Auth.
func EmployeeFrom(c echo.Context) (*domain.Employee, bool) {
	employee, ok := c.Get(ContextKeyEmployee).(*domain.Employee)
	return employee, ok && employee != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
