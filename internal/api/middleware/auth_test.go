package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

type stubAuthService struct {
	resolveFn func(ctx context.Context, token string) (*domain.Employee, error)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (*domain.Employee, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.AccessToken, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) Resolve(ctx context.Context, token string) (*domain.Employee, error) {
	return s.resolveFn(ctx, token)
}

// Authorize mirrors the real role check so RBAC can be tested end to end.
func (s *stubAuthService) Authorize(employee *domain.Employee, allowed ...domain.Role) (*domain.Employee, error) {
	if employee == nil {
		return nil, domain.ErrUnauthorized
	}
	if !employee.Role.In(allowed) {
		return nil, domain.ErrForbidden
	}
	return employee, nil
}

func resolveOnly(valid string, employee *domain.Employee) *stubAuthService {
	return &stubAuthService{
		resolveFn: func(_ context.Context, token string) (*domain.Employee, error) {
			if token != valid {
				return nil, domain.ErrUnauthorized
			}
			return employee, nil
		},
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	alice := &domain.Employee{ID: 1, Email: "alice@x.com", Role: domain.RoleManager}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(resolveOnly("good-token", alice))(func(c echo.Context) error {
		called = true
		got, ok := EmployeeFrom(c)
		if !ok || got != alice {
			t.Fatalf("employee not set in context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(resolveOnly("good-token", &domain.Employee{ID: 1}))(func(c echo.Context) error {
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	tests := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token good-token",
		"empty token":     "Bearer ",
		"no separator":    "Bearergood-token",
		"invalid token":   "Bearer not-a-token",
		"basic auth only": "Basic YTpi",
	}

	for name, header := range tests {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		handler := Auth(resolveOnly("good-token", &domain.Employee{ID: 1}))(func(c echo.Context) error {
			t.Fatalf("%s: should not reach next", name)
			return nil
		})

		if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("%s: expected ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestAuthMiddleware_StoreErrorPropagates(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	boom := errors.New("connection reset")
	stub := &stubAuthService{
		resolveFn: func(context.Context, string) (*domain.Employee, error) { return nil, boom },
	}
	handler := Auth(stub)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
