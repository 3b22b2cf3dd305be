package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (*ports.AccessToken, error)
}

func (s *stubAuthService) Authenticate(context.Context, string, string) (*domain.Employee, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AccessToken, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Resolve(context.Context, string) (*domain.Employee, error) {
	return nil, errors.New("not used")
}

func (s *stubAuthService) Authorize(employee *domain.Employee, _ ...domain.Role) (*domain.Employee, error) {
	return employee, nil
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func fixedNow() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

func newTokenHandler(stub *stubAuthService) *AuthHandler {
	h := NewAuthHandler(stub)
	h.now = fixedNow
	return h
}

func okLogin(t *testing.T) *stubAuthService {
	return &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.AccessToken, error) {
			if email != "alice@x.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AccessToken{Token: "token123", TokenType: "bearer", ExpiresAt: fixedNow().Add(time.Hour)}, nil
		},
	}
}

func TestAuthHandler_Token_Form(t *testing.T) {
	e := newTestEcho()
	handler := newTokenHandler(okLogin(t))

	form := url.Values{"username": {"alice@x.com"}, "password": {"secret"}, "grant_type": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp["expires_in"] != float64(3600) {
		t.Fatalf("expected expires_in 3600, got %v", resp["expires_in"])
	}
	if rec.Header().Get(echo.HeaderCacheControl) != "no-store" {
		t.Fatalf("token responses must not be cached")
	}
}

func TestAuthHandler_Token_JSON(t *testing.T) {
	e := newTestEcho()
	handler := newTokenHandler(okLogin(t))

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(`{"username":"alice@x.com","password":"secret"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Token(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Token_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	handler := newTokenHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AccessToken, error) {
			return nil, domain.ErrInvalidCredentials
		},
	})

	form := url.Values{"username": {"alice@x.com"}, "password": {"bad"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler.Token(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Token_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := newTokenHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AccessToken, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	form := url.Values{"username": {"alice@x.com"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler.Token(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if !strings.Contains(he.Message.(string), "password is required") {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuthHandler_Token_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	handler := newTokenHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.AccessToken, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler.Token(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
