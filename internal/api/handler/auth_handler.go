package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cagataysunal/payroll-manager/internal/api/metrics"
	"github.com/cagataysunal/payroll-manager/internal/core/domain"
	"github.com/cagataysunal/payroll-manager/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	now         func() time.Time
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, now: time.Now}
}

// Token exchanges an email and password for a bearer token.
//
// @Summary      Issue an access token
// @Description  OAuth2 password flow. The username field carries the employee email.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Accept       json
// @Produce      json
// @Param        username  formData  string  true  "Employee email"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  tokenResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	access, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		} else {
			metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}
	metrics.LoginAttemptsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	expiresIn := int64(access.ExpiresAt.Sub(h.now()).Round(time.Second) / time.Second)
	if expiresIn < 0 {
		expiresIn = 0
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: access.Token,
		TokenType:   access.TokenType,
		ExpiresIn:   expiresIn,
	})
}
