package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/cagataysunal/payroll-manager/internal/api/metrics"
)

const (
	HeaderIdempotencyKey    = "Idempotency-Key"
	HeaderIdempotentReplay  = "Idempotent-Replayed"
	maxIdempotencyKeyLength = 255

	contextKeyIdempotency = "idempotency_scope"
)

// IdempotencyStore keeps one recorded response per scoped key.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) ([]byte, bool, error)
	Remember(ctx context.Context, key string, data []byte) error
}

type recordedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the first 2xx response recorded for the caller's
// Idempotency-Key. Requests without the header pass through untouched. Store
// failures are logged and the request proceeds as if no key was sent.
func Idempotency(store IdempotencyStore, log zerolog.Logger) echo.MiddlewareFunc {
	record := echomiddleware.BodyDumpWithConfig(echomiddleware.BodyDumpConfig{
		Handler: func(c echo.Context, _, resBody []byte) {
			status := c.Response().Status
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				return
			}
			scope, _ := c.Get(contextKeyIdempotency).(string)
			data, err := json.Marshal(recordedResponse{
				Status:      status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        resBody,
			})
			if err == nil {
				err = store.Remember(c.Request().Context(), scope, data)
			}
			if err != nil {
				log.Warn().Err(err).Msg("failed to record idempotent response")
			}
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		recorded := record(next)
		return func(c echo.Context) error {
			key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
			if key == "" {
				return next(c)
			}
			if len(key) > maxIdempotencyKeyLength {
				return echo.NewHTTPError(http.StatusBadRequest, "idempotency key too long")
			}

			scope := key
			if employee, ok := EmployeeFrom(c); ok {
				scope = employee.Email + ":" + key
			}

			data, found, err := store.Lookup(c.Request().Context(), scope)
			if err != nil {
				log.Warn().Err(err).Msg("idempotency lookup failed")
				return next(c)
			}
			if found {
				var prev recordedResponse
				if err := json.Unmarshal(data, &prev); err == nil {
					metrics.IdempotentReplaysTotal.Inc()
					c.Response().Header().Set(HeaderIdempotentReplay, "true")
					return c.Blob(prev.Status, prev.ContentType, prev.Body)
				}
				log.Warn().Msg("discarding unreadable idempotent response")
			}

			c.Set(contextKeyIdempotency, scope)
			return recorded(c)
		}
	}
}
