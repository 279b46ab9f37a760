package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/hrmanager/hrm-api/internal/api/metrics"
	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

// Authorize asks policy whether the authenticated actor may perform action on
// kind. It must run after Auth.
func Authorize(policy ports.Policy, kind domain.Kind, action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, _ := domain.ActorFrom(c.Request().Context())
			if err := policy.Allow(actor, kind, action); err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}
			return next(c)
		}
	}
}

func rejectionReason(err error) string {
	if errors.Is(err, domain.ErrUnauthenticated) {
		return "unauthenticated"
	}
	return "forbidden"
}
