package middleware

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hrmanager/hrm-api/internal/api/handler"
	"github.com/hrmanager/hrm-api/internal/api/metrics"
)

// Metrics records request count, latency and sizes per registered route as
// hrm_http_*. Collectors are registered on reg; a nil reg means the default
// registry.
func Metrics(reg prometheus.Registerer) echo.MiddlewareFunc {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 metrics.Namespace,
		Subsystem:                 metrics.HTTPSubsystem,
		Registerer:                reg,
		DoNotUseRequestPathFor404: true,
		StatusCodeResolver:        responseStatus,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

// responseStatus reports the status the central error handler will write,
// since it has not run yet when the middleware observes the error.
func responseStatus(c echo.Context, err error) int {
	if err != nil {
		status, _, _ := handler.Classify(err)
		return status
	}
	return c.Response().Status
}
