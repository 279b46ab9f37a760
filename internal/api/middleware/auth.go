package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrmanager/hrm-api/internal/api/handler"
	"github.com/hrmanager/hrm-api/internal/api/metrics"
	"github.com/hrmanager/hrm-api/internal/core/domain"
	"github.com/hrmanager/hrm-api/internal/core/ports"
)

// Auth resolves the bearer token into an actor and attaches it to the request
// context. Every way a token can be wrong ends in the same
// domain.ErrUnauthenticated, and the next handler does not run.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject()
			}

			actor, err := verifier.Verify(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					return reject()
				}
				// the session store is down; not the caller's fault
				return err
			}

			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithActor(req.Context(), actor)))
			c.Set(handler.ActorKey, actor)

			return next(c)
		}
	}
}

func reject() error {
	metrics.AuthRejectionsTotal.WithLabelValues("unauthenticated").Inc()
	return domain.ErrUnauthenticated
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
