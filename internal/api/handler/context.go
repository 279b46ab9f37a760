package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hrmanager/hrm-api/internal/core/domain"
)

// ActorKey is the echo context key the Auth middleware stores the actor under.
const ActorKey = "actor"

// ctxActor returns the actor attached by the Auth middleware. A missing actor
// means the route was registered without the gate; it is reported as
// unauthenticated rather than trusted.
func ctxActor(c echo.Context) (*domain.Actor, error) {
	if actor, ok := c.Get(ActorKey).(*domain.Actor); ok && actor != nil {
		return actor, nil
	}
	if actor, ok := domain.ActorFrom(c.Request().Context()); ok {
		return actor, nil
	}
	return nil, domain.ErrUnauthenticated
}
