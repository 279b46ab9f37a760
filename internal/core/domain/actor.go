package domain

import (
	"context"
	"time"
)

// Actor is the authenticated caller resolved from a verified token.
type Actor struct {
	UserID    string
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool { return a != nil && a.Role == RoleAdmin }

type actorKey struct{}

// WithActor returns a copy of ctx carrying the actor.
func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor attached by the authorization gate, if any.
func ActorFrom(ctx context.Context) (*Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(*Actor)
	return a, ok && a != nil
}
