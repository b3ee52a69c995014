package actorcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Actor is the authenticated caller attached to a request context.
type Actor struct {
	UserID snowflake.ID
	Name   string
	Email  string
	Role   string
}

type actorContextKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// FromContext returns the actor from context, if set.
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	if !ok || actor.UserID == 0 {
		return Actor{}, false
	}
	return actor, true
}
