package domain

import "context"

type actorKey struct{}

// WithActor records the authenticated username on ctx.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFromContext returns the authenticated username, if any.
func ActorFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(actorKey{}).(string)
	return username, ok && username != ""
}
