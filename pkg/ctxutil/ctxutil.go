package ctxutil

import "context"

type ctxKey string

const (
	actorIDKey   ctxKey = "actor_id"
	requestIDKey ctxKey = "request_id"
)

// WithActorID stores the pre-verified actor identifier in the context.
// The identifier is issued by the upstream identity provider; nothing in
// this service validates it beyond a role lookup.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorIDKey, id)
}

// ActorIDFromCtx extracts the actor identifier from the context.
// Returns "" and false if the value is missing, empty, or the wrong type.
func ActorIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
