package wizard

import "context"

type callerKey struct{}

// WithCaller tags ctx with the authenticated user on whose behalf a wizard
// call is made. A draft only answers to its owner; load rejects everyone else.
func WithCaller(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

func callerID(ctx context.Context) string {
	v, _ := ctx.Value(callerKey{}).(string)
	return v
}
