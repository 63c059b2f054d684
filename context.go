package sessionguard

import "context"

type currentPathKey struct{}

// WithCurrentPath records the navigation path the actor is currently on.
// The gate reads it to build return paths for login challenges; without it
// the API path of the outgoing request is used instead.
func WithCurrentPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, currentPathKey{}, path)
}

// CurrentPathFromContext returns the navigation path recorded with
// [WithCurrentPath], or "".
func CurrentPathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(currentPathKey{}).(string); ok {
		return v
	}
	return ""
}
