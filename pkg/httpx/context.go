package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeyPrincipal ctxKey = "principal" // whatever the Authenticator resolved
)

// WithPrincipal stores the authenticated principal and its identifier.
func WithPrincipal(ctx context.Context, userID string, principal any) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	return context.WithValue(ctx, CtxKeyPrincipal, principal)
}

// PrincipalFromContext returns the principal set by AuthnMiddleware.
func PrincipalFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(CtxKeyPrincipal).(T)
	return v, ok
}

// UserIDFromContext returns the authenticated user id, or "" if none.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyUserID).(string)
	return id
}
