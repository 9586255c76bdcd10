package httpx

import (
	"context"
	"net/http"
)

// Authorizer decides whether the principal in ctx may proceed.
type Authorizer func(ctx context.Context) error

// AuthzMiddleware runs authz after authentication. A nil onError answers
// every refusal with a 403.
func AuthzMiddleware(authz Authorizer, onError ErrorWriter) Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			WriteJSON(w, http.StatusForbidden, ErrorBody{
				Error:            "forbidden",
				ErrorDescription: "insufficient privileges",
			})
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz(r.Context()); err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
