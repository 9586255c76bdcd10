package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

// Authenticator resolves a bearer token into a request context carrying the
// caller's identity (see WithPrincipal).
type Authenticator func(ctx context.Context, token string) (context.Context, error)

// ErrorWriter renders a failure produced by an Authenticator or Authorizer.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// AuthnMiddleware requires an "Authorization: Bearer" header and hands the
// token to authn. A nil onError answers every failure with a 401.
func AuthnMiddleware(authn Authenticator, onError ErrorWriter) Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, _ error) {
			WriteBearerError(w, "token verification failed")
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				WriteBearerError(w, "missing bearer token")
				return
			}

			ctx, err := authn(ctx, raw)
			if err != nil {
				log.Warn("bearer authentication failed", "err", err)
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// WriteBearerError sends an RFC 6750 invalid_token challenge with a JSON body.
func WriteBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, ErrorBody{Error: "invalid_token", ErrorDescription: desc})
}
