package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

// writeServiceError maps a service error to its response. Anything
// unrecognised is logged and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidInvite):
		authsdk.ErrInvalidInvite.WriteError(w)
	case errors.Is(err, service.ErrUserExists):
		authsdk.ErrUserExists.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrValidation):
		(&authsdk.ValidationError{Message: err.Error()}).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
