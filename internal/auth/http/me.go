package http

import (
	"net/http"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
)

// MeHandler reports the user resolved by the authentication middleware.
type MeHandler struct{}

// ServeHTTP godoc
//
//	@Summary		Current User
//	@Description	Returns the profile of the user the bearer token belongs to. Role and status are read from the database on every call.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"id, name, email, role, is_active"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Token names a user that does not exist"
//	@Router			/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := httpx.PrincipalFromContext[domain.User](r.Context())
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role.String(),
		IsActive: user.IsActive,
	})
}
