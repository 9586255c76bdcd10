package http

import (
	"net/http"

	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Exchange email and password for a bearer access token. Unknown emails and wrong passwords produce the same response.
//	@Tags			Session
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Account email"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	authsdk.TokenResponse	"access_token, token_type, expires_in"
//	@Failure		400			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Failure		401			{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Failure		500			{object}	authsdk.ErrorResponse	"error, error_description"
//	@Router			/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Invalid form data").WriteError(w)
		return
	}

	req := authsdk.LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}
	if verr := authsdk.NewValidationError(req.Validate()); verr != nil {
		verr.WriteError(w)
		return
	}

	tok, err := h.SessionService.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: tok.Token,
		TokenType:   tok.TokenType,
		ExpiresIn:   int(tok.ExpiresIn.Seconds()),
	})
}
