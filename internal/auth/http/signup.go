package http

import (
	"net/http"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
)

const signupSuccessMessage = "Account created successfully"

type SignupHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Sign Up With Invite
//	@Description	Redeem an invite token to create an account. The email must match the one the invite was issued to, and each token works once.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.SignupRequest			true	"Signup request"
//	@Success		201		{object}	authsdk.SignupResponse			"message, user_id"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_invite, user_exists or validation_error"
//	@Failure		500		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Router			/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.SignupRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Invalid JSON body").WriteError(w)
		return
	}
	if verr := authsdk.NewValidationError(req.Validate()); verr != nil {
		verr.WriteError(w)
		return
	}

	user, err := h.InviteService.RedeemInvite(ctx, domain.Registration{
		Email:    req.Email,
		Token:    req.Token,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.SignupResponse{
		Message: signupSuccessMessage,
		UserID:  user.ID,
	})
}
