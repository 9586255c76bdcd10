package http

import (
	"net/http"

	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
)

type InviteHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Issue Invitation
//	@Description	Create an invite bound to an email, or reissue it with a fresh token. Reissuing invalidates the previous link. Admin only.
//	@Tags			Invitations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.InviteRequest			true	"Invite request"
//	@Success		200		{object}	authsdk.InviteResponse			"invite_link"
//	@Failure		400		{object}	authsdk.ValidationErrorResponse	"code, message, details"
//	@Failure		401		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	authsdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/admin/invite [post].
func (h *InviteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.InviteRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Invalid JSON body").WriteError(w)
		return
	}
	if verr := authsdk.NewValidationError(req.Validate()); verr != nil {
		verr.WriteError(w)
		return
	}

	issued, err := h.InviteService.IssueInvite(ctx, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.InviteResponse{InviteLink: issued.Link})
}
