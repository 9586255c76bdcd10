package http

import (
	"net/http"

	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
)

// RootHandler godoc
//
//	@Summary		Service Banner
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"message"
//	@Router			/ [get].
func RootHandler(name string) http.HandlerFunc {
	msg := authsdk.MessageResponse{Message: name + " API is running"}
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, msg)
	}
}
