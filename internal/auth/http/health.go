package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

// Pinger is the readiness dependency; store.Store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

const readyzTimeout = 2 * time.Second

// HealthHandler serves the orchestrator probes.
type HealthHandler struct {
	Started time.Time
	Version string
	DB      Pinger
}

// Livez godoc
//
//	@Summary		Liveness
//	@Description	Always 200 while the process serves HTTP. Does not touch the database.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func (h *HealthHandler) Livez(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.report("ok", nil))
}

// Readyz godoc
//
//	@Summary		Readiness
//	@Description	200 when the database answers a ping within two seconds, 503 otherwise.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"database unreachable"
//	@Router			/readyz [get].
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		slogx.FromContext(r.Context()).Warn("readiness ping failed", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusServiceUnavailable,
			h.report("degraded", &authsdk.HealthChecks{Database: "unreachable"}))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.report("ok", &authsdk.HealthChecks{Database: "ok"}))
}

func (h *HealthHandler) report(status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(h.Started).Round(time.Second).String(),
		Version: h.Version,
		Checks:  checks,
	}
}
