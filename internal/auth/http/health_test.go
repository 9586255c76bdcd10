package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhttp "github.com/aussiebroadwan/invitegate/internal/auth/http"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadyz_DatabaseDown(t *testing.T) {
	h := &authhttp.HealthHandler{
		Started: time.Now(),
		Version: "v-test",
		DB:      pingFunc(func(context.Context) error { return errors.New("dial tcp 10.0.0.5:5432: refused") }),
	}

	rec := httptest.NewRecorder()
	h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var health authsdk.HealthResponse
	decode(t, rec, &health)
	require.Equal(t, "degraded", health.Status)
	require.Equal(t, "unreachable", health.Checks.Database)
	require.NotContains(t, rec.Body.String(), "10.0.0.5", "driver errors stay in the logs")
}

func TestLivez_NoDatabase(t *testing.T) {
	h := &authhttp.HealthHandler{Started: time.Now(), Version: "v-test"}

	rec := httptest.NewRecorder()
	h.Livez(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health authsdk.HealthResponse
	decode(t, rec, &health)
	require.Equal(t, "v-test", health.Version)
	require.Nil(t, health.Checks)
}
