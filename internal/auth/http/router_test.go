package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	authhttp "github.com/aussiebroadwan/invitegate/internal/auth/http"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
	"github.com/aussiebroadwan/invitegate/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "Admin1Pass!"
	userPassword  = "Valid1Pass!"
)

type testServer struct {
	router    *authhttp.Router
	codec     *jwtx.Codec
	provision *service.ProvisioningService
}

// relaxLimits raises every rate limit profile for the duration of the test.
func relaxLimits(t *testing.T) {
	t.Helper()
	saved := []httpx.RateLimitConfig{httpx.StrictLimit, httpx.ModerateLimit, httpx.LenientLimit, httpx.PublicLimit}
	wide := httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}
	httpx.StrictLimit, httpx.ModerateLimit, httpx.LenientLimit, httpx.PublicLimit = wide, wide, wide, wide
	t.Cleanup(func() {
		httpx.StrictLimit, httpx.ModerateLimit, httpx.LenientLimit, httpx.PublicLimit =
			saved[0], saved[1], saved[2], saved[3]
	})
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := jwtx.NewCodec([]byte("router-test-secret"), "HS256")
	require.NoError(t, err)
	hasher := cryptox.NewBcryptHasher(bcrypt.MinCost)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := authhttp.NewRouter("test", st, logger)
	r.InviteService = &service.InviteService{Store: st, Hasher: hasher, SignupURL: "http://127.0.0.1:8080/signup"}
	r.SessionService = &service.SessionService{Store: st, Hasher: hasher, Codec: codec, TokenTTL: time.Hour}
	r.ApplyRoutes()

	provision := &service.ProvisioningService{Store: st, Hasher: hasher}
	_, err = provision.CreateAdmin(context.Background(), domain.AdminAccount{
		Email: adminEmail, Name: "Admin", Password: adminPassword,
	})
	require.NoError(t, err)

	return &testServer{router: r, codec: codec, provision: provision}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) postJSON(t *testing.T, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return s.do(t, req)
}

func (s *testServer) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *testServer) get(t *testing.T, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return s.do(t, req)
}

func (s *testServer) token(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.login(t, email, password)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var tok authsdk.TokenResponse
	decode(t, rec, &tok)
	return tok.AccessToken
}

// invite issues an invite as admin and returns the raw token from the link.
func (s *testServer) invite(t *testing.T, email string) string {
	t.Helper()
	rec := s.postJSON(t, "/admin/invite", s.token(t, adminEmail, adminPassword), authsdk.InviteRequest{Email: email})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out authsdk.InviteResponse
	decode(t, rec, &out)
	link, err := url.Parse(out.InviteLink)
	require.NoError(t, err)
	return link.Query().Get("token")
}

func (s *testServer) signup(t *testing.T, email, token string) *httptest.ResponseRecorder {
	t.Helper()
	return s.postJSON(t, "/signup", "", authsdk.SignupRequest{
		Name: "Bob", Email: email, Password: userPassword, Token: token,
	})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body authsdk.ErrorResponse
	decode(t, rec, &body)
	return body.Error
}

func TestRoot(t *testing.T) {
	relaxLimits(t)
	s := newTestServer(t)

	rec := s.get(t, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var msg authsdk.MessageResponse
	decode(t, rec, &msg)
	require.Equal(t, "invitegate API is running", msg.Message)

	require.Equal(t, http.StatusNotFound, s.get(t, "/nope", "").Code)
}

func TestHealth(t *testing.T) {
	relaxLimits(t)
	s := newTestServer(t)

	rec := s.get(t, "/livez", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.get(t, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var health authsdk.HealthResponse
	decode(t, rec, &health)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}

func TestRequestIDEchoed(t *testing.T) {
	relaxLimits(t)
	s := newTestServer(t)

	rec := s.get(t, "/livez", "")
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAdminInvite(t *testing.T) {
	relaxLimits(t)
	s := newTestServer(t)
	adminToken := s.token(t, adminEmail, adminPassword)

	t.Run("requires bearer token", func(t *testing.T) {
		rec := s.postJSON(t, "/admin/invite", "", authsdk.InviteRequest{Email: "bob@example.com"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("rejects non-admin", func(t *testing.T) {
		token := s.invite(t, "carol@example.com")
		require.Equal(t, http.StatusCreated, s.signup(t, "carol@example.com", token).Code)
		userToken := s.token(t, "carol@example.com", userPassword)

		rec := s.postJSON(t, "/admin/invite", userToken, authsdk.InviteRequest{Email: "bob@example.com"})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, authsdk.ErrorCodeForbidden, errorCode(t, rec))
	})

	t.Run("issues link", func(t *testing.T) {
		rec := s.postJSON(t, "/admin/invite", adminToken, authsdk.InviteRequest{Email: "bob@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)

		var out authsdk.InviteResponse
		decode(t, rec, &out)
		require.True(t, strings.HasPrefix(out.InviteLink, "http://127.0.0.1:8080/signup?token="))
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := s.postJSON(t, "/admin/invite", adminToken, authsdk.InviteRequest{Email: "nope"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body authsdk.ValidationErrorResponse
		decode(t, rec, &body)
		require.Equal(t, authsdk.ErrorCodeValidation, body.Code)
		require.Contains(t, body.Details, "email")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/invite", strings.NewReader("{"))
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := s.do(t, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidRequest, errorCode(t, rec))
	})
}

func TestSignup(t *testing.T) {
	relaxLimits(t)
	s := newTestServer(t)

	t.Run("creates account once", func(t *testing.T) {
		token := s.invite(t, "bob@example.com")

		rec := s.signup(t, "bob@example.com", token)
		require.Equal(t, http.StatusCreated, rec.Code)
		var out authsdk.SignupResponse
		decode(t, rec, &out)
		require.Equal(t, "Account created successfully", out.Message)
		require.NotZero(t, out.UserID)

		rec = s.signup(t, "bob@example.com", token)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidInvite, errorCode(t, rec))
	})

	t.Run("email mismatch", func(t *testing.T) {
		token := s.invite(t, "dave@example.com")
		rec := s.signup(t, "mallory@example.com", token)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidInvite, errorCode(t, rec))
	})

	t.Run("existing user", func(t *testing.T) {
		token := s.invite(t, adminEmail)
		rec := s.signup(t, adminEmail, token)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeUserExists, errorCode(t, rec))
	})

	t.Run("weak password", func(t *testing.T) {
		token := s.invite(t, "erin@example.com")
		rec := s.postJSON(t, "/signup", "", authsdk.SignupRequest{
			Name: "Erin", Email: "erin@example.com", Password: "NoSpecial1", Token: token,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body authsdk.ValidationErrorResponse
		decode(t, rec, &body)
		require.Equal(t, authsdk.ErrorCodeValidation, body.Code)
		require.Contains(t, body.Details["password"], "@$!%*?&")

		// The invite survives a rejected attempt.
		require.Equal(t, http.StatusCreated, s.signup(t, "erin@example.com", token).Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		rec := s.signup(t, "frank@example.com", "not-a-real-token")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidInvite, errorCode(t, rec))
	})

	t.Run("trailing data", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":"x"}{"name":"y"}`))
		rec := s.do(t, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidRequest, errorCode(t, rec))
	})
}

func TestLogin(t *testing.T) {
	relaxLimits(t)
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.signup(t, "bob@example.com", s.invite(t, "bob@example.com")).Code)

	t.Run("success", func(t *testing.T) {
		rec := s.login(t, "bob@example.com", userPassword)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		var tok authsdk.TokenResponse
		decode(t, rec, &tok)
		require.Equal(t, "bearer", tok.TokenType)
		require.Equal(t, 3600, tok.ExpiresIn)

		claims, err := s.codec.Decode(tok.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "bob@example.com", claims.Subject)
	})

	t.Run("failures are indistinguishable", func(t *testing.T) {
		wrong := s.login(t, "bob@example.com", "Wrong1Pass!")
		unknown := s.login(t, "ghost@example.com", userPassword)

		require.Equal(t, http.StatusUnauthorized, wrong.Code)
		require.Equal(t, http.StatusUnauthorized, unknown.Code)
		require.Equal(t, wrong.Body.String(), unknown.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := s.login(t, "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body authsdk.ValidationErrorResponse
		decode(t, rec, &body)
		require.Contains(t, body.Details, "username")
		require.Contains(t, body.Details, "password")
	})
}

func TestMe(t *testing.T) {
	relaxLimits(t)
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.signup(t, "bob@example.com", s.invite(t, "bob@example.com")).Code)
	token := s.token(t, "bob@example.com", userPassword)

	t.Run("profile", func(t *testing.T) {
		rec := s.get(t, "/me", token)
		require.Equal(t, http.StatusOK, rec.Code)

		var me authsdk.UserResponse
		decode(t, rec, &me)
		require.Equal(t, "Bob", me.Name)
		require.Equal(t, "bob@example.com", me.Email)
		require.Equal(t, "user", me.Role)
		require.True(t, me.IsActive)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := s.get(t, "/me", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, authsdk.ErrorCodeInvalidToken, errorCode(t, rec))
	})

	t.Run("tampered token", func(t *testing.T) {
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		rec := s.get(t, "/me", tampered)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
	})

	t.Run("user missing from store", func(t *testing.T) {
		ghost, err := s.codec.Encode("ghost@example.com", 999, "admin", time.Minute)
		require.NoError(t, err)

		rec := s.get(t, "/me", ghost)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, authsdk.ErrorCodeUserNotFound, errorCode(t, rec))
	})

	t.Run("role change applies to existing token", func(t *testing.T) {
		rec := s.postJSON(t, "/admin/invite", token, authsdk.InviteRequest{Email: "new@example.com"})
		require.Equal(t, http.StatusForbidden, rec.Code)

		_, err := s.provision.SetRole(context.Background(), "bob@example.com", domain.RoleAdmin)
		require.NoError(t, err)

		rec = s.postJSON(t, "/admin/invite", token, authsdk.InviteRequest{Email: "new@example.com"})
		require.Equal(t, http.StatusOK, rec.Code)

		var me authsdk.UserResponse
		decode(t, s.get(t, "/me", token), &me)
		require.Equal(t, "admin", me.Role)
	})
}

func TestLoginRateLimited(t *testing.T) {
	relaxLimits(t)
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 2, Window: time.Hour, Burst: 2}
	s := newTestServer(t)

	for range 2 {
		require.Equal(t, http.StatusUnauthorized, s.login(t, "ghost@example.com", "Wrong1Pass!").Code)
	}
	rec := s.login(t, "ghost@example.com", "Wrong1Pass!")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Another username from the same address has its own bucket.
	require.Equal(t, http.StatusUnauthorized, s.login(t, "other@example.com", "Wrong1Pass!").Code)
}
