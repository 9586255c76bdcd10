package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/aussiebroadwan/invitegate/pkg/httpx"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"

	_ "github.com/aussiebroadwan/invitegate/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// ServiceName appears in the banner at GET /.
const ServiceName = "invitegate"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	InviteService  *service.InviteService
	SessionService *service.SessionService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInvites()
	r.registerSession()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			invitegate API
//	@version		0.1.0
//	@description	Invite-gated registration and session authentication. Administrators issue single-use invite links bound to an email; invitees sign up with them and log in for an HMAC-signed bearer token.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/invitegate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authenticate resolves the bearer token to a user, re-read from the store.
func (r *Router) authenticate(ctx context.Context, token string) (context.Context, error) {
	user, err := r.SessionService.ResolveIdentity(ctx, token)
	if err != nil {
		return ctx, err
	}
	ctx = slogx.With(ctx, slog.Int64("user_id", user.ID))
	return httpx.WithPrincipal(ctx, strconv.FormatInt(user.ID, 10), user), nil
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.authenticate, writeServiceError)
}

func requireRole(role domain.Role) httpx.Middleware {
	return httpx.AuthzMiddleware(func(ctx context.Context) error {
		user, ok := httpx.PrincipalFromContext[domain.User](ctx)
		if !ok {
			return service.ErrInvalidToken
		}
		_, err := service.RequireRole(user, role)
		return err
	}, writeServiceError)
}

func (r *Router) registerInvites() {
	inviteHandler := &InviteHandler{InviteService: r.InviteService}
	signupHandler := &SignupHandler{InviteService: r.InviteService}

	// POST /admin/invite - moderate rate limit by user (admin operation)
	r.Mux.Handle("POST /admin/invite",
		httpx.Chain(inviteHandler,
			r.authn(),
			requireRole(domain.RoleAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// POST /signup - strict rate limit by IP (invite token guessing)
	r.Mux.Handle("POST /signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSession() {
	// POST /login - strict rate limit by IP + username to slow credential stuffing
	loginHandler := &LoginHandler{SessionService: r.SessionService}
	r.Mux.Handle("POST /login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// GET /me - lenient rate limit by user
	r.Mux.Handle("GET /me",
		httpx.Chain(&MeHandler{},
			r.authn(),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// "GET /{$}" matches only the root, not every unmatched path
	r.Mux.Handle("GET /{$}",
		httpx.Chain(RootHandler(ServiceName),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	// Probes poll often; lenient per-IP limit
	health := &HealthHandler{Started: r.startTime, Version: r.buildVersion, DB: r.store}
	r.Mux.Handle("GET /livez",
		httpx.Chain(http.HandlerFunc(health.Livez),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(http.HandlerFunc(health.Readyz),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
