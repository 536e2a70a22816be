package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	profiles store.Profiles
	sessions store.Sessions

	AuthService    *service.AuthService
	ProfileService *service.ProfileService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	profiles store.Profiles,
	sessions store.Sessions,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		profiles:     profiles,
		sessions:     sessions,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerProfiles()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	Registration, login and profile management backed by server-side sessions.
//	@description
//	@description	Session tokens are opaque and travel in the JSON body as "token".
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/accounts
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	// POST /v1/register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{AuthService: r.AuthService}
	r.Mux.Handle("/v1/register",
		httpx.Chain(registerHandler,
			httpx.AllowMethods(http.MethodPost),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /v1/login - strict rate limit by IP for password attempts,
	// moderate for validate_session and logout
	loginHandler := &LoginHandler{
		AuthService:   r.AuthService,
		PasswordLimit: httpx.RateLimitByIP(httpx.StrictLimit),
		SessionLimit:  httpx.RateLimitByIP(httpx.ModerateLimit),
	}
	r.Mux.Handle("/v1/login",
		httpx.Chain(loginHandler,
			httpx.AllowMethods(http.MethodPost),
		),
	)
}

func (r *Router) registerProfiles() {
	// POST /v1/profile - moderate rate limit by IP
	h := &ProfileHandler{
		AuthService:    r.AuthService,
		ProfileService: r.ProfileService,
	}
	r.Mux.Handle("/v1/profile",
		httpx.Chain(h,
			httpx.AllowMethods(http.MethodPost),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.profiles, r.sessions),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
