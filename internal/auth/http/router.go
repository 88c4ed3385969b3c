package http

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/aussiebroadwan/tokenauth/api/auth" // Swagger docs
	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/aussiebroadwan/tokenauth/pkg/httpx"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	registry     *prometheus.Registry

	Sessions *service.SessionService
	Users    *service.UserService
	Cookies  CookieConfig

	// Readiness lists the dependencies /readyz probes, by name.
	Readiness map[string]Pinger
}

func NewRouter(buildVersion string, logger *slog.Logger, registry *prometheus.Registry) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		registry:     registry,
		Readiness:    map[string]Pinger{},
	}

	// Metrics sit innermost so the mux has filled in the matched pattern
	// by the time they read it.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.NewHTTPMetrics(registry).Middleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Token Authentication Service API
//	@version		0.1.0
//	@description	Session service issuing HS256 access tokens with rotating refresh cookies.
//	@description
//	@description				Refresh tokens are never returned in a body; they travel in the HttpOnly refresh_token cookie.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tokenauth
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

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.Sessions, Cookies: r.Cookies}

	r.Mux.HandleFunc("POST /v1/session/sign-in", h.HandleSignIn)
	r.Mux.HandleFunc("GET /v1/session", h.HandleAuthorize)
	r.Mux.HandleFunc("POST /v1/session/refresh", h.HandleRefresh)
	r.Mux.HandleFunc("POST /v1/session/sign-out", h.HandleSignOut)
}

func (r *Router) registerUsers() {
	h := &UserInfoHandler{UserService: r.Users}

	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(h, RequireSession(r.Sessions, r.Cookies)),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.Readiness))
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}
