package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/abdurmasood/rafeyxmunisah/internal/auth/service"
	"github.com/abdurmasood/rafeyxmunisah/internal/auth/store"
	"github.com/abdurmasood/rafeyxmunisah/pkg/httpx"
	"github.com/abdurmasood/rafeyxmunisah/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion   string
	provisionToken string
	startTime      time.Time
	logger         *slog.Logger

	store store.Store

	LoginService *service.LoginService
	UserService  *service.UserService
}

func NewRouter(
	buildVersion, provisionToken string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		provisionToken: provisionToken,
		startTime:      time.Now(),
		store:          st,
		logger:         logger,
	}

	// Default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	loginHandler := &LoginHandler{LoginService: r.LoginService}

	// POST /login - strict rate limit by IP + username from the JSON body to
	// slow brute force against a single account without letting one attacker
	// lock out an IP range.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	// POST /logout - the session lives client-side; this only acknowledges.
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(LogoutHandler(),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{
		UserService:    r.UserService,
		ProvisionToken: r.provisionToken,
	}

	// GET /users - public listing for the login-page user picker.
	r.Mux.Handle("GET /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// GET /users/{id} - resolve a session's user id back to a live account.
	r.Mux.Handle("GET /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleGet),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /users - provisioning, guarded by the pre-shared token header.
	r.Mux.Handle("POST /v1/users",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// PATCH/DELETE /users/{id} - account management, same token guard.
	r.Mux.Handle("PATCH /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleUpdate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health probes - lenient limits, monitoring systems poll these.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
