package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/service"
	"github.com/homeeasy/portal/internal/portal/store"
	"github.com/homeeasy/portal/pkg/coreapi"
	"github.com/homeeasy/portal/pkg/httpx"
	"github.com/homeeasy/portal/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	Core     *coreapi.Client
	Sessions *service.SessionService
	Shells   *service.ShellManager
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Request logging first, then the popup-compatibility gate so the
	// relaxed opener policy lands on every response for the auth pages.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.PopupCompat(domain.AuthPagePaths...),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerShellAPI()
	r.registerPages()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Core: r.Core, Sessions: r.Sessions, Shells: r.Shells}

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerShellAPI() {
	guard := &Guard{Sessions: r.Sessions, Shells: r.Shells}
	h := &ShellHandler{Shells: r.Shells}

	secured := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			guard.API,
			httpx.RateLimitByIP(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/portal/session", secured(h.HandleSession))
	r.Mux.Handle("GET /v1/portal/navigation", secured(h.HandleNavigation))
	r.Mux.Handle("GET /v1/portal/notifications/unread", secured(h.HandleUnread))
	r.Mux.Handle("POST /v1/portal/notifications/refresh", secured(h.HandleRefreshUnread))
	r.Mux.Handle("GET /v1/portal/shell", secured(h.HandleState))
	r.Mux.Handle("POST /v1/portal/shell/menu/{kind}/toggle", secured(h.HandleMenuToggle))
	r.Mux.Handle("POST /v1/portal/shell/pointer", secured(h.HandlePointer))
	r.Mux.Handle("POST /v1/portal/shell/select", secured(h.HandleSelect))
}

func (r *Router) registerPages() {
	guard := &Guard{Sessions: r.Sessions, Shells: r.Shells}

	// Public auth pages. The COOP gate in the global chain relaxes the
	// opener policy on exactly these three paths.
	r.Mux.Handle("GET "+domain.PathLogin, AuthPageHandler("Sign in", "login"))
	r.Mux.Handle("GET "+domain.PathRegister, AuthPageHandler("Create account", "register"))
	r.Mux.Handle("GET "+domain.PathForgotPassword, AuthPageHandler("Reset password", "forgot-password"))

	// Guarded portal sections. Each section registers both the bare path
	// and its subtree so nested detail pages hit the same guard.
	shellPage := guard.Page(&ShellPageHandler{Shells: r.Shells})

	sections := []string{
		domain.PathDashboard,
		"/properties", "/rooms", "/tenants", "/invoices", "/payments",
		"/maintenance", "/invites", "/contract",
		"/notifications", "/settings",
	}
	for _, section := range sections {
		r.Mux.Handle("GET "+section, shellPage)
		r.Mux.Handle("GET "+section+"/", shellPage)
	}

	// The root resolves to the dashboard for signed-in users, the login
	// page otherwise. The guard supplies the latter redirect.
	r.Mux.Handle("GET /{$}", guard.Page(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		httpx.RedirectReplace(w, req, domain.PathDashboard)
	})))
}

func (r *Router) registerSystem() {
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
