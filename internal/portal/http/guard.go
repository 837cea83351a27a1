package http

import (
	"context"
	"net/http"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/service"
	"github.com/homeeasy/portal/pkg/httpx"
	"github.com/homeeasy/portal/pkg/slogx"
)

type contextKey int

const sessionContextKey contextKey = iota

// SessionFromContext returns the session the guard resolved for this
// request. The zero session means the guard did not run (public route).
func SessionFromContext(ctx context.Context) domain.Session {
	sess, _ := ctx.Value(sessionContextKey).(domain.Session)
	return sess
}

func withSession(ctx context.Context, sess domain.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// Guard resolves the request's session exactly once and gates access.
// Requests start in the loading state and settle to exactly one terminal
// state before a single byte of protected content is written.
type Guard struct {
	Sessions *service.SessionService
	Shells   *service.ShellManager
}

// resolve settles the tri-state for one request.
func (g *Guard) resolve(r *http.Request) (domain.Session, domain.AuthState) {
	state := domain.AuthLoading

	sess, err := g.Sessions.Resolve(r.Context(), r)
	if err != nil {
		// Store failure: the caller is indistinguishable from signed-out,
		// and the guard must still settle.
		slogx.FromContext(r.Context()).Error("session resolution failed", "error", err)
		sess = domain.Session{}
	}

	if sess.Authenticated() {
		state = domain.AuthAuthenticated
	} else {
		state = domain.AuthUnauthenticated
	}
	return sess, state
}

// Page guards a browser page route. Signed-out callers get one 303
// replace-redirect to the login page; tenants landing on a landlord-only
// section get one to the dashboard. On success the session's shell is
// mounted (first request) and told about the navigation.
func (g *Guard) Page(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, state := g.resolve(r)

		if state != domain.AuthAuthenticated {
			httpx.RedirectReplace(w, r, domain.PathLogin)
			return
		}

		if sess.User.Role != domain.RoleLandlord && domain.IsLandlordOnly(r.URL.Path) {
			slogx.FromContext(r.Context()).Info("blocked landlord-only route",
				"path", r.URL.Path, "role", sess.User.Role)
			httpx.RedirectReplace(w, r, domain.PathDashboard)
			return
		}

		sh := g.Shells.Ensure(sess, r.URL.Path)
		sh.RouteChanged(r.URL.Path)

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

// API guards a shell API route. The shell API is called from scripts, so
// a signed-out caller gets a JSON 401 rather than a redirect. Role gating
// does not apply here; the API exposes no landlord-only data beyond what
// the navigator already filters.
func (g *Guard) API(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, state := g.resolve(r)

		if state != domain.AuthAuthenticated {
			httpx.WriteError(w, http.StatusUnauthorized,
				"unauthenticated", "sign in to use the portal API")
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}
