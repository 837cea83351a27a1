package http

import (
	"encoding/json"
	"net/http"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/menu"
	"github.com/homeeasy/portal/internal/portal/service"
	"github.com/homeeasy/portal/pkg/httpx"
)

// ShellHandler exposes the signed-in page chrome as an API: the resolved
// session, the role-filtered navigation, the unread badge and the menu
// state machines. Every route here sits behind Guard.API.
type ShellHandler struct {
	Shells *service.ShellManager
}

// shell returns the caller's shell, mounting it if the session's first
// request went to the API rather than a page.
func (h *ShellHandler) shell(r *http.Request) *service.Shell {
	sess := SessionFromContext(r.Context())
	return h.Shells.Ensure(sess, domain.PathDashboard)
}

// HandleSession reports who is signed in. The guard has already settled
// the tri-state, so reaching this handler implies "authenticated".
func (h *ShellHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"state": domain.AuthAuthenticated.String(),
		"user":  viewOf(sess.User),
	})
}

// HandleNavigation renders the sidebar for the caller's role and path.
func (h *ShellHandler) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	sh := h.shell(r)

	path := r.URL.Query().Get("path")
	if path == "" {
		path = sh.State().Path
	}

	view := service.BuildNav(sess.User.Role, path, sh.Unread())
	httpx.WriteJSON(w, http.StatusOK, view)
}

// HandleUnread reports the current badge count without forcing a fetch.
func (h *ShellHandler) HandleUnread(w http.ResponseWriter, r *http.Request) {
	sh := h.shell(r)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"unread":  sh.Unread(),
		"badge":   service.BadgeLabel(sh.Unread()),
		"loading": sh.State().UnreadLoading,
	})
}

// HandleRefreshUnread forces an immediate fetch and reports the result.
func (h *ShellHandler) HandleRefreshUnread(w http.ResponseWriter, r *http.Request) {
	sh := h.shell(r)
	count := sh.RefetchUnread(r.Context())
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"unread": count,
		"badge":  service.BadgeLabel(count),
	})
}

// HandleState snapshots the whole shell.
func (h *ShellHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.shell(r).State())
}

// HandleMenuToggle flips one of the two menus.
func (h *ShellHandler) HandleMenuToggle(w http.ResponseWriter, r *http.Request) {
	sh := h.shell(r)

	ctrl, err := sh.Menu(menu.Kind(r.PathValue("kind")))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "unknown_menu", "menu kind must be \"user\" or \"mobile\"")
		return
	}

	open := ctrl.Toggle()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"open":  open,
		"state": sh.State(),
	})
}

type pointerRequest struct {
	Kind    string   `json:"kind"` // "mouse" or "touch"
	Targets []string `json:"targets"`
}

// HandlePointer reports a press so open menus can close on outside
// clicks. The client sends the region chain under the press.
func (h *ShellHandler) HandlePointer(w http.ResponseWriter, r *http.Request) {
	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	kind := menu.PointerMouse
	if req.Kind == "touch" {
		kind = menu.PointerTouch
	}

	sh := h.shell(r)
	sh.Pointer(menu.PointerEvent{Kind: kind, Targets: req.Targets})
	httpx.WriteJSON(w, http.StatusOK, sh.State())
}

type selectRequest struct {
	Path string `json:"path"`
}

// HandleSelect records a nav-item activation: both menus close and the
// shell's route advances.
func (h *ShellHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "a target path is required")
		return
	}

	sh := h.shell(r)
	sh.CloseMenus()
	sh.RouteChanged(req.Path)
	httpx.WriteJSON(w, http.StatusOK, sh.State())
}
