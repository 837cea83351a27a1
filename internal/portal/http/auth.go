package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/service"
	"github.com/homeeasy/portal/pkg/coreapi"
	"github.com/homeeasy/portal/pkg/httpx"
	"github.com/homeeasy/portal/pkg/slogx"
)

// AuthHandler implements the login and logout endpoints. Credential
// verification belongs to the upstream core API; the portal only turns a
// successful exchange into a local session and shell.
type AuthHandler struct {
	Core     *coreapi.Client
	Sessions *service.SessionService
	Shells   *service.ShellManager
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User     userView `json:"user"`
	Redirect string   `json:"redirect"`
}

type userView struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func viewOf(u domain.UserProfile) userView {
	return userView{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}

// HandleLogin exchanges credentials upstream and establishes the portal
// session. A browser that was already signed in gets its old session and
// shell replaced, never a second poller.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	result, err := h.Core.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var apiErr *coreapi.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
			return
		}
		log.Error("upstream login failed", "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "upstream_unavailable", "sign-in is temporarily unavailable")
		return
	}

	user := domain.UserProfile{
		ID:       result.User.ID,
		FullName: result.User.FullName,
		Email:    result.User.Email,
		Role:     domain.Role(result.User.Role),
	}
	if !user.Role.Valid() {
		log.Error("upstream returned unknown role", "role", result.User.Role)
		httpx.WriteError(w, http.StatusBadGateway, "upstream_error", "account role is not supported")
		return
	}

	// Replace any session this browser already holds.
	if oldSID, err := h.Sessions.Clear(r.Context(), w, r); err == nil && oldSID != "" {
		h.Shells.Unmount(oldSID)
	}

	sess, err := h.Sessions.Create(r.Context(), w, result.Token, user)
	if err != nil {
		log.Error("failed to create session", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "failed to establish session")
		return
	}

	h.Shells.Ensure(sess, domain.PathDashboard)
	log.Info("user signed in", "user_id", user.ID, "role", user.Role)

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		User:     viewOf(user),
		Redirect: domain.PathDashboard,
	})
}

// HandleLogout clears the session and tears its shell down. Logging out
// while signed out succeeds quietly.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sid, err := h.Sessions.Clear(r.Context(), w, r)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to clear session", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "failed to sign out")
		return
	}
	if sid != "" {
		h.Shells.Unmount(sid)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"redirect": domain.PathLogin})
}
