package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/store"
	"github.com/homeeasy/portal/pkg/cryptox"
	"github.com/homeeasy/portal/pkg/idx"
	"github.com/homeeasy/portal/pkg/jwtx"
)

// SessionCookieName is the portal session cookie. It carries a signed
// reference to the server-side record, never the upstream token itself.
const SessionCookieName = "homeeasy_session"

// sealedProfile is the JSON shape of the profile at rest.
type sealedProfile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// SessionService creates, resolves and clears browser sessions. Every
// failure mode of Resolve collapses into the absent session; callers
// never branch on why a session is missing.
type SessionService struct {
	sessions store.Sessions
	codec    *jwtx.CookieCodec
	logger   *slog.Logger
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

// NewSessionService wires the session service. ttl <= 0 falls back to
// jwtx.DefaultSessionTTL. secure controls the cookie's Secure flag and
// should only be false in local development.
func NewSessionService(sessions store.Sessions, codec *jwtx.CookieCodec, logger *slog.Logger, ttl time.Duration, secure bool) *SessionService {
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	return &SessionService{
		sessions: sessions,
		codec:    codec,
		logger:   logger,
		ttl:      ttl,
		secure:   secure,
		now:      time.Now,
	}
}

// Create persists a new session for a freshly-authenticated user and sets
// the session cookie on the response. The upstream bearer token and the
// profile are sealed before they reach the store.
func (s *SessionService) Create(ctx context.Context, w http.ResponseWriter, token string, user domain.UserProfile) (domain.Session, error) {
	if token == "" || user.IsZero() || !user.Role.Valid() {
		return domain.Session{}, fmt.Errorf("session: refusing to create a session without token and profile")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	tokenSealed, err := cryptox.Seal([]byte(token))
	if err != nil {
		return domain.Session{}, fmt.Errorf("session: failed to seal token: %w", err)
	}

	profileJSON, err := json.Marshal(sealedProfile{
		ID:       user.ID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("session: failed to encode profile: %w", err)
	}

	profileSealed, err := cryptox.Seal(profileJSON)
	if err != nil {
		return domain.Session{}, fmt.Errorf("session: failed to seal profile: %w", err)
	}

	rec := store.SessionRecord{
		ID:            idx.New().String(),
		TokenSealed:   tokenSealed,
		ProfileSealed: profileSealed,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.sessions.CreateSession(ctx, rec); err != nil {
		return domain.Session{}, fmt.Errorf("session: failed to persist session: %w", err)
	}

	cookie, err := s.signCookie(rec.ID, now)
	if err != nil {
		// Roll the orphaned record back so it does not linger until sweep.
		_ = s.sessions.DeleteSession(ctx, rec.ID)
		return domain.Session{}, err
	}
	http.SetCookie(w, cookie)

	// The raw bearer token must never be logged; its fingerprint is enough
	// to correlate with upstream audit logs.
	s.logger.Info("session created",
		"session_id", rec.ID,
		"user_id", user.ID,
		"role", user.Role,
		"token_fp", cryptox.FingerprintToken(token),
	)

	return domain.Session{
		ID:        rec.ID,
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve turns a request into its session. A missing cookie, a bad
// signature, an expired or deleted record, or an unsealing failure all
// yield the zero session with a nil error; only infrastructure failures
// (store unreachable) surface as errors.
func (s *SessionService) Resolve(ctx context.Context, r *http.Request) (domain.Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return domain.Session{}, nil
	}

	claims, err := s.codec.Verify(cookie.Value)
	if err != nil || claims.SID == "" {
		s.logger.Debug("rejecting session cookie", "error", err)
		return domain.Session{}, nil
	}

	rec, err := s.sessions.GetSession(ctx, claims.SID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("session: failed to load session: %w", err)
	}

	now := s.now().UTC()
	if !rec.ExpiresAt.After(now) {
		// Expired but not yet swept. Drop it eagerly.
		_ = s.sessions.DeleteSession(ctx, rec.ID)
		return domain.Session{}, nil
	}

	token, err := cryptox.Open(rec.TokenSealed)
	if err != nil {
		s.logger.Warn("failed to unseal session token, dropping session", "session_id", rec.ID, "error", err)
		_ = s.sessions.DeleteSession(ctx, rec.ID)
		return domain.Session{}, nil
	}

	profileJSON, err := cryptox.Open(rec.ProfileSealed)
	if err != nil {
		s.logger.Warn("failed to unseal session profile, dropping session", "session_id", rec.ID, "error", err)
		_ = s.sessions.DeleteSession(ctx, rec.ID)
		return domain.Session{}, nil
	}

	var prof sealedProfile
	if err := json.Unmarshal(profileJSON, &prof); err != nil {
		s.logger.Warn("failed to decode session profile, dropping session", "session_id", rec.ID, "error", err)
		_ = s.sessions.DeleteSession(ctx, rec.ID)
		return domain.Session{}, nil
	}

	return domain.Session{
		ID:    rec.ID,
		Token: string(token),
		User: domain.UserProfile{
			ID:       prof.ID,
			FullName: prof.FullName,
			Email:    prof.Email,
			Role:     domain.Role(prof.Role),
		},
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Clear deletes the request's session record (if any) and expires the
// cookie. It returns the deleted session ID so the caller can tear the
// session's shell down; an empty ID means there was nothing to clear.
func (s *SessionService) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	var sid string
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if claims, err := s.codec.Verify(cookie.Value); err == nil {
			sid = claims.SID
		}
	}

	if sid != "" {
		if err := s.sessions.DeleteSession(ctx, sid); err != nil {
			return "", fmt.Errorf("session: failed to delete session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sid, nil
}

func (s *SessionService) signCookie(sid string, now time.Time) (*http.Cookie, error) {
	claims := jwtx.NewSessionClaims(sid, s.codec.Issuer(), s.ttl, now)
	signed, err := s.codec.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("session: failed to sign cookie: %w", err)
	}

	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}
