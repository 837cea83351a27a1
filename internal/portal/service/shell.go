package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/menu"
)

// Shell is the per-session runtime behind the signed-in page chrome: the
// unread-notification poller, the two header menus and the scroll lock.
// It mounts on the first guarded request of a session and unmounts when
// the session ends, taking its timers and listeners with it.
type Shell struct {
	SessionID string

	dispatcher *Dispatcher
	poller     *UnreadPoller
	userMenu   *menu.Controller
	mobileMenu *menu.Controller
	scrollLock *menu.BodyScrollLock

	mu   sync.Mutex
	path string
}

// Dispatcher is the event bus a shell's menus listen on.
type Dispatcher = menu.Dispatcher

// ShellState is the view of a shell the state endpoint reports. The
// client mirrors it: menu visibility, the body scroll pin and the
// notification badge.
type ShellState struct {
	Path           string `json:"path"`
	UserMenuOpen   bool   `json:"user_menu_open"`
	MobileMenuOpen bool   `json:"mobile_menu_open"`
	ScrollLocked   bool   `json:"scroll_locked"`
	Unread         int    `json:"unread"`
	UnreadLoading  bool   `json:"unread_loading"`
}

func newShell(sessionID, path string, fetch FetchUnreadFunc, interval time.Duration, logger *slog.Logger) *Shell {
	dispatcher := menu.NewDispatcher()
	scrollLock := menu.NewBodyScrollLock()

	sh := &Shell{
		SessionID:  sessionID,
		dispatcher: dispatcher,
		poller:     NewUnreadPoller(fetch, logger, interval),
		scrollLock: scrollLock,
		path:       path,
	}

	sh.userMenu = menu.NewController(dispatcher, menu.Options{
		Kind:   menu.KindUser,
		Region: "user-menu",
		Logger: logger,
	})

	// The mobile drawer additionally closes on navigation and pins the
	// body scroll while open.
	sh.mobileMenu = menu.NewController(dispatcher, menu.Options{
		Kind:         menu.KindMobile,
		Region:       "mobile-menu",
		CloseOnRoute: true,
		InitialPath:  path,
		Lock:         scrollLock,
		Logger:       logger,
	})

	sh.poller.Start()
	return sh
}

// RouteChanged records a navigation and lets the menus react to it.
func (sh *Shell) RouteChanged(path string) {
	sh.mu.Lock()
	changed := path != sh.path
	sh.path = path
	sh.mu.Unlock()

	if changed {
		sh.dispatcher.RouteChange(path)
	}
}

// Pointer feeds a press event to whichever menus are listening.
func (sh *Shell) Pointer(ev menu.PointerEvent) {
	sh.dispatcher.Pointer(ev)
}

// Menu returns the controller for the named menu kind.
func (sh *Shell) Menu(kind menu.Kind) (*menu.Controller, error) {
	switch kind {
	case menu.KindUser:
		return sh.userMenu, nil
	case menu.KindMobile:
		return sh.mobileMenu, nil
	default:
		return nil, fmt.Errorf("shell: unknown menu kind %q", kind)
	}
}

// CloseMenus closes both menus, as when the user activates a nav item.
func (sh *Shell) CloseMenus() {
	sh.userMenu.Close()
	sh.mobileMenu.Close()
}

// RefetchUnread forces an immediate unread-count fetch.
func (sh *Shell) RefetchUnread(ctx context.Context) int {
	return sh.poller.Refetch(ctx)
}

// Unread returns the current badge count.
func (sh *Shell) Unread() int {
	return sh.poller.UnreadCount()
}

// State snapshots the shell for the client.
func (sh *Shell) State() ShellState {
	sh.mu.Lock()
	path := sh.path
	sh.mu.Unlock()

	return ShellState{
		Path:           path,
		UserMenuOpen:   sh.userMenu.IsOpen(),
		MobileMenuOpen: sh.mobileMenu.IsOpen(),
		ScrollLocked:   sh.scrollLock.Locked(),
		Unread:         sh.poller.UnreadCount(),
		UnreadLoading:  sh.poller.IsLoading(),
	}
}

func (sh *Shell) shutdown() {
	sh.userMenu.Shutdown()
	sh.mobileMenu.Shutdown()
	sh.poller.Stop()
	// Shutdown released the lock via the mobile menu; release again in
	// case nothing held it, so no pin ever outlives the shell.
	sh.scrollLock.Unlock()
}

// UnreadFetcher builds the per-session fetch function for a shell's
// poller, binding the session's upstream bearer token.
type UnreadFetcher func(token string) FetchUnreadFunc

// ShellManager owns the live shells, at most one per session. Mount and
// unmount are idempotent; replacing a session's shell always tears the
// old one down first so no two pollers ever run for one session.
type ShellManager struct {
	fetcher  UnreadFetcher
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	shells map[string]*Shell
}

func NewShellManager(fetcher UnreadFetcher, interval time.Duration, logger *slog.Logger) *ShellManager {
	return &ShellManager{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
		shells:   make(map[string]*Shell),
	}
}

// Ensure returns the session's shell, mounting one on first use.
func (m *ShellManager) Ensure(sess domain.Session, path string) *Shell {
	m.mu.Lock()
	if sh, ok := m.shells[sess.ID]; ok {
		m.mu.Unlock()
		return sh
	}

	sh := newShell(sess.ID, path, m.fetcher(sess.Token), m.interval, m.logger)
	m.shells[sess.ID] = sh
	m.mu.Unlock()

	m.logger.Debug("mounted shell", "session_id", sess.ID, "path", path)
	return sh
}

// Get returns the session's shell if one is mounted.
func (m *ShellManager) Get(sessionID string) (*Shell, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sh, ok := m.shells[sessionID]
	return sh, ok
}

// Unmount tears down the session's shell: the poller stops, listeners
// detach, the scroll lock releases. Unknown IDs are a no-op.
func (m *ShellManager) Unmount(sessionID string) {
	m.mu.Lock()
	sh, ok := m.shells[sessionID]
	delete(m.shells, sessionID)
	m.mu.Unlock()

	if !ok {
		return
	}
	sh.shutdown()
	m.logger.Debug("unmounted shell", "session_id", sessionID)
}

// Len reports the number of mounted shells.
func (m *ShellManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shells)
}

// Shutdown unmounts every shell. Called on process shutdown.
func (m *ShellManager) Shutdown() {
	m.mu.Lock()
	shells := make([]*Shell, 0, len(m.shells))
	for _, sh := range m.shells {
		shells = append(shells, sh)
	}
	m.shells = make(map[string]*Shell)
	m.mu.Unlock()

	for _, sh := range shells {
		sh.shutdown()
	}
}
