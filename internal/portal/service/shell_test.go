package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homeeasy/portal/internal/portal/domain"
	"github.com/homeeasy/portal/internal/portal/menu"
)

func staticFetcher(count int, calls *atomic.Int32) UnreadFetcher {
	return func(token string) FetchUnreadFunc {
		return func(ctx context.Context) (int, error) {
			if calls != nil {
				calls.Add(1)
			}
			return count, nil
		}
	}
}

func testSession(id string) domain.Session {
	return domain.Session{
		ID:    id,
		Token: "bearer-" + id,
		User: domain.UserProfile{
			ID:       "usr-" + id,
			FullName: "Avery Nguyen",
			Email:    "avery@example.com",
			Role:     domain.RoleTenant,
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestShellManagerMountsOncePerSession(t *testing.T) {
	t.Parallel()

	m := NewShellManager(staticFetcher(3, nil), time.Hour, slog.Default())
	defer m.Shutdown()

	sess := testSession("s1")
	sh1 := m.Ensure(sess, "/dashboard")
	sh2 := m.Ensure(sess, "/invoices")
	require.Same(t, sh1, sh2)
	require.Equal(t, 1, m.Len())

	other := m.Ensure(testSession("s2"), "/dashboard")
	require.NotSame(t, sh1, other)
	require.Equal(t, 2, m.Len())
}

func TestShellManagerUnmountStopsPolling(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := NewShellManager(staticFetcher(3, &calls), 10*time.Millisecond, slog.Default())

	sh := m.Ensure(testSession("s1"), "/dashboard")
	waitFor(t, func() bool { return calls.Load() >= 2 })

	m.Unmount(sh.SessionID)
	require.Zero(t, m.Len())

	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, settled, calls.Load())

	// Unknown and repeated unmounts are no-ops.
	m.Unmount(sh.SessionID)
	m.Unmount("never-mounted")
}

func TestShellRouteChangeClosesMobileMenuOnly(t *testing.T) {
	t.Parallel()

	m := NewShellManager(staticFetcher(0, nil), time.Hour, slog.Default())
	defer m.Shutdown()

	sh := m.Ensure(testSession("s1"), "/dashboard")

	userMenu, err := sh.Menu(menu.KindUser)
	require.NoError(t, err)
	mobileMenu, err := sh.Menu(menu.KindMobile)
	require.NoError(t, err)

	userMenu.Open()
	mobileMenu.Open()

	t.Run("same-path event leaves both menus open", func(t *testing.T) {
		sh.RouteChanged("/dashboard")
		require.True(t, userMenu.IsOpen())
		require.True(t, mobileMenu.IsOpen())
	})

	t.Run("navigation closes the mobile drawer but not the user menu", func(t *testing.T) {
		sh.RouteChanged("/invoices")
		require.True(t, userMenu.IsOpen())
		require.False(t, mobileMenu.IsOpen())
	})

	t.Run("returning to the mount path later still closes the drawer", func(t *testing.T) {
		mobileMenu.Open()
		sh.RouteChanged("/dashboard")
		require.True(t, mobileMenu.IsOpen()) // mount path stays exempt

		sh.RouteChanged("/rooms")
		require.False(t, mobileMenu.IsOpen())
	})
}

func TestShellPointerClosesMenusOutside(t *testing.T) {
	t.Parallel()

	m := NewShellManager(staticFetcher(0, nil), time.Hour, slog.Default())
	defer m.Shutdown()

	sh := m.Ensure(testSession("s1"), "/dashboard")
	userMenu, _ := sh.Menu(menu.KindUser)

	userMenu.Open()
	sh.Pointer(menu.PointerEvent{Kind: menu.PointerMouse, Targets: []string{"user-menu"}})
	require.True(t, userMenu.IsOpen())

	sh.Pointer(menu.PointerEvent{Kind: menu.PointerMouse, Targets: []string{"body"}})
	require.False(t, userMenu.IsOpen())
}

func TestShellStateSnapshot(t *testing.T) {
	t.Parallel()

	m := NewShellManager(staticFetcher(57, nil), time.Hour, slog.Default())
	defer m.Shutdown()

	sh := m.Ensure(testSession("s1"), "/dashboard")
	waitFor(t, func() bool { return !sh.poller.IsLoading() })

	mobileMenu, _ := sh.Menu(menu.KindMobile)
	mobileMenu.Open()

	state := sh.State()
	require.Equal(t, "/dashboard", state.Path)
	require.False(t, state.UserMenuOpen)
	require.True(t, state.MobileMenuOpen)
	require.True(t, state.ScrollLocked)
	require.Equal(t, 57, state.Unread)

	sh.CloseMenus()
	state = sh.State()
	require.False(t, state.MobileMenuOpen)
	require.False(t, state.ScrollLocked)
}

func TestShellUnknownMenuKind(t *testing.T) {
	t.Parallel()

	m := NewShellManager(staticFetcher(0, nil), time.Hour, slog.Default())
	defer m.Shutdown()

	sh := m.Ensure(testSession("s1"), "/dashboard")
	_, err := sh.Menu(menu.Kind("drawer"))
	require.Error(t, err)
}
