package menu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestControllerOutsidePress(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	c := NewController(d, Options{Kind: KindUser, Region: "user-menu"})

	c.Open()
	require.True(t, c.IsOpen())
	require.Equal(t, 2, d.PointerListeners())

	t.Run("press inside the region keeps the menu open", func(t *testing.T) {
		d.Pointer(PointerEvent{Kind: PointerMouse, Targets: []string{"avatar", "user-menu", "header"}})
		require.True(t, c.IsOpen())
	})

	t.Run("press outside closes and detaches", func(t *testing.T) {
		d.Pointer(PointerEvent{Kind: PointerMouse, Targets: []string{"main", "body"}})
		require.False(t, c.IsOpen())
		require.Zero(t, d.PointerListeners())
	})

	t.Run("touch press closes too", func(t *testing.T) {
		c.Open()
		d.Pointer(PointerEvent{Kind: PointerTouch, Targets: []string{"body"}})
		require.False(t, c.IsOpen())
		require.Zero(t, d.PointerListeners())
	})
}

func TestControllerToggle(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	c := NewController(d, Options{Kind: KindUser, Region: "user-menu"})

	require.True(t, c.Toggle())
	require.False(t, c.Toggle())
	require.Zero(t, d.PointerListeners())
}

func TestControllerRouteChange(t *testing.T) {
	t.Parallel()

	t.Run("mobile menu closes when the route changes", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher()
		c := NewController(d, Options{
			Kind:         KindMobile,
			Region:       "mobile-menu",
			CloseOnRoute: true,
			InitialPath:  "/dashboard",
		})

		c.Open()
		d.RouteChange("/invoices")
		require.False(t, c.IsOpen())
		require.Zero(t, d.PointerListeners())
	})

	t.Run("the mount-time route echo does not close the menu", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher()
		c := NewController(d, Options{
			Kind:         KindMobile,
			Region:       "mobile-menu",
			CloseOnRoute: true,
			InitialPath:  "/dashboard",
		})

		c.Open()
		d.RouteChange("/dashboard")
		require.True(t, c.IsOpen())
	})

	t.Run("the user menu ignores route changes", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher()
		c := NewController(d, Options{Kind: KindUser, Region: "user-menu"})

		c.Open()
		d.RouteChange("/invoices")
		require.True(t, c.IsOpen())
	})
}

func TestControllerScrollLock(t *testing.T) {
	t.Parallel()

	t.Run("lock follows the open state", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher()
		lock := NewBodyScrollLock()
		c := NewController(d, Options{Kind: KindMobile, Region: "mobile-menu", Lock: lock})

		c.Open()
		require.True(t, lock.Locked())
		c.Close()
		require.False(t, lock.Locked())
	})

	t.Run("every teardown path releases the lock", func(t *testing.T) {
		t.Parallel()

		d := NewDispatcher()
		lock := NewBodyScrollLock()
		c := NewController(d, Options{
			Kind:         KindMobile,
			Region:       "mobile-menu",
			CloseOnRoute: true,
			InitialPath:  "/dashboard",
			Lock:         lock,
		})

		c.Open()
		d.Pointer(PointerEvent{Kind: PointerMouse, Targets: []string{"body"}})
		require.False(t, lock.Locked())

		c.Open()
		d.RouteChange("/rooms")
		require.False(t, lock.Locked())

		c.Open()
		c.Shutdown()
		require.False(t, lock.Locked())
	})
}

func TestControllerShutdownDetachesEverything(t *testing.T) {
	t.Parallel()

	d := NewDispatcher()
	c := NewController(d, Options{
		Kind:         KindMobile,
		Region:       "mobile-menu",
		CloseOnRoute: true,
		InitialPath:  "/dashboard",
	})

	c.Open()
	c.Shutdown()

	require.False(t, c.IsOpen())
	require.Zero(t, d.PointerListeners())

	// A shut-down controller cannot be reopened.
	c.Open()
	require.False(t, c.IsOpen())

	// Route events after shutdown are inert.
	d.RouteChange("/rooms")
}
