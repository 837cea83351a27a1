package menu

import (
	"log/slog"
	"sync"
)

// ScrollLocker pins and releases background scrolling while an overlay
// menu is open. Implementations must tolerate repeated Unlock calls.
type ScrollLocker interface {
	Lock()
	Unlock()
}

// Kind names the two shell menus.
type Kind string

const (
	KindUser   Kind = "user"
	KindMobile Kind = "mobile"
)

// Options configures a menu controller.
type Options struct {
	Kind   Kind
	Region string // pointer region the menu owns; presses outside it close the menu

	// CloseOnRoute closes the menu when the route changes. InitialPath is
	// the route at mount time; a route event for that same path (the
	// mount-time echo) is ignored so the menu does not close itself the
	// instant it opens.
	CloseOnRoute bool
	InitialPath  string

	// Lock, when set, pins background scrolling while the menu is open.
	Lock ScrollLocker

	Logger *slog.Logger
}

// Controller is the open/close state machine for one shell menu. Pointer
// listeners exist only while the menu is open, and every teardown path
// (close, outside press, route change, shutdown) releases the scroll lock
// and detaches the listeners.
type Controller struct {
	opts       Options
	dispatcher *Dispatcher

	mu          sync.Mutex
	open        bool
	shutdown    bool
	detachMouse func()
	detachTouch func()
	detachRoute func()
}

// NewController wires a controller to a dispatcher. The route listener,
// if requested, stays attached for the controller's whole lifetime; the
// pointer listeners come and go with the open state.
func NewController(dispatcher *Dispatcher, opts Options) *Controller {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Controller{
		opts:       opts,
		dispatcher: dispatcher,
	}

	if opts.CloseOnRoute {
		c.detachRoute = dispatcher.OnRouteChange(c.onRouteChange)
	}

	return c
}

// Open opens the menu and attaches the outside-press listeners. Opening
// an already-open menu is a no-op.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open || c.shutdown {
		return
	}
	c.open = true

	c.detachMouse = c.dispatcher.OnMouseDown(c.onPress)
	c.detachTouch = c.dispatcher.OnTouchStart(c.onPress)

	if c.opts.Lock != nil {
		c.opts.Lock.Lock()
	}
}

// Close closes the menu, detaches the pointer listeners and releases the
// scroll lock. Safe to call when already closed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Controller) closeLocked() {
	if !c.open {
		return
	}
	c.open = false

	if c.detachMouse != nil {
		c.detachMouse()
		c.detachMouse = nil
	}
	if c.detachTouch != nil {
		c.detachTouch()
		c.detachTouch = nil
	}
	if c.opts.Lock != nil {
		c.opts.Lock.Unlock()
	}
}

// Toggle flips the open state and reports the new one.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	open := c.open
	c.mu.Unlock()

	if open {
		c.Close()
		return false
	}
	c.Open()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// IsOpen reports the current state.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Shutdown closes the menu and detaches every listener, including the
// route listener. The controller is unusable afterwards.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
	c.shutdown = true

	if c.detachRoute != nil {
		c.detachRoute()
		c.detachRoute = nil
	}
}

func (c *Controller) onPress(ev PointerEvent) {
	if ev.Within(c.opts.Region) {
		return
	}

	c.opts.Logger.Debug("closing menu on outside press", "menu", c.opts.Kind)
	c.Close()
}

func (c *Controller) onRouteChange(path string) {
	// The mount-time echo of the current route must not close a menu the
	// user just opened.
	if path == c.opts.InitialPath {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		c.opts.Logger.Debug("closing menu on route change", "menu", c.opts.Kind, "path", path)
	}
	c.closeLocked()
}
