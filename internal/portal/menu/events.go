package menu

import "sync"

// PointerKind distinguishes the two press event sources a menu must watch.
type PointerKind int

const (
	PointerMouse PointerKind = iota
	PointerTouch
)

// PointerEvent describes a press reported by the web client. Targets is
// the chain of region names from the pressed element up to the document
// root; a menu owns a region and treats any press whose chain misses that
// region as an outside click.
type PointerEvent struct {
	Kind    PointerKind
	Targets []string
}

// Within reports whether the press landed inside the named region.
func (e PointerEvent) Within(region string) bool {
	for _, t := range e.Targets {
		if t == region {
			return true
		}
	}
	return false
}

// Dispatcher fans pointer and route-change events out to registered
// listeners. Listeners attach with an explicit detach handle so every
// registration has a guaranteed release path.
type Dispatcher struct {
	mu     sync.Mutex
	nextID int

	mouseDown  map[int]func(PointerEvent)
	touchStart map[int]func(PointerEvent)
	route      map[int]func(string)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		mouseDown:  make(map[int]func(PointerEvent)),
		touchStart: make(map[int]func(PointerEvent)),
		route:      make(map[int]func(string)),
	}
}

func (d *Dispatcher) attach(m map[int]func(PointerEvent), fn func(PointerEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	m[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(m, id)
		})
	}
}

// OnMouseDown registers a mouse-press listener and returns its detach.
func (d *Dispatcher) OnMouseDown(fn func(PointerEvent)) func() {
	return d.attach(d.mouseDown, fn)
}

// OnTouchStart registers a touch-press listener and returns its detach.
func (d *Dispatcher) OnTouchStart(fn func(PointerEvent)) func() {
	return d.attach(d.touchStart, fn)
}

// OnRouteChange registers a navigation listener and returns its detach.
func (d *Dispatcher) OnRouteChange(fn func(string)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.route[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.route, id)
		})
	}
}

// Pointer delivers a press event to the listener set matching its kind.
func (d *Dispatcher) Pointer(ev PointerEvent) {
	d.mu.Lock()
	var fns []func(PointerEvent)
	switch ev.Kind {
	case PointerTouch:
		for _, fn := range d.touchStart {
			fns = append(fns, fn)
		}
	default:
		for _, fn := range d.mouseDown {
			fns = append(fns, fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// RouteChange delivers a navigation event.
func (d *Dispatcher) RouteChange(path string) {
	d.mu.Lock()
	var fns []func(string)
	for _, fn := range d.route {
		fns = append(fns, fn)
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(path)
	}
}

// PointerListeners returns the number of attached press listeners. Used
// to verify nothing leaks a listener past teardown.
func (d *Dispatcher) PointerListeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.mouseDown) + len(d.touchStart)
}
