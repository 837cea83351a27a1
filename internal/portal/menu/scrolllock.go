package menu

import "sync"

// BodyScrollLock tracks whether the page body scrolling is pinned. It is
// the server-side source of truth the shell state endpoint reports so the
// client can mirror it onto the document body.
type BodyScrollLock struct {
	mu     sync.Mutex
	locked bool
}

func NewBodyScrollLock() *BodyScrollLock {
	return &BodyScrollLock{}
}

func (l *BodyScrollLock) Lock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = true
}

// Unlock releases the pin. Releasing an already-released lock is fine;
// teardown paths call it unconditionally.
func (l *BodyScrollLock) Unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = false
}

func (l *BodyScrollLock) Locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}
