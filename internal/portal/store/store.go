package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a lookup for a record that does not exist. Callers
// treat it as "absent session", never as a failure.
var ErrNotFound = errors.New("store: not found")

// SessionRecord is the persisted server side of a browser session. The
// upstream bearer token and the cached profile are sealed before they hit
// the driver; the store never sees them in the clear.
type SessionRecord struct {
	ID            string
	TokenSealed   []byte
	ProfileSealed []byte
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Store is the root data access interface. Concrete drivers (sqlite for
// deployments, memory for tests and persistence-free environments)
// implement this.
type Store interface {
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing medium is still alive.
	Ping(ctx context.Context) error
}

// Sessions is the session repository.
type Sessions interface {
	// CreateSession inserts a new session record.
	CreateSession(ctx context.Context, rec SessionRecord) error

	// GetSession returns a session by id, or ErrNotFound.
	GetSession(ctx context.Context, id string) (SessionRecord, error)

	// DeleteSession removes a session. Deleting a missing session is not
	// an error.
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes every session whose expiry is at or
	// before now and returns the removed IDs so their shells can be torn
	// down.
	DeleteExpiredSessions(ctx context.Context, now time.Time) ([]string, error)
}
