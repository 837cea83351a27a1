// Package memory is an in-memory session store. It backs tests and
// execution contexts with no persistence medium; in that mode every read
// before a write simply resolves to the absent session.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/homeeasy/portal/internal/portal/store"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]store.SessionRecord
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]store.SessionRecord)}
}

func (s *Store) Sessions() store.Sessions { return s }

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) CreateSession(ctx context.Context, rec store.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[rec.ID] = rec
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (store.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return store.SessionRecord{}, store.ErrNotFound
	}
	return rec, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for id, rec := range s.sessions {
		if !rec.ExpiresAt.After(now) {
			ids = append(ids, id)
			delete(s.sessions, id)
		}
	}
	return ids, nil
}
