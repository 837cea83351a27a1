package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/homeeasy/portal/internal/portal/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func record(id string, expiresAt time.Time) store.SessionRecord {
	now := time.Now().UTC()
	return store.SessionRecord{
		ID:            id,
		TokenSealed:   []byte("sealed-token-" + id),
		ProfileSealed: []byte("sealed-profile-" + id),
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestSessionsRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec := record("01J0A", time.Now().Add(time.Hour))
	require.NoError(t, s.Sessions().CreateSession(ctx, rec))

	got, err := s.Sessions().GetSession(ctx, "01J0A")
	require.NoError(t, err)
	require.Equal(t, rec.ID, got.ID)
	require.Equal(t, rec.TokenSealed, got.TokenSealed)
	require.Equal(t, rec.ProfileSealed, got.ProfileSealed)
	require.WithinDuration(t, rec.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestGetSessionNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Sessions().GetSession(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Sessions().CreateSession(ctx, record("01J0B", time.Now().Add(time.Hour))))
	require.NoError(t, s.Sessions().DeleteSession(ctx, "01J0B"))

	_, err := s.Sessions().GetSession(ctx, "01J0B")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting a missing session is not an error.
	require.NoError(t, s.Sessions().DeleteSession(ctx, "01J0B"))
}

func TestDeleteExpiredSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.Sessions().CreateSession(ctx, record("expired-1", now.Add(-time.Hour))))
	require.NoError(t, s.Sessions().CreateSession(ctx, record("expired-2", now.Add(-time.Minute))))
	require.NoError(t, s.Sessions().CreateSession(ctx, record("live", now.Add(time.Hour))))

	ids, err := s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"expired-1", "expired-2"}, ids)

	_, err = s.Sessions().GetSession(ctx, "live")
	require.NoError(t, err)

	// Second sweep finds nothing.
	ids, err = s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.Empty(t, ids)
}
