package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/homeeasy/portal/internal/portal/store"
)

type sessionsRepo struct {
	db *sql.DB
}

func (r *sessionsRepo) CreateSession(ctx context.Context, rec store.SessionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, token_sealed, profile_sealed, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TokenSealed, rec.ProfileSealed,
		rec.ExpiresAt.UTC(), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	return err
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (store.SessionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, token_sealed, profile_sealed, expires_at, created_at, updated_at
		FROM sessions WHERE id = ?`, id)

	var rec store.SessionRecord
	err := row.Scan(&rec.ID, &rec.TokenSealed, &rec.ProfileSealed,
		&rec.ExpiresAt, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return store.SessionRecord{}, mapNotFound(err)
	}
	return rec, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, now.UTC()); err != nil {
		return nil, err
	}
	return ids, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
