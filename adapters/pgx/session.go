package pgx

import (
	"context"

	"github.com/mwynn/gatekit/core"
)

func (a *Adapter) CreateSession(ctx context.Context, s *core.Session) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO sessions (id, token_hash, user_id, role, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.TokenHash, s.UserID, string(s.Role), s.CreatedAt, s.ExpiresAt,
	)
	return err
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*core.Session, error) {
	var (
		s    core.Session
		role string
	)
	err := a.pool.QueryRow(ctx, `
		SELECT id, token_hash, user_id, role, created_at, expires_at
		FROM sessions WHERE token_hash = $1`, tokenHash,
	).Scan(&s.ID, &s.TokenHash, &s.UserID, &role, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return nil, core.ErrSessionNotFound
		}
		return nil, err
	}

	s.Role = core.Role(role)
	return &s, nil
}

// DeleteSessionByHash is idempotent: deleting an absent row is not an error.
func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, tokenHash)
	return err
}

func (a *Adapter) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
