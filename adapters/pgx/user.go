package pgx

import (
	"context"

	"github.com/mwynn/gatekit/core"
)

const userColumns = `id, name, email, password_hash, role, auth_provider,
	is_verified, refresh_token, two_factor_enabled, created_at, updated_at`

func (a *Adapter) CreateUser(ctx context.Context, u *core.User) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.AuthProvider),
		u.IsVerified, u.RefreshToken, u.TwoFactorEnabled, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return core.ErrUserExists
	}
	return err
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*core.User, error) {
	return a.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*core.User, error) {
	return a.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (a *Adapter) getUser(ctx context.Context, query, arg string) (*core.User, error) {
	var (
		u            core.User
		passwordHash *string
		role         string
		provider     string
	)
	err := a.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &passwordHash, &role, &provider,
		&u.IsVerified, &u.RefreshToken, &u.TwoFactorEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}

	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	u.Role = core.Role(role)
	u.AuthProvider = core.AuthProvider(provider)
	return &u, nil
}

func (a *Adapter) UpdateUser(ctx context.Context, u *core.User) error {
	tag, err := a.pool.Exec(ctx, `
		UPDATE users
		SET name = $2, email = $3, password_hash = NULLIF($4, ''), role = $5,
			auth_provider = $6, is_verified = $7, refresh_token = $8,
			two_factor_enabled = $9, updated_at = $10
		WHERE id = $1`,
		u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), string(u.AuthProvider),
		u.IsVerified, u.RefreshToken, u.TwoFactorEnabled, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrUserExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrUserNotFound
	}
	return nil
}
