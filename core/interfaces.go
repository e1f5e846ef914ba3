package core

import "context"

// Ports define interfaces for external dependencies. The stores are shared,
// externally-synchronized resources: single-key read/write/delete are each
// atomic, and no multi-key transactions are required.

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// UserStorage defines user-related database operations.
//
// Lookups return ErrUserNotFound when no record matches; any other failure
// is a collaborator fault and is wrapped in ErrStoreUnavailable by callers.
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error

	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	UpdateUser(ctx context.Context, u *User) error
}

// SessionStorage defines session-related database operations, keyed by the
// SHA-256 hash of the opaque identifier the client holds.
//
// Deletes are idempotent: removing an absent session is not an error.
type SessionStorage interface {
	CreateSession(ctx context.Context, s *Session) error

	GetSessionByHash(ctx context.Context, tokenHash string) (*Session, error)

	DeleteSessionByHash(ctx context.Context, tokenHash string) error
	DeleteUserSessions(ctx context.Context, userID string) (int, error)
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// AuthStorage is the full storage surface an adapter must provide.
type AuthStorage interface {
	UserStorage
	SessionStorage
}

// ============================================
// AUTH HANDLER (for HTTP adapters)
// ============================================

// AuthHandler provides the authentication operations an HTTP adapter exposes.
type AuthHandler interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)

	TokenLogin(ctx context.Context, input LoginInput) (*TokenLoginResult, error)

	SessionLogin(ctx context.Context, input LoginInput) (*SessionLoginResult, error)
	SessionLogout(ctx context.Context, sessionID string) error

	AuthenticateBasic(ctx context.Context, authorization string) (Identity, error)
	AuthenticateToken(ctx context.Context, tokenString string) (Identity, error)
	AuthenticateSession(ctx context.Context, sessionID string) (Identity, error)
}

// RegisterInput contains the data needed to register a new user.
type RegisterInput struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Secret string `json:"password"`
}

// LoginInput contains the credentials submitted to a login endpoint.
type LoginInput struct {
	Email  string `json:"email"`
	Secret string `json:"password"`
}

// TokenLoginResult carries the signed token for the stateless strategy.
type TokenLoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// SessionLoginResult carries the raw session identifier for cookie delivery.
// SessionID never appears in the stored record, only its hash does.
type SessionLoginResult struct {
	User      *User    `json:"user"`
	Session   *Session `json:"session"`
	SessionID string   `json:"-"`
}

// ============================================
// HTTP PORT
// ============================================

// HTTPAdapter mounts the auth routes onto a host framework.
type HTTPAdapter interface {
	RegisterRoutes(handler AuthHandler, basePath string) error
}
