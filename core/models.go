package core

import "time"

// AuthProvider identifies how a user account proves its identity.
// Local accounts carry a password hash; federated accounts never do.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
	ProviderGitHub AuthProvider = "github"
)

// User is the identity record owned by the credential store.
//
// PasswordHash and RefreshToken are never serialized outward.
type User struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	PasswordHash     string       `json:"-"`
	Role             Role         `json:"role"`
	AuthProvider     AuthProvider `json:"authProvider"`
	IsVerified       bool         `json:"isVerified"`
	RefreshToken     *string      `json:"-"`
	TwoFactorEnabled bool         `json:"twoFactorEnabled"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// Validate checks the record-level invariants: local accounts must carry a
// password hash, federated accounts must not.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrEmailRequired
	}
	if u.Name == "" {
		return ErrNameRequired
	}
	local := u.AuthProvider == ProviderLocal
	if local && u.PasswordHash == "" {
		return ErrPasswordHashRequired
	}
	if !local && u.PasswordHash != "" {
		return ErrUnexpectedPasswordHash
	}
	if !u.Role.Valid() {
		return ErrUnknownRole
	}
	return nil
}

// Sanitized returns a copy safe to hand to callers: the hash and refresh
// token are stripped.
func (u *User) Sanitized() *User {
	clone := *u
	clone.PasswordHash = ""
	clone.RefreshToken = nil
	return &clone
}

// Session is the server-held record backing the session strategy.
//
// The client never sees this struct directly; it holds only the raw opaque
// identifier whose SHA-256 hash is TokenHash. Role is a snapshot taken at
// login time.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its absolute expiry at the
// given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Identity is the normalized result of any successful authentication
// strategy. Authorization depends only on this, never on strategy-specific
// artifacts.
type Identity struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
