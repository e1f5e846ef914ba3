package services

import (
	"context"
	"errors"
	"time"

	"github.com/mwynn/gatekit/core"
	"github.com/mwynn/gatekit/pkg/crypto"
)

// SessionConfig configures the server-tracked session strategy.
type SessionConfig struct {
	// TTL is the absolute lifetime of a session, fixed at creation. Expiry
	// is not sliding: resolving a session never extends it, so a stolen or
	// fixated identifier dies on schedule regardless of activity.
	TTL time.Duration
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{TTL: time.Hour}
}

// SessionStrategy creates, resolves, and destroys server-side session
// records. The client holds a cryptographically random opaque identifier;
// storage keys the record by the identifier's SHA-256 hash.
type SessionStrategy struct {
	config  SessionConfig
	storage core.SessionStorage
	cache   core.Cache // optional, nil disables caching
}

func NewSessionStrategy(config SessionConfig, storage core.SessionStorage, cache core.Cache) *SessionStrategy {
	if config.TTL == 0 {
		config.TTL = DefaultSessionConfig().TTL
	}
	return &SessionStrategy{config: config, storage: storage, cache: cache}
}

// Login creates a session for an already-authenticated user and returns the
// raw identifier for cookie delivery. Role is snapshotted at login time.
func (s *SessionStrategy) Login(ctx context.Context, userID string, role core.Role) (string, *core.Session, error) {
	if !role.Valid() {
		return "", nil, core.ErrUnknownRole
	}

	pair, err := crypto.GenerateHashedToken()
	if err != nil {
		return "", nil, err
	}

	id, err := crypto.NanoID()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	session := &core.Session{
		ID:        id,
		UserID:    userID,
		Role:      role,
		TokenHash: pair.Hash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}

	if err := s.storage.CreateSession(ctx, session); err != nil {
		return "", nil, storeErr("create session", err)
	}

	// Cache write failures never fail the login
	if s.cache != nil {
		_ = s.cache.Set(pair.Hash, session)
	}

	return pair.Token, session, nil
}

// Resolve maps a client-presented identifier to an Identity. An unknown
// identifier is ErrSessionNotFound. An expired record is deleted lazily at
// lookup time and reported as ErrSessionExpired; concurrent resolves of the
// same live session all succeed until one of them observes expiry or a
// destroy lands, and the storage's single-key atomicity guarantees no
// partial record is ever seen.
func (s *SessionStrategy) Resolve(ctx context.Context, sessionID string) (core.Identity, error) {
	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return core.Identity{}, err
	}
	return core.Identity{UserID: session.UserID, Role: session.Role}, nil
}

// Lookup returns the full session record for a client-presented identifier,
// applying the same lazy-expiry rules as Resolve.
func (s *SessionStrategy) Lookup(ctx context.Context, sessionID string) (*core.Session, error) {
	return s.lookup(ctx, sessionID)
}

func (s *SessionStrategy) lookup(ctx context.Context, sessionID string) (*core.Session, error) {
	if sessionID == "" {
		return nil, core.ErrSessionNotFound
	}

	tokenHash := crypto.HashToken(sessionID)

	// Try cache first if caching is enabled
	if s.cache != nil {
		if session, err := s.cache.Get(tokenHash); err == nil && session != nil {
			if session.Expired(time.Now()) {
				_ = s.cache.Delete(tokenHash)
				_ = s.storage.DeleteSessionByHash(ctx, tokenHash)
				return nil, core.ErrSessionExpired
			}
			return session, nil
		}
		// Cache miss - fall through to storage
	}

	session, err := s.storage.GetSessionByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return nil, core.ErrSessionNotFound
		}
		return nil, storeErr("get session", err)
	}

	if session.Expired(time.Now()) {
		// Lazy expiry: the record is useless now, delete it on the way out.
		_ = s.storage.DeleteSessionByHash(ctx, tokenHash)
		return nil, core.ErrSessionExpired
	}

	if s.cache != nil {
		_ = s.cache.Set(tokenHash, session)
	}

	return session, nil
}

// Destroy removes a session. It is idempotent: destroying an identifier
// that never existed, or one already destroyed, succeeds silently.
func (s *SessionStrategy) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	tokenHash := crypto.HashToken(sessionID)

	if s.cache != nil {
		_ = s.cache.Delete(tokenHash)
	}

	if err := s.storage.DeleteSessionByHash(ctx, tokenHash); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}

// DestroyAllForUser removes every session belonging to a user, e.g. after a
// password or role change.
func (s *SessionStrategy) DestroyAllForUser(ctx context.Context, userID string) (int, error) {
	count, err := s.storage.DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, storeErr("delete user sessions", err)
	}

	// Clearing the whole cache is cheaper than enumerating the user's
	// sessions just to invalidate selectively.
	if s.cache != nil && count > 0 {
		_ = s.cache.Clear()
	}

	return count, nil
}

// Sweep deletes expired session rows in bulk. Lazy expiry already keeps
// expired sessions unusable; Sweep only reclaims storage and is intended to
// run on a timer.
func (s *SessionStrategy) Sweep(ctx context.Context) (int, error) {
	count, err := s.storage.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, storeErr("delete expired sessions", err)
	}
	return count, nil
}
