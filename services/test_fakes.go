package services

import (
	"context"
	"sync"
	"time"

	"github.com/mwynn/gatekit/core"
)

// FakeAuthStorage is a test-only fake implementing core.AuthStorage. It
// stores records in maps and exposes error fields for behavior injection.
type FakeAuthStorage struct {
	mu       sync.RWMutex
	users    map[string]*core.User    // key: user ID
	sessions map[string]*core.Session // key: token hash

	createUserErr    error
	getUserErr       error
	updateUserErr    error
	createSessionErr error
	getSessionErr    error
	deleteSessionErr error
}

var _ core.AuthStorage = (*FakeAuthStorage)(nil)

func NewFakeAuthStorage() *FakeAuthStorage {
	return &FakeAuthStorage{
		users:    make(map[string]*core.User),
		sessions: make(map[string]*core.Session),
	}
}

func (f *FakeAuthStorage) CreateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createUserErr != nil {
		return f.createUserErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return core.ErrUserExists
		}
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *FakeAuthStorage) GetUserByID(_ context.Context, id string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, core.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *FakeAuthStorage) GetUserByEmail(_ context.Context, email string) (*core.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, core.ErrUserNotFound
}

func (f *FakeAuthStorage) UpdateUser(_ context.Context, u *core.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateUserErr != nil {
		return f.updateUserErr
	}
	if _, ok := f.users[u.ID]; !ok {
		return core.ErrUserNotFound
	}
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *FakeAuthStorage) CreateSession(_ context.Context, s *core.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createSessionErr != nil {
		return f.createSessionErr
	}
	clone := *s
	f.sessions[s.TokenHash] = &clone
	return nil
}

func (f *FakeAuthStorage) GetSessionByHash(_ context.Context, tokenHash string) (*core.Session, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getSessionErr != nil {
		return nil, f.getSessionErr
	}
	s, ok := f.sessions[tokenHash]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (f *FakeAuthStorage) DeleteSessionByHash(_ context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSessionErr != nil {
		return f.deleteSessionErr
	}
	// Idempotent by contract: absent is not an error
	delete(f.sessions, tokenHash)
	return nil
}

func (f *FakeAuthStorage) DeleteUserSessions(_ context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSessionErr != nil {
		return 0, f.deleteSessionErr
	}
	count := 0
	for k, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

func (f *FakeAuthStorage) DeleteExpiredSessions(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteSessionErr != nil {
		return 0, f.deleteSessionErr
	}
	now := time.Now()
	count := 0
	for k, s := range f.sessions {
		if s.Expired(now) {
			delete(f.sessions, k)
			count++
		}
	}
	return count, nil
}

// sessionCount reports the number of stored sessions; test helper.
func (f *FakeAuthStorage) sessionCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.sessions)
}
