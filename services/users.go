package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwynn/gatekit/core"
	"github.com/mwynn/gatekit/pkg/crypto"
)

const (
	minPasswordLength = 8
	// bcrypt truncates at 72 bytes; cap both handlers there so switching
	// hashers never changes which inputs are accepted.
	maxPasswordLength = 72
)

// UserService is the credential store: it owns User records and password
// verification. Hashing happens explicitly here, at the call site, never as
// a hidden save-time side effect.
type UserService struct {
	db     core.UserStorage
	hasher crypto.PasswordHandler

	decoyOnce sync.Once
	decoyHash string
}

func NewUserService(db core.UserStorage, hasher crypto.PasswordHandler) *UserService {
	return &UserService{db: db, hasher: hasher}
}

// NormalizeEmail case-normalizes and trims an email address for lookup and
// storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSecret(secret string) error {
	if secret == "" {
		return core.ErrPasswordRequired
	}
	if len(secret) < minPasswordLength {
		return core.ErrPasswordTooShort
	}
	if len(secret) > maxPasswordLength {
		return core.ErrPasswordTooLong
	}
	return nil
}

// Register creates a local user with role "user". The submitted secret is
// stored only as a one-way adaptive hash; the returned record carries
// neither the secret nor the hash.
func (s *UserService) Register(ctx context.Context, input core.RegisterInput) (*core.User, error) {
	// Step 1: Validate input
	if strings.TrimSpace(input.Name) == "" {
		return nil, core.ErrNameRequired
	}
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, core.ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, core.ErrInvalidEmail
	}
	if err := validateSecret(input.Secret); err != nil {
		return nil, err
	}

	// Step 2: Reject duplicate emails
	existing, err := s.db.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, core.ErrUserNotFound) {
		return nil, storeErr("check existing user", err)
	}
	if existing != nil {
		return nil, core.ErrUserExists
	}

	// Step 3: Hash the secret
	hash, err := s.hasher.Hash(input.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 4: Create the user
	now := time.Now()
	user := &core.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         core.RoleUser,
		AuthProvider: core.ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		if errors.Is(err, core.ErrUserExists) {
			return nil, core.ErrUserExists
		}
		return nil, storeErr("create user", err)
	}

	return user.Sanitized(), nil
}

// FindByEmail looks up a user by normalized email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	user, err := s.db.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return nil, core.ErrUserNotFound
		}
		return nil, storeErr("find user", err)
	}
	return user, nil
}

// VerifyCredentials resolves an email/secret pair to the full user record.
// Unknown users and wrong secrets both surface as ErrInvalidCredentials, and
// the unknown-user path still pays for one hash comparison so the two are
// not distinguishable by timing either.
func (s *UserService) VerifyCredentials(ctx context.Context, email, secret string) (*core.User, error) {
	if email == "" || secret == "" {
		return nil, core.ErrInvalidCredentials
	}

	user, err := s.db.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			s.burnHash(secret)
			return nil, core.ErrInvalidCredentials
		}
		return nil, storeErr("find user", err)
	}

	if user.AuthProvider != core.ProviderLocal || user.PasswordHash == "" {
		s.burnHash(secret)
		return nil, core.ErrInvalidCredentials
	}

	valid, err := s.hasher.Verify(secret, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}

	return user, nil
}

// burnHash runs a throwaway verification against a fixed decoy hash so that
// the absent-user path costs the same as a real mismatch.
func (s *UserService) burnHash(secret string) {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("gatekit-decoy-credential")
	})
	if s.decoyHash != "" {
		_, _ = s.hasher.Verify(secret, s.decoyHash)
	}
}

// ChangePassword replaces a user's secret after verifying the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldSecret, newSecret string) error {
	if err := validateSecret(newSecret); err != nil {
		return err
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return core.ErrUserNotFound
		}
		return storeErr("find user", err)
	}
	if user.AuthProvider != core.ProviderLocal {
		return core.ErrInvalidCredentials
	}

	valid, err := s.hasher.Verify(oldSecret, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return core.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newSecret)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := s.db.UpdateUser(ctx, user); err != nil {
		return storeErr("update user", err)
	}
	return nil
}

// ChangeRole moves a user into another role of the closed set.
func (s *UserService) ChangeRole(ctx context.Context, userID string, role core.Role) error {
	if !role.Valid() {
		return core.ErrUnknownRole
	}

	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return core.ErrUserNotFound
		}
		return storeErr("find user", err)
	}

	user.Role = role
	user.UpdatedAt = time.Now()
	if err := s.db.UpdateUser(ctx, user); err != nil {
		return storeErr("update user", err)
	}
	return nil
}

// storeErr wraps an unexpected storage failure so callers can distinguish a
// collaborator fault from an authentication decision.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", core.ErrStoreUnavailable, op, err)
}
