package services

import (
	"context"
	"errors"
	"testing"

	"github.com/mwynn/gatekit/core"
	"github.com/mwynn/gatekit/pkg/crypto"
)

// testHasher keeps argon2 cheap in tests; parameters are carried in each
// hash, so nothing else changes.
func testHasher() crypto.PasswordHandler {
	return &crypto.Argon2{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newTestUserService() (*UserService, *FakeAuthStorage) {
	storage := NewFakeAuthStorage()
	return NewUserService(storage, testHasher()), storage
}

// Requirement: registration normalizes the email, stores only a one-way
// hash, and returns the record without secret material.
func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name    string
		input   core.RegisterInput
		setup   func(*UserService)
		wantErr error
	}{
		{
			name:  "creates user for valid input",
			input: core.RegisterInput{Name: "Ann", Email: "ann@x.com", Secret: "SecurePass123!"},
		},
		{
			name:  "normalizes email case and whitespace",
			input: core.RegisterInput{Name: "Ann", Email: "  Ann@X.Com ", Secret: "SecurePass123!"},
		},
		{
			name:    "rejects missing name",
			input:   core.RegisterInput{Email: "ann@x.com", Secret: "SecurePass123!"},
			wantErr: core.ErrNameRequired,
		},
		{
			name:    "rejects missing email",
			input:   core.RegisterInput{Name: "Ann", Secret: "SecurePass123!"},
			wantErr: core.ErrEmailRequired,
		},
		{
			name:    "rejects invalid email",
			input:   core.RegisterInput{Name: "Ann", Email: "not-an-email", Secret: "SecurePass123!"},
			wantErr: core.ErrInvalidEmail,
		},
		{
			name:    "rejects missing secret",
			input:   core.RegisterInput{Name: "Ann", Email: "ann@x.com"},
			wantErr: core.ErrPasswordRequired,
		},
		{
			name:    "rejects short secret",
			input:   core.RegisterInput{Name: "Ann", Email: "ann@x.com", Secret: "short"},
			wantErr: core.ErrPasswordTooShort,
		},
		{
			name: "rejects duplicate email",
			input: core.RegisterInput{
				Name: "Ann Again", Email: "ann@x.com", Secret: "OtherPass123!",
			},
			setup: func(s *UserService) {
				_, err := s.Register(context.Background(), core.RegisterInput{
					Name: "Ann", Email: "ann@x.com", Secret: "SecurePass123!",
				})
				if err != nil {
					t.Fatalf("setup Register() error = %v", err)
				}
			},
			wantErr: core.ErrUserExists,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			service, _ := newTestUserService()
			if test.setup != nil {
				test.setup(service)
			}

			user, err := service.Register(context.Background(), test.input)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Register() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr != nil {
				return
			}

			if user.PasswordHash != "" {
				t.Error("Register() must not return the password hash")
			}
			if user.Email != "ann@x.com" {
				t.Errorf("email = %q, want normalized %q", user.Email, "ann@x.com")
			}
			if user.Role != core.RoleUser {
				t.Errorf("role = %q, want default %q", user.Role, core.RoleUser)
			}
			if user.AuthProvider != core.ProviderLocal {
				t.Errorf("authProvider = %q, want %q", user.AuthProvider, core.ProviderLocal)
			}
			if user.ID == "" {
				t.Error("Register() should assign an ID")
			}
		})
	}
}

// Requirement: credentials verify for the original secret and for nothing
// else; unknown users and wrong secrets are indistinguishable.
func TestUserService_VerifyCredentials(t *testing.T) {
	service, _ := newTestUserService()
	registered, err := service.Register(context.Background(), core.RegisterInput{
		Name: "Ann", Email: "ann@x.com", Secret: "SecurePass123!",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name    string
		email   string
		secret  string
		wantErr error
	}{
		{name: "correct secret", email: "ann@x.com", secret: "SecurePass123!"},
		{name: "lookup is case-normalized", email: "ANN@X.COM", secret: "SecurePass123!"},
		{name: "wrong secret", email: "ann@x.com", secret: "WrongPass123!", wantErr: core.ErrInvalidCredentials},
		{name: "empty secret", email: "ann@x.com", secret: "", wantErr: core.ErrInvalidCredentials},
		{name: "unknown user, same error", email: "bob@x.com", secret: "SecurePass123!", wantErr: core.ErrInvalidCredentials},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			user, err := service.VerifyCredentials(context.Background(), test.email, test.secret)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("VerifyCredentials() error = %v, want %v", err, test.wantErr)
			}
			if err == nil && user.ID != registered.ID {
				t.Errorf("user ID = %q, want %q", user.ID, registered.ID)
			}
		})
	}
}

// Requirement: a store fault surfaces as ErrStoreUnavailable, never as an
// authentication decision.
func TestUserService_StoreFault(t *testing.T) {
	storage := NewFakeAuthStorage()
	storage.getUserErr = errors.New("connection refused")
	service := NewUserService(storage, testHasher())

	_, err := service.VerifyCredentials(context.Background(), "ann@x.com", "SecurePass123!")
	if !errors.Is(err, core.ErrStoreUnavailable) {
		t.Fatalf("VerifyCredentials() error = %v, want ErrStoreUnavailable", err)
	}
}

// Requirement: changing the password invalidates the old secret and
// activates the new one.
func TestUserService_ChangePassword(t *testing.T) {
	service, _ := newTestUserService()
	user, err := service.Register(context.Background(), core.RegisterInput{
		Name: "Ann", Email: "ann@x.com", Secret: "OldPass1234!",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := service.ChangePassword(context.Background(), user.ID, "WrongPass123", "NewPass1234!"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Fatalf("ChangePassword() with wrong old secret error = %v, want ErrInvalidCredentials", err)
	}

	if err := service.ChangePassword(context.Background(), user.ID, "OldPass1234!", "NewPass1234!"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := service.VerifyCredentials(context.Background(), "ann@x.com", "OldPass1234!"); !errors.Is(err, core.ErrInvalidCredentials) {
		t.Error("old secret should no longer verify")
	}
	if _, err := service.VerifyCredentials(context.Background(), "ann@x.com", "NewPass1234!"); err != nil {
		t.Errorf("new secret should verify, got %v", err)
	}
}

// Requirement: roles move only within the closed set.
func TestUserService_ChangeRole(t *testing.T) {
	service, _ := newTestUserService()
	user, err := service.Register(context.Background(), core.RegisterInput{
		Name: "Ann", Email: "ann@x.com", Secret: "SecurePass123!",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if err := service.ChangeRole(context.Background(), user.ID, core.Role("root")); !errors.Is(err, core.ErrUnknownRole) {
		t.Fatalf("ChangeRole(root) error = %v, want ErrUnknownRole", err)
	}

	if err := service.ChangeRole(context.Background(), user.ID, core.RoleAdmin); err != nil {
		t.Fatalf("ChangeRole(admin) error = %v", err)
	}

	got, err := service.FindByEmail(context.Background(), "ann@x.com")
	if err != nil {
		t.Fatalf("FindByEmail() error = %v", err)
	}
	if got.Role != core.RoleAdmin {
		t.Errorf("role = %q, want %q", got.Role, core.RoleAdmin)
	}
}
