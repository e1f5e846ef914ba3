package gatekit

import (
	"context"
	"errors"
	"testing"

	"github.com/mwynn/gatekit/core"
	"github.com/mwynn/gatekit/services"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// recordingAdapter captures the RegisterRoutes call made during New.
type recordingAdapter struct {
	handler  core.AuthHandler
	basePath string
	err      error
}

func (r *recordingAdapter) RegisterRoutes(handler core.AuthHandler, basePath string) error {
	r.handler = handler
	r.basePath = basePath
	return r.err
}

// Requirement: New rejects incomplete configuration up front instead of
// failing at first use.
func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "missing secret",
			config:  Config{Storage: services.NewFakeAuthStorage()},
			wantErr: ErrSecretRequired,
		},
		{
			name:    "short secret",
			config:  Config{Secret: "too-short", Storage: services.NewFakeAuthStorage()},
			wantErr: ErrSecretTooShort,
		},
		{
			name:    "missing storage",
			config:  Config{Secret: testSecret},
			wantErr: ErrStorageRequired,
		},
		{
			name:   "minimal valid config",
			config: Config{Secret: testSecret, Storage: services.NewFakeAuthStorage()},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, err := New(test.config)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr != nil {
				return
			}
			if g.Auth == nil || g.Users == nil || g.Basic == nil || g.Tokens == nil || g.Sessions == nil {
				t.Error("New() left a service unwired")
			}
			if g.BasePath != defaultBasePath {
				t.Errorf("BasePath = %q, want default %q", g.BasePath, defaultBasePath)
			}
		})
	}
}

// Requirement: providing an HTTP adapter registers the routes during New,
// under the configured base path.
func TestNew_RegistersRoutes(t *testing.T) {
	adapter := &recordingAdapter{}
	g, err := New(Config{
		Secret:   testSecret,
		Storage:  services.NewFakeAuthStorage(),
		HTTP:     adapter,
		BasePath: "/v1/auth",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if adapter.handler == nil {
		t.Fatal("RegisterRoutes() was not called")
	}
	if adapter.basePath != "/v1/auth" {
		t.Errorf("basePath = %q, want %q", adapter.basePath, "/v1/auth")
	}
	if g.BasePath != "/v1/auth" {
		t.Errorf("BasePath = %q, want %q", g.BasePath, "/v1/auth")
	}
}

// Requirement: a failing route registration fails construction.
func TestNew_RegisterRoutesError(t *testing.T) {
	adapterErr := errors.New("route conflict")
	_, err := New(Config{
		Secret:  testSecret,
		Storage: services.NewFakeAuthStorage(),
		HTTP:    &recordingAdapter{err: adapterErr},
	})
	if !errors.Is(err, adapterErr) {
		t.Fatalf("New() error = %v, want %v", err, adapterErr)
	}
}

// Requirement: a freshly wired instance serves the full register, login,
// authenticate, logout cycle for all three strategies.
func TestGatekit_EndToEnd(t *testing.T) {
	g, err := New(Config{
		Secret:  testSecret,
		Storage: services.NewFakeAuthStorage(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	user, err := g.Auth.Register(context.Background(), RegisterInput{
		Name: "Ann", Email: "ann@x.com", Secret: "SecurePass123!",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tokenResult, err := g.Auth.TokenLogin(context.Background(), LoginInput{
		Email: "ann@x.com", Secret: "SecurePass123!",
	})
	if err != nil {
		t.Fatalf("TokenLogin() error = %v", err)
	}
	identity, err := g.Auth.AuthenticateToken(context.Background(), tokenResult.Token)
	if err != nil {
		t.Fatalf("AuthenticateToken() error = %v", err)
	}
	if identity.UserID != user.ID || identity.Role != RoleUser {
		t.Errorf("token identity = %+v, want {%s user}", identity, user.ID)
	}

	sessionResult, err := g.Auth.SessionLogin(context.Background(), LoginInput{
		Email: "ann@x.com", Secret: "SecurePass123!",
	})
	if err != nil {
		t.Fatalf("SessionLogin() error = %v", err)
	}
	if _, err := g.Auth.AuthenticateSession(context.Background(), sessionResult.SessionID); err != nil {
		t.Fatalf("AuthenticateSession() error = %v", err)
	}
	if err := g.Auth.SessionLogout(context.Background(), sessionResult.SessionID); err != nil {
		t.Fatalf("SessionLogout() error = %v", err)
	}
	if _, err := g.Auth.AuthenticateSession(context.Background(), sessionResult.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("AuthenticateSession() after logout error = %v, want ErrSessionNotFound", err)
	}

	if err := Authorize(identity, RoleAdmin); !errors.Is(err, ErrForbidden) {
		t.Errorf("Authorize(user, admin) error = %v, want ErrForbidden", err)
	}
	if err := Authorize(identity, RoleUser, RoleAdmin); err != nil {
		t.Errorf("Authorize(user, user|admin) error = %v", err)
	}
}
