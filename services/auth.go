package services

import (
	"context"

	"github.com/mwynn/gatekit/core"
)

// AuthService is the facade HTTP adapters talk to. It composes the
// credential store with the three strategies behind the common
// request-authentication contract: every strategy resolves a normalized
// Identity or fails with one of the closed error kinds.
type AuthService struct {
	users    *UserService
	basic    *BasicStrategy
	tokens   *TokenStrategy
	sessions *SessionStrategy
}

// Ensure AuthService implements the HTTP port
var _ core.AuthHandler = (*AuthService)(nil)

func NewAuthService(users *UserService, basic *BasicStrategy, tokens *TokenStrategy, sessions *SessionStrategy) *AuthService {
	return &AuthService{
		users:    users,
		basic:    basic,
		tokens:   tokens,
		sessions: sessions,
	}
}

// Users exposes the credential store for account management operations.
func (s *AuthService) Users() *UserService { return s.users }

// Sessions exposes the session strategy for maintenance operations (sweep,
// destroy-all).
func (s *AuthService) Sessions() *SessionStrategy { return s.sessions }

// Register creates a new local user.
func (s *AuthService) Register(ctx context.Context, input core.RegisterInput) (*core.User, error) {
	return s.users.Register(ctx, input)
}

// TokenLogin verifies credentials and issues a signed stateless token. The
// credential store is consulted only here, at issuance; verification later
// never touches it.
func (s *AuthService) TokenLogin(ctx context.Context, input core.LoginInput) (*core.TokenLoginResult, error) {
	user, err := s.users.VerifyCredentials(ctx, input.Email, input.Secret)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueDefault(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &core.TokenLoginResult{User: user.Sanitized(), Token: token}, nil
}

// SessionLogin verifies credentials and creates a server-side session. The
// raw identifier in the result is for cookie delivery only.
func (s *AuthService) SessionLogin(ctx context.Context, input core.LoginInput) (*core.SessionLoginResult, error) {
	user, err := s.users.VerifyCredentials(ctx, input.Email, input.Secret)
	if err != nil {
		return nil, err
	}

	sessionID, session, err := s.sessions.Login(ctx, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &core.SessionLoginResult{
		User:      user.Sanitized(),
		Session:   session,
		SessionID: sessionID,
	}, nil
}

// SessionLogout destroys the session server-side. Idempotent.
func (s *AuthService) SessionLogout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// AuthenticateBasic resolves header-carried credentials.
func (s *AuthService) AuthenticateBasic(ctx context.Context, authorization string) (core.Identity, error) {
	return s.basic.Authenticate(ctx, authorization)
}

// AuthenticateToken verifies a signed token. Stateless; ctx is accepted for
// interface symmetry only.
func (s *AuthService) AuthenticateToken(_ context.Context, tokenString string) (core.Identity, error) {
	return s.tokens.Verify(tokenString)
}

// AuthenticateSession resolves a cookie-delivered session identifier.
func (s *AuthService) AuthenticateSession(ctx context.Context, sessionID string) (core.Identity, error) {
	return s.sessions.Resolve(ctx, sessionID)
}
