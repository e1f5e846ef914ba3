// Package gatekit implements three HTTP authentication strategies behind a
// common request-authentication contract: header-carried credentials
// ("Basic"), signed stateless tokens, and server-tracked sessions, plus
// role-based authorization on the resulting Identity.
package gatekit

import (
	"fmt"
	"time"

	"github.com/mwynn/gatekit/core"
	"github.com/mwynn/gatekit/pkg/crypto"
	"github.com/mwynn/gatekit/services"
)

// interfaces
type (
	AuthStorage    = core.AuthStorage
	UserStorage    = core.UserStorage
	SessionStorage = core.SessionStorage
	Cache          = core.Cache

	AuthHandler = core.AuthHandler
	HTTPAdapter = core.HTTPAdapter

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	SessionConfig = services.SessionConfig
	TokenConfig   = services.TokenConfig
	CacheConfig   = core.CacheConfig
)

type (
	User     = core.User
	Session  = core.Session
	Identity = core.Identity
	Role     = core.Role

	RegisterInput      = core.RegisterInput
	LoginInput         = core.LoginInput
	TokenLoginResult   = core.TokenLoginResult
	SessionLoginResult = core.SessionLoginResult
)

const (
	RoleUser  = core.RoleUser
	RoleAdmin = core.RoleAdmin
)

const (
	defaultBasePath  = "/api/auth"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = core.NewInMemoryCache
	NewArgon2            = crypto.NewArgon2
	NewBcrypt            = crypto.NewBcrypt
	DefaultSessionConfig = services.DefaultSessionConfig
	DefaultTokenConfig   = services.DefaultTokenConfig
	ParseRole            = core.ParseRole
	Authorize            = core.Authorize
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrMissingCredentials = core.ErrMissingCredentials
	ErrMalformedHeader    = core.ErrMalformedHeader
	ErrTokenMalformed     = core.ErrTokenMalformed
	ErrBadSignature       = core.ErrBadSignature
	ErrTokenExpired       = core.ErrTokenExpired
	ErrSessionNotFound    = core.ErrSessionNotFound
	ErrSessionExpired     = core.ErrSessionExpired
)

var (
	ErrUnauthenticated = core.ErrUnauthenticated
	ErrForbidden       = core.ErrForbidden
	ErrUnknownRole     = core.ErrUnknownRole
)

var (
	ErrNameRequired     = core.ErrNameRequired
	ErrEmailRequired    = core.ErrEmailRequired
	ErrInvalidEmail     = core.ErrInvalidEmail
	ErrPasswordRequired = core.ErrPasswordRequired
	ErrPasswordTooShort = core.ErrPasswordTooShort
	ErrPasswordTooLong  = core.ErrPasswordTooLong
)

var (
	ErrStoreUnavailable = core.ErrStoreUnavailable
	ErrStorageRequired  = core.ErrStorageRequired
	ErrSecretRequired   = core.ErrSecretRequired
	ErrSecretTooShort   = core.ErrSecretTooShort
)

// Config wires a Gatekit instance. Storage and Secret are required; every
// other field has a sensible default.
type Config struct {
	// Secret signs stateless tokens. Rotating it invalidates every
	// outstanding token at once.
	Secret string

	// Storage is the shared user/session store, injected explicitly so
	// tests can substitute an in-memory implementation.
	Storage core.AuthStorage

	// HTTP, when set, has the auth routes registered on it during New.
	HTTP core.HTTPAdapter

	// Optional config
	Cache          core.Cache
	DisableCache   bool
	SessionConfig  *SessionConfig
	TokenConfig    *TokenConfig
	PasswordHasher crypto.PasswordHandler
	BasePath       string
}

// Gatekit bundles the credential store and the three strategies.
type Gatekit struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Basic    *services.BasicStrategy
	Tokens   *services.TokenStrategy
	Sessions *services.SessionStrategy

	BasePath string
}

// New validates the configuration, wires the services, and registers routes
// on the HTTP adapter if one is provided.
func New(cfg Config) (*Gatekit, error) {
	if cfg.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(cfg.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if cfg.Storage == nil {
		return nil, ErrStorageRequired
	}

	// Set Defaults

	cache := cfg.Cache
	if cache == nil && !cfg.DisableCache {
		cache = core.NewInMemoryCache(core.CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	sessionConfig := services.DefaultSessionConfig()
	if cfg.SessionConfig != nil {
		sessionConfig = *cfg.SessionConfig
	}

	tokenConfig := services.DefaultTokenConfig()
	if cfg.TokenConfig != nil {
		tokenConfig = *cfg.TokenConfig
	}

	hasher := cfg.PasswordHasher
	if hasher == nil {
		hasher = crypto.NewArgon2()
	}

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	users := services.NewUserService(cfg.Storage, hasher)
	basic := services.NewBasicStrategy(users)
	tokens := services.NewTokenStrategy(cfg.Secret, tokenConfig)
	sessions := services.NewSessionStrategy(sessionConfig, cfg.Storage, cache)
	auth := services.NewAuthService(users, basic, tokens, sessions)

	g := &Gatekit{
		Auth:     auth,
		Users:    users,
		Basic:    basic,
		Tokens:   tokens,
		Sessions: sessions,
		BasePath: basePath,
	}

	if cfg.HTTP != nil {
		if err := cfg.HTTP.RegisterRoutes(auth, basePath); err != nil {
			return nil, err
		}
	}

	return g, nil
}
