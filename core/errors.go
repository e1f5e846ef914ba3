package core

import "errors"

// User errors
var (
	ErrUserExists         = errors.New("user already exists")       // 409 Conflict
	ErrUserNotFound       = errors.New("user not found")            // collapses to 401 at the boundary
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized
)

// Header-credential (Basic) errors
var (
	ErrMissingCredentials = errors.New("missing authorization header")   // 401
	ErrMalformedHeader    = errors.New("malformed authorization header") // 401
)

// Token errors
var (
	ErrTokenMalformed = errors.New("malformed token")         // 401
	ErrBadSignature   = errors.New("invalid token signature") // 401
	ErrTokenExpired   = errors.New("token expired")           // 401
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found") // 401
	ErrSessionExpired  = errors.New("session expired")   // 401
	ErrCacheNotFound   = errors.New("session not found in cache")
)

// Authorization errors
var (
	ErrUnauthenticated = errors.New("authentication required") // 401
	ErrForbidden       = errors.New("insufficient role")       // 403
	ErrUnknownRole     = errors.New("unknown role")            // 403
)

// Validation errors (client input)
var (
	ErrNameRequired     = errors.New("name is required")      // 400
	ErrEmailRequired    = errors.New("email is required")     // 400
	ErrInvalidEmail     = errors.New("invalid email format")  // 400
	ErrPasswordRequired = errors.New("password is required")  // 400
	ErrPasswordTooShort = errors.New("password is too short") // 400
	ErrPasswordTooLong  = errors.New("password is too long")  // 400
)

// Record invariant errors (server-side)
var (
	ErrPasswordHashRequired   = errors.New("local account requires a password hash")
	ErrUnexpectedPasswordHash = errors.New("federated account must not carry a password hash")
)

// Collaborator errors
var (
	// ErrStoreUnavailable wraps any storage failure that is not one of the
	// not-found sentinels. It is the only kind callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable") // 503
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired = errors.New("storage adapter is required") // 500
	ErrSecretRequired  = errors.New("secret is required")          // 500
	ErrSecretTooShort  = errors.New("secret too short")            // 500
)
