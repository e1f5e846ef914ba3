package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mwynn/gatekit/core"
)

// TokenConfig configures the stateless token strategy.
type TokenConfig struct {
	// TTL is the lifetime of issued tokens.
	TTL time.Duration

	// Leeway is the fixed grace window applied when comparing a token's
	// expiry against the verifier's clock, to absorb skew between hosts.
	// It is explicit and constant per deployment, never implicit.
	Leeway time.Duration
}

func DefaultTokenConfig() TokenConfig {
	return TokenConfig{TTL: time.Hour}
}

// Claims is the only claims shape this service signs or accepts.
type Claims struct {
	jwt.RegisteredClaims

	Role string `json:"role"`
}

// TokenStrategy issues and verifies self-contained HMAC-signed tokens.
// No server-side state exists per token: a token is valid until its expiry
// or until the signing secret is rotated, which invalidates every
// outstanding token at once. There is no per-token revocation.
type TokenStrategy struct {
	secret []byte
	config TokenConfig
	method jwt.SigningMethod
	parser *jwt.Parser
}

func NewTokenStrategy(secret string, config TokenConfig) *TokenStrategy {
	if config.TTL == 0 {
		config.TTL = DefaultTokenConfig().TTL
	}
	method := jwt.SigningMethodHS256
	return &TokenStrategy{
		secret: []byte(secret),
		config: config,
		method: method,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithLeeway(config.Leeway),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue signs a token for the given identity with expiry now + ttl.
// A ttl of zero or below produces an already-expired token; verification of
// such a token uniformly reports ErrTokenExpired.
func (t *TokenStrategy) Issue(userID string, role core.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role.String(),
	}

	signed, err := jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// IssueDefault signs a token with the configured TTL.
func (t *TokenStrategy) IssueDefault(userID string, role core.Role) (string, error) {
	return t.Issue(userID, role, t.config.TTL)
}

// Verify parses and validates a token string, returning the embedded
// Identity. It is pure and side-effect-free; claims are only trusted after
// the signature, structure, and expiry checks all pass.
func (t *TokenStrategy) Verify(tokenString string) (core.Identity, error) {
	if tokenString == "" {
		return core.Identity{}, core.ErrTokenMalformed
	}

	claims := &Claims{}
	_, err := t.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return core.Identity{}, mapJWTError(err)
	}

	role, err := core.ParseRole(claims.Role)
	if err != nil {
		return core.Identity{}, err
	}
	if claims.Subject == "" {
		return core.Identity{}, core.ErrTokenMalformed
	}

	return core.Identity{UserID: claims.Subject, Role: role}, nil
}

// mapJWTError collapses the jwt library's error tree onto the small closed
// set the rest of the system speaks.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return core.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrSignatureInvalid):
		return core.ErrBadSignature
	default:
		return core.ErrTokenMalformed
	}
}
