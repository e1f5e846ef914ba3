package services

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/mwynn/gatekit/core"
)

const basicScheme = "Basic "

// BasicStrategy authenticates a request from an Authorization header of the
// form "Basic base64(email:secret)". It is fully stateless: every request is
// independently verified against the credential store, so revocation is
// immediate because there is nothing to revoke.
type BasicStrategy struct {
	users *UserService
}

func NewBasicStrategy(users *UserService) *BasicStrategy {
	return &BasicStrategy{users: users}
}

// Authenticate resolves the header value to an Identity.
//
// A missing header is ErrMissingCredentials; a header that cannot be decoded
// is ErrMalformedHeader; an unknown user and a wrong secret are both
// ErrInvalidCredentials so the failure cause is not distinguishable from
// outside.
func (b *BasicStrategy) Authenticate(ctx context.Context, authorization string) (core.Identity, error) {
	if authorization == "" {
		return core.Identity{}, core.ErrMissingCredentials
	}

	if len(authorization) <= len(basicScheme) || !strings.EqualFold(authorization[:len(basicScheme)], basicScheme) {
		return core.Identity{}, core.ErrMalformedHeader
	}

	decoded, err := base64.StdEncoding.DecodeString(authorization[len(basicScheme):])
	if err != nil {
		return core.Identity{}, core.ErrMalformedHeader
	}

	email, secret, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return core.Identity{}, core.ErrMalformedHeader
	}

	user, err := b.users.VerifyCredentials(ctx, email, secret)
	if err != nil {
		return core.Identity{}, err
	}

	return core.Identity{UserID: user.ID, Role: user.Role}, nil
}
