package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mwynn/gatekit/core"
)

// identityLocal is the request-local key holding the resolved Identity.
const identityLocal = "gatekit_identity"

// IdentityFromCtx returns the Identity stored by one of the Require*
// middlewares. Valid only downstream of them.
func IdentityFromCtx(c fiber.Ctx) (core.Identity, error) {
	identity, ok := c.Locals(identityLocal).(core.Identity)
	if !ok {
		return core.Identity{}, core.ErrUnauthenticated
	}
	return identity, nil
}

// RequireBasic authenticates every request from its Authorization header
// using the header-credential strategy.
func (a *Adapter) RequireBasic() fiber.Handler {
	return a.require(func(c fiber.Ctx) (core.Identity, error) {
		return a.handler.AuthenticateBasic(c.Context(), c.Get(fiber.HeaderAuthorization))
	})
}

// RequireToken authenticates requests carrying "Bearer <token>".
func (a *Adapter) RequireToken() fiber.Handler {
	return a.require(func(c fiber.Ctx) (core.Identity, error) {
		return a.handler.AuthenticateToken(c.Context(), extractBearer(c))
	})
}

// RequireSession authenticates requests via the session cookie.
func (a *Adapter) RequireSession() fiber.Handler {
	return a.require(func(c fiber.Ctx) (core.Identity, error) {
		return a.handler.AuthenticateSession(c.Context(), c.Cookies(SessionCookie))
	})
}

// require builds the authentication half of the chain: resolve an Identity
// or short-circuit with 401 before any role check can run.
func (a *Adapter) require(resolve func(fiber.Ctx) (core.Identity, error)) fiber.Handler {
	return func(c fiber.Ctx) error {
		identity, err := resolve(c)
		if err != nil {
			return handleAuthError(c, err)
		}

		c.Locals(identityLocal, identity)
		return c.Next()
	}
}

// RequireRoles is the authorization half of the chain. It must run after one
// of the Require* middlewares; a request that reaches it without an Identity
// fails as unauthenticated, never as forbidden.
func RequireRoles(roles ...core.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		identity, err := IdentityFromCtx(c)
		if err != nil {
			return handleAuthError(c, err)
		}

		if err := core.Authorize(identity, roles...); err != nil {
			return handleAuthError(c, err)
		}

		return c.Next()
	}
}

// extractBearer pulls the token out of "Authorization: Bearer <token>".
func extractBearer(c fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}
