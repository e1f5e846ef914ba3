package fiber

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mwynn/gatekit/core"
)

// register handles POST {base}/register
func (a *Adapter) register(c fiber.Ctx) error {
	var input core.RegisterInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]string{
			"error": "invalid request body",
		})
	}

	user, err := a.handler.Register(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(map[string]any{
		"message": "user registered successfully",
		"user":    user,
	})
}

// tokenLogin handles POST {base}/token/login
func (a *Adapter) tokenLogin(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]string{
			"error": "invalid request body",
		})
	}

	result, err := a.handler.TokenLogin(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	return c.Status(http.StatusOK).JSON(result)
}

// sessionLogin handles POST {base}/session/login. The opaque identifier
// travels only in an http-only cookie, never in the response body.
func (a *Adapter) sessionLogin(c fiber.Ctx) error {
	var input core.LoginInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(map[string]string{
			"error": "invalid request body",
		})
	}

	result, err := a.handler.SessionLogin(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    result.SessionID,
		Expires:  result.Session.ExpiresAt,
		HTTPOnly: true,
		Secure:   a.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.Status(http.StatusOK).JSON(map[string]any{
		"message": "session login successful",
		"user":    result.User,
	})
}

// sessionLogout handles POST {base}/session/logout. Idempotent: always
// succeeds and always instructs the client to drop the cookie.
func (a *Adapter) sessionLogout(c fiber.Ctx) error {
	sessionID := c.Cookies(SessionCookie)

	if err := a.handler.SessionLogout(c.Context(), sessionID); err != nil {
		// Only a store fault reaches here; the cookie is still cleared.
		if errors.Is(err, core.ErrStoreUnavailable) {
			a.expireSessionCookie(c)
			return handleAuthError(c, err)
		}
	}

	a.expireSessionCookie(c)
	return c.Status(http.StatusOK).JSON(map[string]string{
		"message": "logged out successfully",
	})
}

// whoami handles GET {base}/session for an authenticated session.
func (a *Adapter) whoami(c fiber.Ctx) error {
	identity, err := IdentityFromCtx(c)
	if err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(identity)
}

func (a *Adapter) expireSessionCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   a.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// handleAuthError maps gatekit errors to appropriate HTTP responses
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	return c.Status(status).JSON(map[string]string{
		"error": err.Error(),
	})
}

// mapErrorToStatus collapses the error taxonomy onto stable status codes
// without leaking internal detail.
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, core.ErrInvalidCredentials),
		errors.Is(err, core.ErrMissingCredentials),
		errors.Is(err, core.ErrMalformedHeader),
		errors.Is(err, core.ErrTokenMalformed),
		errors.Is(err, core.ErrBadSignature),
		errors.Is(err, core.ErrTokenExpired),
		errors.Is(err, core.ErrSessionNotFound),
		errors.Is(err, core.ErrSessionExpired),
		errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, core.ErrForbidden),
		errors.Is(err, core.ErrUnknownRole):
		return http.StatusForbidden

	case errors.Is(err, core.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, core.ErrNameRequired),
		errors.Is(err, core.ErrEmailRequired),
		errors.Is(err, core.ErrInvalidEmail),
		errors.Is(err, core.ErrPasswordRequired),
		errors.Is(err, core.ErrPasswordTooShort),
		errors.Is(err, core.ErrPasswordTooLong):
		return http.StatusBadRequest

	case errors.Is(err, core.ErrStoreUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
