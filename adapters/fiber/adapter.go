// Package fiber adapts gatekit onto a Fiber v3 application: route
// registration, strategy middleware, and the error-to-status boundary.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/mwynn/gatekit/core"
)

// SessionCookie is the name of the http-only cookie carrying the opaque
// session identifier.
const SessionCookie = "gatekit_session"

// Adapter mounts gatekit routes and middleware on a Fiber app.
type Adapter struct {
	app     *fiber.App
	handler core.AuthHandler

	// CookieSecure controls the Secure attribute on the session cookie.
	// Leave true outside of local development.
	CookieSecure bool
}

var _ core.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app, CookieSecure: true}
}

// RegisterRoutes mounts the auth endpoints under basePath.
func (a *Adapter) RegisterRoutes(handler core.AuthHandler, basePath string) error {
	a.handler = handler

	api := a.app.Group(basePath)

	// Public routes
	api.Post("/register", a.register)
	api.Post("/token/login", a.tokenLogin)
	api.Post("/session/login", a.sessionLogin)

	// Logout is deliberately public: destroying an absent session is a
	// no-op and always succeeds.
	api.Post("/session/logout", a.sessionLogout)

	// Protected routes
	api.Get("/session", a.RequireSession(), a.whoami)

	return nil
}
