// Command gatekitd runs the demo authentication server: gatekit wired to
// PostgreSQL storage and a Fiber app, with the three strategies each
// guarding their own protected routes.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mwynn/gatekit"
	fiberadapter "github.com/mwynn/gatekit/adapters/fiber"
	pgxadapter "github.com/mwynn/gatekit/adapters/pgx"
	"github.com/mwynn/gatekit/core"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(); err != nil {
		slog.Error("gatekitd exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pgxadapter.RunMigrations(cfg.DatabaseURL); err != nil {
		return err
	}
	slog.Info("migrations applied")

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	app := fiber.New()

	collector := NewCollector()
	app.Use(collector.Middleware())
	app.Use(logger.New())
	app.Get("/metrics", collector.Handler())

	httpAdapter := fiberadapter.New(app)
	httpAdapter.CookieSecure = cfg.CookieSecure

	g, err := gatekit.New(gatekit.Config{
		Secret:        cfg.AuthSecret,
		Storage:       pgxadapter.New(pool),
		HTTP:          httpAdapter,
		SessionConfig: &gatekit.SessionConfig{TTL: cfg.SessionTTL},
		TokenConfig:   &gatekit.TokenConfig{TTL: cfg.TokenTTL, Leeway: cfg.TokenLeeway},
	})
	if err != nil {
		return err
	}

	registerProtectedRoutes(app, httpAdapter)

	go sweepSessions(ctx, g, cfg.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("port", cfg.ServerPort))
		errCh <- app.Listen(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

// registerProtectedRoutes demonstrates the authenticate → authorize → handle
// chain for each strategy.
func registerProtectedRoutes(app *fiber.App, a *fiberadapter.Adapter) {
	// Stateless token: any authenticated role, then admin-only.
	app.Get("/api/dashboard", a.RequireToken(), dashboard)
	app.Get("/api/admin/dashboard",
		a.RequireToken(),
		fiberadapter.RequireRoles(core.RoleAdmin),
		adminDashboard,
	)

	// Cookie session.
	app.Get("/api/profile", a.RequireSession(), profile)

	// Header credentials, re-verified on every request.
	app.Get("/api/basic/ping", a.RequireBasic(), ping)
}

func dashboard(c fiber.Ctx) error {
	identity, err := fiberadapter.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "welcome to the dashboard",
		"user":    identity,
	})
}

func adminDashboard(c fiber.Ctx) error {
	identity, err := fiberadapter.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "welcome, admin",
		"user":    identity,
	})
}

func profile(c fiber.Ctx) error {
	identity, err := fiberadapter.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "user profile",
		"user":    identity,
	})
}

func ping(c fiber.Ctx) error {
	identity, err := fiberadapter.IdentityFromCtx(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "pong",
		"user":    identity,
	})
}

// sweepSessions reclaims expired session rows on a timer. Lazy expiry keeps
// them unusable in the meantime.
func sweepSessions(ctx context.Context, g *gatekit.Gatekit, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := g.Sessions.Sweep(ctx)
			if err != nil {
				slog.Error("session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if count > 0 {
				slog.Info("session sweep", slog.Int("deleted", count))
			}
		}
	}
}
