package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lajketz/site/internal/config"
	"github.com/lajketz/site/internal/middleware"
	"github.com/lajketz/site/internal/prefs"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, handlers *Handlers, cfg *config.Config) {
	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(clientHints)

	app.Static("/static", cfg.StaticDir, fiber.Static{
		Compress: true,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})

	app.Get("/health", handlers.HealthCheck)

	// Pages
	app.Get(PathHome, handlers.Home)
	app.Get(PathBlog, handlers.BlogIndex)
	app.Get("/blog/:slug", middleware.ValidSlug("slug"), handlers.BlogDetail)
	app.Get("/blog/:slug/download", middleware.ValidSlug("slug"), handlers.Download)
	app.Get("/analysis/:slug", middleware.ValidSlug("slug"), handlers.AnalysisDetail)
	app.Get("/cms-test", handlers.CMSTest)

	// Preference fallbacks for clients without script
	app.Get("/prefs/lang/:code", handlers.SetLanguage)
	app.Get("/prefs/theme/:mode", handlers.SetTheme)

	api := app.Group("/api")
	{
		api.Post("/revalidate",
			middleware.SecretKey(cfg.RevalidateSecret),
			middleware.ValidateBody[RevalidateRequest](),
			handlers.Revalidate,
		)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}

// clientHints asks browsers for their color scheme so the first render can
// match it.
func clientHints(c *fiber.Ctx) error {
	c.Set("Accept-CH", prefs.ColorSchemeHint)
	c.Vary(fiber.HeaderCookie, prefs.ColorSchemeHint)
	return c.Next()
}
