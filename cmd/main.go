package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lajketz/site/internal/api"
	"github.com/lajketz/site/internal/archive"
	"github.com/lajketz/site/internal/assemble"
	"github.com/lajketz/site/internal/cache"
	"github.com/lajketz/site/internal/config"
	"github.com/lajketz/site/internal/content"
	"github.com/lajketz/site/internal/logger"
	"github.com/lajketz/site/internal/middleware"
	"github.com/lajketz/site/internal/sanity"
	"github.com/lajketz/site/internal/views"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	output := cfg.LogFile
	if output == "" {
		output = "stdout"
	}
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.LogPretty,
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Msg("Starting application...")

	// Content store
	client, err := sanity.NewClient(sanity.Config{
		ProjectID:  cfg.SanityProjectID,
		Dataset:    cfg.SanityDataset,
		APIVersion: cfg.SanityAPIVersion,
		UseCDN:     cfg.SanityUseCDN,
		Token:      cfg.SanityToken,
		Timeout:    cfg.SanityTimeout,
		Retries:    cfg.SanityRetries,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize content client")
	}
	pages := assemble.New(content.NewRepository(client))

	// Render cache
	store := cache.Open(cfg)
	defer func() {
		log.Info().Msg("Closing view cache...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing view cache")
		}
	}()

	// Document archive
	mirror, err := archive.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ArchiveBackend).Msg("Failed to initialize document archive")
	}

	renderer, err := views.New(views.Site{
		Name:        cfg.SiteName,
		Title:       cfg.SiteTitle,
		URL:         cfg.SiteURL,
		Description: cfg.SiteDescription,
		Image:       cfg.SiteImage,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
		Views:        renderer,
		AppName:      cfg.SiteName,
	})

	handlers := api.NewHandlers(cfg, pages, cache.NewViews(store, cfg.CacheTTL), mirror)
	api.SetupRoutes(app, handlers, cfg)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
