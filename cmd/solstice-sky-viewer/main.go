package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/sarmeyer/solstice-sky-viewer/internal/api/http"
	"github.com/sarmeyer/solstice-sky-viewer/internal/config"
	"github.com/sarmeyer/solstice-sky-viewer/internal/geo"
	"github.com/sarmeyer/solstice-sky-viewer/internal/llm"
	"github.com/sarmeyer/solstice-sky-viewer/internal/scheduler"
	"github.com/sarmeyer/solstice-sky-viewer/internal/sky"
	"github.com/sarmeyer/solstice-sky-viewer/internal/sky/providers"
	"github.com/sarmeyer/solstice-sky-viewer/internal/stella"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound collaborator calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Geocoding with an in-memory result cache.
	cache := geo.NewCache(cfg.CacheMaxEntries, cfg.CacheMaxAge)
	geocoder := geo.NewCachedGeocoder(geo.NewGoogleGeocoder(cfg.GeocoderAPIKey), cache)

	// USNO astronomy provider with the production catalog.
	provider := providers.NewUSNOProvider(httpClient, cfg.USNOBaseURL, sky.DefaultCatalog())

	skySvc := sky.NewService(geocoder, provider)

	// Stella grounded-chat service on top of the completion collaborator.
	completer := llm.NewOpenAIClient(httpClient, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	stellaSvc := stella.NewService(completer, stella.DefaultPersona)

	// Scheduler that periodically sweeps the geocode cache.
	sched := scheduler.New(cache, cfg.CacheSweepInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "solstice-sky-viewer",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized fallback: anything not mapped by a handler.
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "UNKNOWN",
					"message": err.Error(),
				},
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "solstice-sky-viewer",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, skySvc, stellaSvc)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
