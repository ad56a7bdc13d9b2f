package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/recent"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls, rate limited as a whole.
	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		Backoff: providers.DefaultBackoff,
		Limiter: rate.NewLimiter(rate.Limit(cfg.ProviderRPS), cfg.ProviderBurst),
	}
	owm := providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherBaseURL, cfg.OpenWeatherAPIKey)

	var geocoder geo.ReverseGeocoder = owm
	if cfg.Geocoder == "google" {
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
	}
	resolver := geo.NewResolver(geocoder, geo.NewObfuscator(nil, cfg.ObfuscationSampling), cfg.ObfuscationRadiusMeters)

	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		log.Fatalf("failed to open recent searches store: %v", err)
	}
	defer closeSlot.Close()

	// In-memory table of refreshed conditions with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	service := weather.NewService(owm, resolver, recent.NewStore(slot), memStore, weather.Options{
		DayClock: cfg.DayClock,
	})

	// Scheduler that periodically refreshes recent cities.
	sched := scheduler.New(cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup",
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Printf("INFO: listening on %s", cfg.ListenAddr)
		if err := app.Listen(cfg.ListenAddr); err != nil {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openSlot picks the persistence backend for recent searches.
func openSlot(cfg *config.AppConfig) (recent.Slot, io.Closer, error) {
	switch cfg.RecentStore {
	case "sqlite":
		slot, err := recent.NewSQLiteSlot(cfg.RecentStorePath)
		if err != nil {
			return nil, nil, err
		}
		return slot, slot, nil
	case "memory":
		return &recent.MemorySlot{}, nopCloser{}, nil
	default:
		return recent.NewFileSlot(cfg.RecentStorePath), nopCloser{}, nil
	}
}
