package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/geo"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// Geocoder selects the reverse geocoding backend: "openweather" or "google".
	Geocoder             string
	GoogleGeocoderAPIKey string

	// Outbound HTTP behaviour.
	HTTPTimeout   time.Duration
	ProviderRPS   float64
	ProviderBurst int

	// Map selection privacy.
	ObfuscationRadiusMeters float64
	ObfuscationSampling     geo.Sampling

	// DayClock is the reference clock for daily forecast buckets.
	DayClock weather.DayClock

	// Recent searches persistence: "file", "sqlite" or "memory".
	RecentStore     string
	RecentStorePath string

	// RefreshInterval controls how often recent cities are refreshed (0 = disabled).
	RefreshInterval time.Duration

	// In-memory snapshot retention.
	StoreMaxHistory int           // max number of snapshots per place (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	ListenAddr string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")

	cfg.Geocoder = getenvDefault("GEOCODER", "openweather")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")
	switch cfg.Geocoder {
	case "openweather":
	case "google":
		if cfg.GoogleGeocoderAPIKey == "" {
			return nil, fmt.Errorf("GEOCODER=google requires GOOGLE_GEOCODER_API_KEY")
		}
	default:
		return nil, fmt.Errorf("invalid GEOCODER %q", cfg.Geocoder)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.ProviderRPS = getenvFloat("PROVIDER_RPS", 1)
	cfg.ProviderBurst = getenvInt("PROVIDER_BURST", 5)

	cfg.ObfuscationRadiusMeters = getenvFloat("OBFUSCATION_RADIUS_METERS", geo.DefaultRadiusMeters)
	if cfg.ObfuscationRadiusMeters < 0 {
		return nil, fmt.Errorf("invalid OBFUSCATION_RADIUS_METERS: must not be negative")
	}
	sampling, ok := geo.ParseSampling(getenvDefault("OBFUSCATION_SAMPLING", "center"))
	if !ok {
		return nil, fmt.Errorf("invalid OBFUSCATION_SAMPLING: use center or uniform")
	}
	cfg.ObfuscationSampling = sampling

	cfg.DayClock = weather.DayClock(getenvDefault("DAY_KEY_CLOCK", string(weather.DayClockLocation)))
	if cfg.DayClock != weather.DayClockLocation && cfg.DayClock != weather.DayClockViewer {
		return nil, fmt.Errorf("invalid DAY_KEY_CLOCK %q: use location or viewer", cfg.DayClock)
	}

	cfg.RecentStore = getenvDefault("RECENT_STORE", "file")
	switch cfg.RecentStore {
	case "file":
		cfg.RecentStorePath = getenvDefault("RECENT_STORE_PATH", "recent_searches.json")
	case "sqlite":
		cfg.RecentStorePath = getenvDefault("RECENT_STORE_PATH", "recent_searches.db")
	case "memory":
	default:
		return nil, fmt.Errorf("invalid RECENT_STORE %q", cfg.RecentStore)
	}

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 12) // roughly 6h at 30-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "6h"); err != nil {
		return nil, err
	}

	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", "127.0.0.1:8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
