package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	GeocoderAPIKey string
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string

	// USNOBaseURL points at the astronomical applications API root.
	USNOBaseURL string

	// HTTPTimeout bounds every outbound collaborator call.
	HTTPTimeout time.Duration

	// Geocode cache retention.
	CacheMaxEntries    int           // 0 = unlimited
	CacheMaxAge        time.Duration // 0 = unlimited
	CacheSweepInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = getenvDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	cfg.OpenAIModel = getenvDefault("OPENAI_MODEL", "gpt-4o-mini")

	cfg.USNOBaseURL = getenvDefault("USNO_BASE_URL", "https://aa.usno.navy.mil/api")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.CacheMaxEntries = getenvInt("GEOCODE_CACHE_MAX_ENTRIES", 256)

	maxAgeStr := getenvDefault("GEOCODE_CACHE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODE_CACHE_MAX_AGE: %w", err)
	}
	cfg.CacheMaxAge = maxAge

	sweepStr := getenvDefault("GEOCODE_CACHE_SWEEP_INTERVAL", "15m")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODE_CACHE_SWEEP_INTERVAL: %w", err)
	}
	cfg.CacheSweepInterval = sweep

	cfg.Port = getenvDefault("PORT", "8080")

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
