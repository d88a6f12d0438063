package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	LogLevel     string
	HTTPAddr     string
	MetricsAddr  string
	APIKey       string
	LegacyBase   string
	V1Base       string
	GeocodeURL   string
	MapsJSURL    string
	HTTPTimeout  time.Duration
	APIRPS       int
	ProfilesFile string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:       env("APP_ENV", "dev"),
		LogLevel:     env("LOG_LEVEL", "info"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		APIKey:       env("GOOGLE_PLACES_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		LegacyBase:   env("PLACES_LEGACY_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		V1Base:       env("PLACES_NEW_BASE_URL", "https://places.googleapis.com/v1"),
		GeocodeURL:   env("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		MapsJSURL:    env("MAPS_JS_URL", "https://maps.googleapis.com/maps/api/js"),
		HTTPTimeout:  time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 20)) * time.Second,
		APIRPS:       atoi("API_RPS", 2),
		ProfilesFile: env("PROFILES_FILE", ""),
	}
	if c.APIKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
