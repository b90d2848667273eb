// README: Config loader with env defaults for HTTP, booking storage, rate limiting, events, and places.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type RateLimitConfig struct {
	Enabled  bool
	MaxCalls int
	Window   time.Duration
}

type Config struct {
	Env string
	Log struct {
		Level string
		File  string
	}
	HTTP struct {
		Addr        string
		CORSOrigins []string
		StaticDir   string
	}
	Booking struct {
		File         string
		StrictStatus bool
		Timezone     string
	}
	Pricing struct {
		RatesFile string
	}
	Redis struct {
		Addr string
	}
	RateLimit RateLimitConfig
	Kafka     struct {
		Brokers string
		Topic   string
	}
	Maps struct {
		APIKey string
	}
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	cfg.Env = envOrDefault("TAXIBOOK_ENV", "development")
	cfg.Log.Level = envOrDefault("TAXIBOOK_LOG_LEVEL", "info")
	cfg.Log.File = os.Getenv("TAXIBOOK_LOG_FILE")

	cfg.HTTP.Addr = envOrDefault("TAXIBOOK_HTTP_ADDR", ":"+envOrDefault("PORT", "3000"))
	cfg.HTTP.CORSOrigins = envList("TAXIBOOK_CORS_ORIGINS")
	cfg.HTTP.StaticDir = os.Getenv("TAXIBOOK_STATIC_DIR")

	cfg.Booking.File = envOrDefault("TAXIBOOK_BOOKINGS_FILE", "bookings.json")
	cfg.Booking.StrictStatus = envOrDefaultBool("TAXIBOOK_STRICT_STATUS", false)
	cfg.Booking.Timezone = envOrDefault("TAXIBOOK_TIMEZONE", "Local")

	cfg.Pricing.RatesFile = os.Getenv("TAXIBOOK_RATES_FILE")

	cfg.Redis.Addr = os.Getenv("TAXIBOOK_REDIS_ADDR")

	cfg.RateLimit.Enabled = envOrDefaultBool("TAXIBOOK_RATE_LIMIT_ENABLED", true)
	cfg.RateLimit.MaxCalls = envOrDefaultInt("TAXIBOOK_RATE_LIMIT_MAX", 100)
	cfg.RateLimit.Window = envOrDefaultDuration("TAXIBOOK_RATE_LIMIT_WINDOW", time.Minute)

	cfg.Kafka.Brokers = os.Getenv("TAXIBOOK_KAFKA_BROKERS")
	cfg.Kafka.Topic = envOrDefault("TAXIBOOK_KAFKA_TOPIC", "booking.events")

	cfg.Maps.APIKey = os.Getenv("TAXIBOOK_MAPS_API_KEY")
	return cfg, nil
}

// Location resolves the booking timezone; unknown names fall back to local time.
func (c Config) Location() *time.Location {
	if c.Booking.Timezone == "" || c.Booking.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func envList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
