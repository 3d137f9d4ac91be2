package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	RedisAddr    string
	ServiceName  string

	// AdConfigURL is the remote owners+ads JSON document to serve from.
	AdConfigURL    string
	ConfigCacheTTL time.Duration

	// AllowedOrigin is the single origin permitted to read API responses.
	AllowedOrigin string

	TokenSecret string

	// CounterTTL bounds how long daily counters are retained.
	CounterTTL time.Duration
	// Timezone is the IANA zone used to derive the day bucket.
	Timezone string

	// Tracing configuration
	TracingEnabled    bool
	TempoEndpoint     string
	TracingSampleRate float64
}

// Load parses environment variables and returns a Config populated with
// defaults when variables are absent.
func Load() Config {
	cfg := Config{}

	cfg.Port = getenv("PORT", "8788")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 5*time.Second)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 10*time.Second)
	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.ServiceName = getenv("SERVICE_NAME", "adrotor")

	cfg.AdConfigURL = getenv("AD_CONFIG_URL", "")
	cfg.ConfigCacheTTL = envDuration("CONFIG_CACHE_TTL", 5*time.Minute)

	cfg.AllowedOrigin = getenv("ALLOWED_ORIGIN", "")
	cfg.TokenSecret = getenv("TOKEN_SECRET", "")

	// Counters partition by day, so keep them a little past two days to
	// survive timezone math around midnight.
	cfg.CounterTTL = envDuration("COUNTER_TTL", 50*time.Hour)
	cfg.Timezone = getenv("TIMEZONE", "Asia/Dhaka")

	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.TempoEndpoint = getenv("TEMPO_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration.
// The value can be a duration string (e.g. "5s") or a number of seconds.
// If the variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. Accepted values are those
// supported by strconv.ParseBool. When unset or invalid, def is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
