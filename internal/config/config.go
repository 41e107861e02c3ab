package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DataSourceStatic   = "static"
	DataSourceMongo    = "mongo"
	DataSourcePostgres = "postgres"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins []string

	DataSource  string
	MongoURI    string
	MongoDB     string
	PostgresURL string

	Redis RedisConfig
	Cache CacheConfig

	Display             DisplayConfig
	AutoRefreshInterval time.Duration
	// Minimum movement between refreshes reported as a unit change
	ChangeDistanceMeters float64

	RateLimitEnabled bool
	RateLimitBackend string
	// Per-client overrides, "client@METHOD:/route=rpm/burst" separated by commas
	RateLimitOverrides string

	LogLevel  string
	LogFormat string
}

// RedisConfig holds connection and pool settings for the Redis client.
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	URL          string
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	RetryDelay   time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

type CacheConfig struct {
	Enabled     bool
	SnapshotTTL time.Duration
}

// DisplayConfig controls how timestamps are rendered to users.
type DisplayConfig struct {
	Timezone string
	Locale   string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, the environment may be set by the deployment
	_ = godotenv.Load()

	allowedOrigins := getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AllowedOrigins: splitAndTrim(allowedOrigins),

		DataSource:  strings.ToLower(getEnv("DATA_SOURCE", DataSourceStatic)),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     getEnv("MONGO_DATABASE", "gps_monitor"),
		PostgresURL: os.Getenv("POSTGRES_URL"),

		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           getEnvInt("REDIS_DB", 0),
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxRetries:   getEnvInt("REDIS_MAX_RETRIES", 3),
			RetryDelay:   getEnvDuration("REDIS_RETRY_DELAY", 500*time.Millisecond),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getEnvDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
		},
		Cache: CacheConfig{
			Enabled:     getEnvBool("CACHE_ENABLED", false),
			SnapshotTTL: getEnvDuration("CACHE_SNAPSHOT_TTL", 30*time.Second),
		},

		Display: DisplayConfig{
			Timezone: getEnv("DISPLAY_TIMEZONE", "Asia/Jakarta"),
			Locale:   strings.ToLower(getEnv("DISPLAY_LOCALE", "en")),
		},
		AutoRefreshInterval:  getEnvDuration("AUTO_REFRESH_INTERVAL", 0),
		ChangeDistanceMeters: getEnvFloat("CHANGE_DISTANCE_METERS", 100),

		RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitBackend:   strings.ToLower(getEnv("RATE_LIMIT_BACKEND", RateLimitBackendMemory)),
		RateLimitOverrides: os.Getenv("RATE_LIMIT_OVERRIDES"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements that defaults cannot satisfy.
func (c *Config) Validate() error {
	var errs []error

	switch c.DataSource {
	case DataSourceStatic:
	case DataSourceMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when DATA_SOURCE=mongo"))
		}
	case DataSourcePostgres:
		if c.PostgresURL == "" {
			errs = append(errs, errors.New("POSTGRES_URL is required when DATA_SOURCE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATA_SOURCE %q", c.DataSource))
	}

	switch c.RateLimitBackend {
	case RateLimitBackendMemory, RateLimitBackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimitBackend))
	}

	if _, err := time.LoadLocation(c.Display.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.Display.Timezone, err))
	}
	if c.AutoRefreshInterval < 0 {
		errs = append(errs, errors.New("AUTO_REFRESH_INTERVAL must not be negative"))
	}
	if c.ChangeDistanceMeters <= 0 {
		errs = append(errs, errors.New("CHANGE_DISTANCE_METERS must be positive"))
	}
	if c.Cache.SnapshotTTL <= 0 {
		errs = append(errs, errors.New("CACHE_SNAPSHOT_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.Cache.Enabled || (c.RateLimitEnabled && c.RateLimitBackend == RateLimitBackendRedis)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("30s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
