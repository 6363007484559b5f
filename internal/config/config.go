package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Logging  LoggingConfig
	Security SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	MaxHeaderBytes  int
}

// UpstreamConfig holds the backend API configuration
type UpstreamConfig struct {
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     uint64
	InitialBackoff time.Duration
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider        string
	TTL             time.Duration
	MaxKeys         int
	CleanupInterval time.Duration
	RedisURL        string
	RedisDB         int
	RedisPassword   string
	PoolSize        int
}

// AuthConfig holds JWT verification configuration
type AuthConfig struct {
	JWTSecret    string
	JWTIssuer    string
	CookieName   string
	CookieSecure bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string
	Format      string // "json" or "console"
	Development bool
}

// SecurityConfig holds rate limiting and CORS configuration
type SecurityConfig struct {
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	AllowedOrigins    []string
}

// Load reads configuration from the environment, applying defaults. A .env
// file is honored when present so local development needs no exported vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			GracefulTimeout: getDuration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			MaxHeaderBytes:  getInt("SERVER_MAX_HEADER_BYTES", 1<<20),
		},
		Upstream: UpstreamConfig{
			BaseURL:        getEnv("UPSTREAM_BASE_URL", "http://localhost:4000"),
			Timeout:        getDuration("UPSTREAM_TIMEOUT", 10*time.Second),
			MaxRetries:     uint64(getInt("UPSTREAM_MAX_RETRIES", 3)),
			InitialBackoff: getDuration("UPSTREAM_INITIAL_BACKOFF", 200*time.Millisecond),
		},
		Cache: CacheConfig{
			Provider:        getEnv("CACHE_PROVIDER", "memory"),
			TTL:             getDuration("CACHE_TTL", 5*time.Minute),
			MaxKeys:         getInt("CACHE_MAX_KEYS", 10000),
			CleanupInterval: getDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
			RedisURL:        getEnv("REDIS_URL", ""),
			RedisDB:         getInt("REDIS_DB", 0),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			PoolSize:        getInt("REDIS_POOL_SIZE", 10),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", ""),
			JWTIssuer:    getEnv("JWT_ISSUER", "archnet"),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "archnet_token"),
			CookieSecure: getBool("AUTH_COOKIE_SECURE", false),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Development: getEnv("ENVIRONMENT", "development") == "development",
		},
		Security: SecurityConfig{
			RateLimitEnabled:  getBool("RATE_LIMIT_ENABLED", true),
			RateLimitRequests: getInt("RATE_LIMIT_REQUESTS", 100),
			RateLimitWindow:   getDuration("RATE_LIMIT_WINDOW", time.Minute),
			AllowedOrigins:    getSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL is required")
	}
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if provider := strings.ToLower(c.Cache.Provider); provider != "memory" && provider != "redis" {
		return fmt.Errorf("unsupported cache provider: %s", c.Cache.Provider)
	}
	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getSlice(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
