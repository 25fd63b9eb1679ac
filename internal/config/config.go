package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Store types
const (
	StoreTypeSupabase = "supabase"
	StoreTypeSQLite   = "sqlite"
)

// Generation modes
const (
	GenerationModeLive = "live"
	GenerationModeMock = "mock"
)

// DefaultModelName is used when GEMINI_MODEL is not set
const DefaultModelName = "gemini-1.5-pro"

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Generation  GenerationConfig
	Store       StoreConfig
	CORS        CORSConfig
	Identity    IdentityConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

// GenerationConfig holds the text generation backend configuration
type GenerationConfig struct {
	APIKey    string
	ModelName string
	BaseURL   string
	Mode      string // "live" or "mock"
	Timeout   time.Duration
}

// StoreConfig holds trip store configuration
type StoreConfig struct {
	Type       string // "supabase" or "sqlite"
	URL        string
	Key        string
	SQLitePath string
	Timeout    time.Duration
}

// CORSConfig holds cross-origin configuration shared by both endpoints
type CORSConfig struct {
	AllowOrigin string
}

// IdentityConfig holds the optional signed identity policy configuration
type IdentityConfig struct {
	TokenSecret   string
	TokenDuration time.Duration
	// IssueDevTokens exposes the token issuing route on the dev server
	IssueDevTokens bool
}

// RateLimitConfig holds server-mode rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("GEMINI_MODEL", DefaultModelName)
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GENERATION_MODE", GenerationModeLive)
	v.SetDefault("GENERATION_TIMEOUT", "0s")
	v.SetDefault("TRIP_STORE", StoreTypeSupabase)
	v.SetDefault("SQLITE_PATH", "./data/trips.db")
	v.SetDefault("STORE_TIMEOUT", "0s")
	v.SetDefault("CORS_ALLOW_ORIGIN", "*")
	v.SetDefault("USER_TOKEN_DURATION", "24h")
	v.SetDefault("ENABLE_DEV_TOKENS", false)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	generationTimeout, err := durationSetting(v, "GENERATION_TIMEOUT")
	if err != nil {
		return nil, err
	}
	storeTimeout, err := durationSetting(v, "STORE_TIMEOUT")
	if err != nil {
		return nil, err
	}
	tokenDuration, err := durationSetting(v, "USER_TOKEN_DURATION")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Generation: GenerationConfig{
			APIKey:    strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
			ModelName: v.GetString("GEMINI_MODEL"),
			BaseURL:   v.GetString("GEMINI_BASE_URL"),
			Mode:      strings.ToLower(v.GetString("GENERATION_MODE")),
			Timeout:   generationTimeout,
		},
		Store: StoreConfig{
			Type:       strings.ToLower(v.GetString("TRIP_STORE")),
			URL:        strings.TrimSpace(v.GetString("SUPABASE_URL")),
			Key:        strings.TrimSpace(v.GetString("SUPABASE_SERVICE_ROLE_KEY")),
			SQLitePath: v.GetString("SQLITE_PATH"),
			Timeout:    storeTimeout,
		},
		CORS: CORSConfig{
			AllowOrigin: v.GetString("CORS_ALLOW_ORIGIN"),
		},
		Identity: IdentityConfig{
			TokenSecret:    v.GetString("USER_TOKEN_SECRET"),
			TokenDuration:  tokenDuration,
			IssueDevTokens: v.GetBool("ENABLE_DEV_TOKENS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}

	if config.Generation.ModelName == "" {
		config.Generation.ModelName = DefaultModelName
	}

	return config, nil
}

// durationSetting reads key as a Go duration string. A bare number is taken as seconds.
func durationSetting(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}

	if seconds, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

// Validate validates the trip store configuration.
// A missing endpoint or key is a startup error, never a per-request one.
func (c *StoreConfig) Validate() error {
	switch c.Type {
	case StoreTypeSupabase:
		if c.URL == "" || c.Key == "" {
			return fmt.Errorf("missing SUPABASE_URL or SUPABASE_SERVICE_ROLE_KEY")
		}
	case StoreTypeSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("missing SQLITE_PATH for sqlite trip store")
		}
	default:
		return fmt.Errorf("unsupported trip store type: %q", c.Type)
	}
	return nil
}

// Validate validates the generation configuration.
// The API key is deliberately not checked here; its absence is reported per request.
func (c *GenerationConfig) Validate() error {
	switch c.Mode {
	case GenerationModeLive, GenerationModeMock:
	default:
		return fmt.Errorf("unsupported generation mode: %q", c.Mode)
	}
	if c.ModelName == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("generation timeout cannot be negative")
	}
	return nil
}

// HasCredential reports whether a generation API key is configured
func (c *GenerationConfig) HasCredential() bool {
	return c.APIKey != ""
}

// DevTokensEnabled reports whether the dev server may mint identity tokens.
// Production never does, whatever ENABLE_DEV_TOKENS says.
func (c *Config) DevTokensEnabled() bool {
	return c.Identity.IssueDevTokens && c.Identity.TokenSecret != "" && !c.IsProduction()
}

// IsProduction reports whether the application runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the application logger from the log configuration
func NewLogger(cfg LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" || IsServerlessMode() {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
