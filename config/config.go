package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT" validate:"required"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME" validate:"required_if=BackendMode mongo"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN" validate:"min=1"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Google Maps API Key.
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	// Geocoding cache and batching.
	GeoCacheSize  int           `mapstructure:"GEO_CACHE_SIZE" validate:"min=1"`
	GeoCacheTTL   time.Duration `mapstructure:"GEO_CACHE_TTL"`
	GeoBatchSize  int           `mapstructure:"GEO_BATCH_SIZE" validate:"min=1"`
	GeoBatchDelay time.Duration `mapstructure:"GEO_BATCH_DELAY"`

	// Persistence collaborator: "mongo" or "remote".
	BackendMode    string        `mapstructure:"BACKEND_MODE" validate:"oneof=mongo remote"`
	BackendBaseURL string        `mapstructure:"BACKEND_BASE_URL" validate:"required_if=BackendMode remote,omitempty,url"`
	BackendToken   string        `mapstructure:"BACKEND_TOKEN"`
	BackendTimeout time.Duration `mapstructure:"BACKEND_TIMEOUT"`

	SessionTTL time.Duration `mapstructure:"SESSION_TTL" validate:"gt=0"`
}

var AppConfig Config

var validate = validator.New()

func LoadConfig() {
	loadDotEnv(6)

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("TIMEZONE", "America/New_York")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_SESSION_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "shootdispatch")
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("GEO_CACHE_SIZE", 2048)
	viper.SetDefault("GEO_CACHE_TTL", 24*time.Hour)
	viper.SetDefault("GEO_BATCH_SIZE", 5)
	viper.SetDefault("GEO_BATCH_DELAY", 200*time.Millisecond)
	viper.SetDefault("BACKEND_MODE", "mongo")
	viper.SetDefault("BACKEND_BASE_URL", "")
	viper.SetDefault("BACKEND_TOKEN", "")
	viper.SetDefault("BACKEND_TIMEOUT", 10*time.Second)
	viper.SetDefault("SESSION_TTL", 30*time.Minute)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := Validate(&AppConfig); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
}

// Validate checks the loaded values.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the business timezone, falling back to UTC.
func Location() *time.Location {
	if AppConfig.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using UTC", AppConfig.Timezone)
		return time.UTC
	}
	return loc
}
