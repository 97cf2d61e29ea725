package config

import (
	"os"
	"strconv"
	"time"

	"drawforge/domain/draw"
	"drawforge/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Generator GeneratorConfig
	Weather   WeatherConfig
	Database  DatabaseConfig
	Server    ServerConfig
}

// GeneratorConfig holds the draw generation settings. These are startup
// constants, never runtime-mutable.
type GeneratorConfig struct {
	NumbersPerDraw int
	MaxNumber      int
	StarsPerDraw   int
	MaxStar        int
	BatchSize      int
	Workers        int
}

// Rules converts the generator settings to the domain configuration.
func (g GeneratorConfig) Rules() draw.Rules {
	return draw.Rules{
		NumbersPerDraw: g.NumbersPerDraw,
		MaxNumber:      g.MaxNumber,
		StarsPerDraw:   g.StarsPerDraw,
		MaxStar:        g.MaxStar,
	}
}

// WeatherConfig holds the Open-Meteo client settings
type WeatherConfig struct {
	APIURL  string
	Timeout time.Duration
}

// DatabaseConfig holds database connection settings. URL may be empty, in
// which case persistence is disabled.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Generator: GeneratorConfig{
			NumbersPerDraw: getEnvIntOrDefault("NUMBERS_PER_DRAW", draw.DefaultRules.NumbersPerDraw),
			MaxNumber:      getEnvIntOrDefault("MAX_NUMBER", draw.DefaultRules.MaxNumber),
			StarsPerDraw:   getEnvIntOrDefault("STARS_PER_DRAW", draw.DefaultRules.StarsPerDraw),
			MaxStar:        getEnvIntOrDefault("MAX_STAR", draw.DefaultRules.MaxStar),
			BatchSize:      getEnvIntOrDefault("BATCH_SIZE", 100),
			Workers:        getEnvIntOrDefault("WORKERS", 1),
		},
		Weather: WeatherConfig{
			APIURL:  getEnvOrDefault("OPENMETEO_API_URL", "https://api.open-meteo.com/v1/forecast"),
			Timeout: getEnvDurationOrDefault("WEATHER_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	// Degenerate draw rules are a fatal precondition violation; fail here
	// rather than looping or truncating samples at generation time.
	if err := config.Generator.Rules().Validate(); err != nil {
		return errors.Wrap(err, "invalid generator configuration")
	}
	if config.Generator.BatchSize < 0 {
		return errors.ConfigInvalid("BATCH_SIZE cannot be negative")
	}
	if config.Generator.Workers < 1 {
		return errors.ConfigInvalid("WORKERS must be at least 1")
	}
	if config.Weather.APIURL == "" {
		return errors.ConfigInvalid("OPENMETEO_API_URL cannot be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
