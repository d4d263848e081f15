package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Engine   EngineConfig
	Retry    RetryConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// EngineConfig holds compensation-plan parameters for the propagation engine.
type EngineConfig struct {
	// SponsorPercentage is the flat direct-income commission paid to a
	// buyer's sponsor on every purchase (0.10 = 10%).
	SponsorPercentage float64
}

// RetryConfig holds settings for the pending-propagation retry job.
type RetryConfig struct {
	IntervalMinutes int
	GraceMinutes    int
	BatchLimit      int
	Concurrency     int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/commission_engine.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Engine: EngineConfig{
			SponsorPercentage: getEnvFloat("SPONSOR_PERCENTAGE", 0.10),
		},
		Retry: RetryConfig{
			IntervalMinutes: getEnvInt("RETRY_INTERVAL_MINUTES", 5),
			GraceMinutes:    getEnvInt("RETRY_GRACE_MINUTES", 2),
			BatchLimit:      getEnvInt("RETRY_BATCH_LIMIT", 100),
			Concurrency:     getEnvInt("RETRY_CONCURRENCY", 4),
		},
	}

	if config.Engine.SponsorPercentage < 0 || config.Engine.SponsorPercentage > 1 {
		return nil, fmt.Errorf("SPONSOR_PERCENTAGE must be between 0 and 1, got %f", config.Engine.SponsorPercentage)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
