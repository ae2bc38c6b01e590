package config

import (
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the herb traceability service
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBDisable  bool

	// Server configuration
	Port string

	// Auth configuration
	JWTSecret string

	// Identity allowed to mutate zone state until it transfers authority
	AuthorityID string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Load .env file if present; environment takes precedence
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded configuration from .env file")
	}

	config := &Config{
		// Database defaults
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret"),
		DBName:     getEnv("DB_NAME", "herbtrace"),
		DBDisable:  getBoolEnv("DB_DISABLE", false),

		// Server defaults
		Port: getEnv("PORT", "8080"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),

		AuthorityID: getEnv("AUTHORITY_ID", "authority"),
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable or returns a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
