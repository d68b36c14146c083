// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// Postgres reference data
	PostgresDSN string

	// Backend flight service
	BackendBaseURL      string
	BackendClientID     string
	BackendClientSecret string
	BackendTokenURL     string
	BackendScopes       []string
	BackendTimeout      time.Duration

	// Oracle gateway
	OracleEnabled bool
	OracleURL     string
	OracleAPIKey  string

	// RabbitMQ
	RabbitMQURL   string
	RabbitMQQueue string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// API auth
	JWTSecret string

	// Views
	DefaultTimezone      string
	DefaultPageSize      int
	TimeFormat           string
	SessionTTL           time.Duration
	CloseDialogOnFailure bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flightwatch"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		BackendBaseURL:      strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:3000/api"), "/"),
		BackendClientID:     getEnv("BACKEND_CLIENT_ID", ""),
		BackendClientSecret: getEnv("BACKEND_CLIENT_SECRET", ""),
		BackendTokenURL:     getEnv("BACKEND_TOKEN_URL", ""),
		BackendScopes:       getEnvAsList("BACKEND_SCOPES"),
		BackendTimeout:      time.Duration(getEnvAsInt("BACKEND_TIMEOUT", 30)) * time.Second,

		OracleEnabled: getEnvAsBool("ORACLE_ENABLED", false),
		OracleURL:     strings.TrimRight(getEnv("ORACLE_URL", ""), "/"),
		OracleAPIKey:  getEnv("ORACLE_API_KEY", ""),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue: getEnv("RABBITMQ_QUEUE", "flight.subscription.changed"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 60)) * time.Second,

		JWTSecret: getEnv("JWT_SECRET", ""),

		DefaultTimezone:      getEnv("DEFAULT_TIMEZONE", "America/New_York"),
		DefaultPageSize:      getEnvAsInt("DEFAULT_PAGE_SIZE", 10),
		TimeFormat:           getEnv("TIME_FORMAT", "utc"),
		SessionTTL:           time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		CloseDialogOnFailure: getEnvAsBool("CLOSE_DIALOG_ON_FAILURE", false),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
