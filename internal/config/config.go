package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	ServerPort string
	Debug      bool

	// Remote training platform
	UpstreamAPIURL  string
	UpstreamAPIKey  string
	UpstreamTimeout time.Duration

	// Export audit store
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	TemplatesPath string

	// Headless rendering
	ChromePath    string
	RenderTimeout time.Duration

	// Emailed download links
	ReportTokenSecret string
	ReportTokenTTL    time.Duration
	AWSRegion         string
	SESFromEmail      string
	SESFromName       string
	AppBaseURL        string
}

// Load reads configuration from the environment with sensible defaults. A
// .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "8080"),
		Debug:      getBoolEnv("DEBUG", false),

		UpstreamAPIURL:  getEnv("UPSTREAM_API_URL", "http://localhost:3000/api"),
		UpstreamAPIKey:  getEnv("UPSTREAM_API_KEY", ""),
		UpstreamTimeout: getDurationEnv("UPSTREAM_TIMEOUT", 15*time.Second),

		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DB_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./speakwise.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		TemplatesPath: getEnv("TEMPLATES_PATH", "./internal/templates"),

		ChromePath:    getEnv("CHROME_PATH", ""),
		RenderTimeout: getDurationEnv("RENDER_TIMEOUT", 45*time.Second),

		ReportTokenSecret: getEnv("REPORT_TOKEN_SECRET", "dev-only-secret"),
		ReportTokenTTL:    getDurationEnv("REPORT_TOKEN_TTL", 24*time.Hour),
		AWSRegion:         getEnv("AWS_REGION", "eu-west-1"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "SpeakWise"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
