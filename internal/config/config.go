package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Gemini configuration
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	RequestTimeout  time.Duration
	GeminiRateLimit int // requests per minute, 0 for unlimited

	// Status feed pacing. 1.0 plays the timeline in real time, 0 fires it immediately.
	LogDelayScale float64

	// Result cache
	ValkeyAddress  string
	ValkeyPassword string
	CacheTTL       time.Duration

	// Report archive
	StorageAccount   string
	StorageContainer string
	LocalStorageDir  string
	ArchiveRetention int

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Scheduled audits
	ReportSchedule string // "daily" or "weekly"
	Watchlist      []string

	// Lexicon cross-check of model sentiment labels
	EnableSentimentCrossCheck bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", getEnv("API_KEY", "")),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", ""),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 90*time.Second),
		GeminiRateLimit: getIntEnv("GEMINI_RATE_LIMIT", 0),

		LogDelayScale: getFloatEnv("LOG_DELAY_SCALE", 1.0),

		ValkeyAddress:  getEnv("VALKEY_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		CacheTTL:       getDurationEnv("CACHE_TTL", 6*time.Hour),

		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "audits"),
		LocalStorageDir:  getEnv("LOCAL_STORAGE_DIR", "data"),
		ArchiveRetention: getIntEnv("ARCHIVE_RETENTION", 0),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		ReportSchedule: getEnv("REPORT_SCHEDULE", "weekly"),
		Watchlist:      getSliceEnv("WATCHLIST", nil),

		EnableSentimentCrossCheck: getBoolEnv("ENABLE_SENTIMENT_CROSSCHECK", true),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ReportSchedule != "daily" && c.ReportSchedule != "weekly" {
		return fmt.Errorf("REPORT_SCHEDULE must be 'daily' or 'weekly'")
	}

	if c.LogDelayScale < 0 {
		return fmt.Errorf("LOG_DELAY_SCALE must not be negative")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.GeminiRateLimit < 0 {
		return fmt.Errorf("GEMINI_RATE_LIMIT must not be negative")
	}

	if c.ArchiveRetention < 0 {
		return fmt.Errorf("ARCHIVE_RETENTION must not be negative")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// NotificationsEnabled reports whether any report channel is configured
func (c *Config) NotificationsEnabled() bool {
	return c.TeamsWebhookURL != "" || c.NotificationEmail != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
