package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "GEMINI_API_KEY", "API_KEY", "GEMINI_MODEL", "REPORT_SCHEDULE", "WATCHLIST", "NOTIFICATION_EMAIL", "LOG_DELAY_SCALE", "REQUEST_TIMEOUT", "CACHE_TTL", "TEAMS_WEBHOOK_URL", "ENABLE_SENTIMENT_CROSSCHECK", "GEMINI_RATE_LIMIT", "ARCHIVE_RETENTION"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 6*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 1.0, cfg.LogDelayScale)
	assert.Equal(t, "weekly", cfg.ReportSchedule)
	assert.Nil(t, cfg.Watchlist)
	assert.True(t, cfg.EnableSentimentCrossCheck)
	assert.Equal(t, 0, cfg.GeminiRateLimit)
	assert.Equal(t, 0, cfg.ArchiveRetention)
	assert.False(t, cfg.NotificationsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("NOTIFICATION_EMAIL", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("WATCHLIST", " MrBeast, MKBHD ,,")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("LOG_DELAY_SCALE", "0")
	t.Setenv("REPORT_SCHEDULE", "daily")
	t.Setenv("TEAMS_WEBHOOK_URL", "https://example.com/hook")
	t.Setenv("GEMINI_RATE_LIMIT", "15")
	t.Setenv("ARCHIVE_RETENTION", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.GeminiAPIKey)
	assert.Equal(t, []string{"MrBeast", "MKBHD"}, cfg.Watchlist)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0.0, cfg.LogDelayScale)
	assert.Equal(t, "daily", cfg.ReportSchedule)
	assert.Equal(t, 15, cfg.GeminiRateLimit)
	assert.Equal(t, 10, cfg.ArchiveRetention)
	assert.True(t, cfg.NotificationsEnabled())
}

func TestConfig_validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "Valid",
			cfg:     Config{ReportSchedule: "weekly", RequestTimeout: time.Second},
			wantErr: false,
		},
		{
			name:    "Bad schedule",
			cfg:     Config{ReportSchedule: "hourly", RequestTimeout: time.Second},
			wantErr: true,
		},
		{
			name:    "Negative delay scale",
			cfg:     Config{ReportSchedule: "daily", RequestTimeout: time.Second, LogDelayScale: -1},
			wantErr: true,
		},
		{
			name:    "Zero timeout",
			cfg:     Config{ReportSchedule: "daily"},
			wantErr: true,
		},
		{
			name:    "Negative rate limit",
			cfg:     Config{ReportSchedule: "weekly", RequestTimeout: time.Second, GeminiRateLimit: -1},
			wantErr: true,
		},
		{
			name:    "Negative archive retention",
			cfg:     Config{ReportSchedule: "weekly", RequestTimeout: time.Second, ArchiveRetention: -1},
			wantErr: true,
		},
		{
			name:    "Email without SMTP",
			cfg:     Config{ReportSchedule: "daily", RequestTimeout: time.Second, NotificationEmail: "a@b.c"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
