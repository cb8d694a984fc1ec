package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:              "5000",
		DatabaseURL:       "postgres://localhost/gajanji",
		JWTSecret:         "secret",
		SessionTTL:        time.Hour,
		VerificationTTL:   24 * time.Hour,
		PublicBaseURL:     "http://localhost:5000",
		ChatEngine:        "rasa",
		RasaURL:           "http://localhost:5005/webhooks/rest/webhook",
		LogLevel:          "info",
		NotifyConcurrency: 4,
		CacheMaxCost:      100,
		Timezone:          "UTC",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/app")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example/")

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "postgres://db/app", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.VerificationTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.ReadOnly)
	assert.Equal(t, "https://api.example", cfg.PublicBaseURL)
	assert.Equal(t, "rasa", cfg.ChatEngine)
	assert.Equal(t, 15*time.Second, cfg.ChatTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("CHAT_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 15*time.Second, cfg.ChatTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "invalid PORT"},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL is required"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "unknown engine", mutate: func(c *Config) { c.ChatEngine = "eliza" }, wantErr: "invalid CHAT_ENGINE"},
		{name: "gemini without key", mutate: func(c *Config) { c.ChatEngine = "gemini" }, wantErr: "GEMINI_API_KEY"},
		{name: "bad level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid LOG_LEVEL"},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: "invalid TIMEZONE"},
		{name: "zero concurrency", mutate: func(c *Config) { c.NotifyConcurrency = 0 }, wantErr: "NOTIFY_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	cfg.JWTSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLocation(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Asia/Kolkata"
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())

	cfg.Timezone = "nowhere"
	assert.Equal(t, time.UTC, cfg.Location())
}
