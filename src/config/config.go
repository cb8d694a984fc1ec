package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	// Auth
	JWTSecret       string
	SessionTTL      time.Duration
	VerificationTTL time.Duration
	GoogleClientID  string

	// Links placed in outgoing emails
	PublicBaseURL string
	FrontendURL   string

	// SMTP. An empty host logs emails instead of sending them.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	// Chat
	ChatEngine   string
	RasaURL      string
	ChatTimeout  time.Duration
	GeminiAPIKey string
	GeminiModel  string

	CORSOrigins       []string
	ReadOnly          bool
	LogLevel          string
	NotifyConcurrency int
	CacheMaxCost      int64
	Timezone          string
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	return Config{
		Port:        getEnv("PORT", "5000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		SessionTTL:      getEnvDuration("SESSION_TTL", time.Hour),
		VerificationTTL: getEnvDuration("VERIFICATION_TTL", 24*time.Hour),
		GoogleClientID:  getEnv("GOOGLE_CLIENT_ID", ""),

		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5000"), "/"),
		FrontendURL:   strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "MyGajanji <no-reply@mygajanji.local>"),

		ChatEngine:   strings.ToLower(getEnv("CHAT_ENGINE", "rasa")),
		RasaURL:      getEnv("RASA_URL", "http://localhost:5005/webhooks/rest/webhook"),
		ChatTimeout:  getEnvDuration("CHAT_TIMEOUT", 15*time.Second),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		CORSOrigins:       getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		ReadOnly:          getEnvBool("READ_ONLY", false),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		NotifyConcurrency: getEnvInt("NOTIFY_CONCURRENCY", 4),
		CacheMaxCost:      int64(getEnvInt("CACHE_MAX_COST", 10000)),
		Timezone:          getEnv("TIMEZONE", "UTC"),
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q", c.Port))
	}
	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if c.SessionTTL <= 0 || c.VerificationTTL <= 0 {
		problems = append(problems, "SESSION_TTL and VERIFICATION_TTL must be positive")
	}
	if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid PUBLIC_BASE_URL %q", c.PublicBaseURL))
	}
	if c.SMTPHost != "" && (c.SMTPPort < 1 || c.SMTPPort > 65535) {
		problems = append(problems, fmt.Sprintf("invalid SMTP_PORT %d", c.SMTPPort))
	}
	switch c.ChatEngine {
	case "rasa":
		if _, err := url.ParseRequestURI(c.RasaURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid RASA_URL %q", c.RasaURL))
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is required when CHAT_ENGINE=gemini")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid CHAT_ENGINE %q: must be rasa or gemini", c.ChatEngine))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid LOG_LEVEL %q", c.LogLevel))
	}
	if c.NotifyConcurrency < 1 {
		problems = append(problems, "NOTIFY_CONCURRENCY must be at least 1")
	}
	if c.CacheMaxCost < 1 {
		problems = append(problems, "CACHE_MAX_COST must be at least 1")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("invalid TIMEZONE %q", c.Timezone))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
