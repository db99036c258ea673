package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notify failure policies decide what the caller sees when a message was stored
// but the notification email could not be sent.
const (
	NotifyFailureAccept = "accept"
	NotifyFailureReject = "reject"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	DBUrl    string
	// CORS
	FrontendURL    string
	AllowedOrigins []string
	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string // Defaults to SMTPUsername when empty
	SMTPTimeout    time.Duration
	ContactEmailTo string
	// Contact pipeline
	NotifyFailurePolicy   string
	ContactProcessTimeout time.Duration
	ContactMaxBodyBytes   int64
	ShutdownTimeout       time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; production injects real environment variables
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DBUrl:    getEnv("DATABASE_URL", ""),
		// Strip trailing slash so origin comparison is exact
		FrontendURL:    strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", getEnv("EMAIL_USER", "")),
		SMTPPassword:   getEnv("SMTP_PASSWORD", getEnv("EMAIL_PASS", "")),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		SMTPTimeout:    getEnvDuration("SMTP_TIMEOUT", 15*time.Second),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", ""),
		// Contact pipeline
		NotifyFailurePolicy:   strings.ToLower(getEnv("CONTACT_NOTIFY_FAILURE_POLICY", NotifyFailureAccept)),
		ContactProcessTimeout: getEnvDuration("CONTACT_PROCESS_TIMEOUT", 30*time.Second),
		ContactMaxBodyBytes:   int64(getEnvInt("CONTACT_MAX_BODY_BYTES", 64<<10)),
		ShutdownTimeout:       getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.SMTPFromEmail == "" {
		cfg.SMTPFromEmail = cfg.SMTPUsername
	}

	switch cfg.NotifyFailurePolicy {
	case NotifyFailureAccept, NotifyFailureReject:
	default:
		return nil, fmt.Errorf("config: CONTACT_NOTIFY_FAILURE_POLICY must be %q or %q, got %q",
			NotifyFailureAccept, NotifyFailureReject, cfg.NotifyFailurePolicy)
	}

	if cfg.ContactMaxBodyBytes <= 0 {
		return nil, fmt.Errorf("config: CONTACT_MAX_BODY_BYTES must be positive")
	}

	if cfg.DBUrl == "" {
		cfg.DBUrl = "sqlite://portfolio.db"
		log.Println("WARNING: DATABASE_URL is missing. Falling back to local sqlite file portfolio.db.")
	}

	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" || cfg.ContactEmailTo == "" {
		log.Println("WARNING: SMTP credentials or CONTACT_EMAIL_TO missing. Contact submissions will be refused.")
	}

	return cfg, nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// RejectOnNotifyFailure reports whether a stored-but-not-notified submission is a failure.
func (c *Config) RejectOnNotifyFailure() bool {
	return c.NotifyFailurePolicy == NotifyFailureReject
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15s") or plain seconds ("15")
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimRight(strings.TrimSpace(part), "/")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
