package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything read from the environment at start-up.
type Config struct {
	Port                string
	DatabaseURL         string
	StripeSecretKey     string
	StripeWebhookSecret string
	JWTSecret           string
	LogLevel            string
	LogFile             string
	CORSAllowOrigins    []string
	TrialDays           int64
}

const DefaultTrialDays = 3

// LoadConfig loads the optional .env file then reads the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		LogInfo("No .env file loaded, using the system environment only")
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                valueOr(getenv("PORT"), "8080"),
		DatabaseURL:         getenv("DB_URL"),
		StripeSecretKey:     getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET"),
		JWTSecret:           getenv("JWT_SECRET"),
		LogLevel:            valueOr(getenv("LOG_LEVEL"), "info"),
		LogFile:             getenv("LOG_FILE"),
		CORSAllowOrigins:    splitList(valueOr(getenv("CORS_ALLOW_ORIGINS"), "*")),
		TrialDays:           DefaultTrialDays,
	}

	if raw := getenv("TRIAL_DAYS"); raw != "" {
		days, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("invalid TRIAL_DAYS %q", raw)
		}
		cfg.TrialDays = days
	}

	required := []struct{ name, value string }{
		{"DB_URL", cfg.DatabaseURL},
		{"STRIPE_SECRET_KEY", cfg.StripeSecretKey},
		{"STRIPE_WEBHOOK_SECRET", cfg.StripeWebhookSecret},
		{"JWT_SECRET", cfg.JWTSecret},
	}
	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
