package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	SyncInterval      time.Duration
	APITimeout        time.Duration
	APILongTimeout    time.Duration
	RetryTotal        int
	RetryBackoff      time.Duration
	RetryStatusCodes  []int
	MetricsAddr       string
	DiscordWebhookURL string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := readSecret("database_url")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set (via secret or env var)")
	}

	webhookURL := readSecret("discord_webhook_url")
	if webhookURL == "" {
		webhookURL = os.Getenv("DISCORD_WEBHOOK_URL")
	}

	cfg := &Config{
		DatabaseURL:       dbURL,
		SyncInterval:      envDuration("SYNC_INTERVAL", 15*time.Minute),
		APITimeout:        envDuration("WANDERER_API_TIMEOUT", 10*time.Second),
		APILongTimeout:    envDuration("WANDERER_API_LONG_TIMEOUT", 30*time.Second),
		RetryTotal:        envInt("WANDERER_API_RETRY_TOTAL", 3),
		RetryBackoff:      envDuration("WANDERER_API_RETRY_BACKOFF", 500*time.Millisecond),
		RetryStatusCodes:  envIntList("WANDERER_API_RETRY_STATUS_CODES", []int{500, 502, 503, 504, 429}),
		MetricsAddr:       envString("METRICS_ADDR", ":2112"),
		DiscordWebhookURL: webhookURL,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envIntList(key string, fallback []int) []int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	var out []int
	for _, part := range strings.Split(v, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fallback
		}
		out = append(out, i)
	}
	return out
}
