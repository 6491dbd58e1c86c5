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

type Config struct {
	Addr              string
	DBPath            string
	StorageNamespace  string
	LogLevel          string
	DefaultPlan       string
	NotifyWorkerCount int
	NotifyQueueSize   int
	NotifyWebhookURL  string
	DispatchInterval  time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:algopulse.db"),
		StorageNamespace:  envOr("STORAGE_NAMESPACE", "default"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		DefaultPlan:       envOr("DEFAULT_PLAN", "baseline"),
		NotifyWorkerCount: envIntOr("NOTIFY_WORKER_COUNT", 2),
		NotifyQueueSize:   envIntOr("NOTIFY_QUEUE_SIZE", 64),
		NotifyWebhookURL:  envOr("NOTIFY_WEBHOOK_URL", ""),
		DispatchInterval:  envDurationOr("NOTIFY_DISPATCH_INTERVAL", 30*time.Second),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.DefaultPlan != "baseline" && c.DefaultPlan != "time_crunch" {
		problems = append(problems, fmt.Sprintf("DEFAULT_PLAN %q is not a known plan", c.DefaultPlan))
	}
	if c.NotifyWorkerCount <= 0 {
		problems = append(problems, "NOTIFY_WORKER_COUNT must be positive")
	}
	if c.NotifyQueueSize <= 0 {
		problems = append(problems, "NOTIFY_QUEUE_SIZE must be positive")
	}
	if c.DispatchInterval <= 0 {
		problems = append(problems, "NOTIFY_DISPATCH_INTERVAL must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
