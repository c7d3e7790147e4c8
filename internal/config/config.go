package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/quizflash/internal/logger"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	QuizAPIURL           string
	HTTPTimeoutSeconds   int
	FetchWorkerCount     int
	FetchQueueSize       int
	WorkspaceIdleMinutes int
	MaxUploadMB          int
	CORSOrigins          []string
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:quizflash.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		QuizAPIURL:           envOr("QUIZ_API_URL", "https://backend-ct6p.onrender.com"),
		HTTPTimeoutSeconds:   envIntOr("HTTP_TIMEOUT_SECONDS", 60),
		FetchWorkerCount:     envIntOr("FETCH_WORKER_COUNT", 4),
		FetchQueueSize:       envIntOr("FETCH_QUEUE_SIZE", 64),
		WorkspaceIdleMinutes: envIntOr("WORKSPACE_IDLE_MINUTES", 30),
		MaxUploadMB:          envIntOr("MAX_UPLOAD_MB", 10),
		CORSOrigins:          csvOr("CORS_ORIGINS", "http://localhost:3000"),
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if u, err := url.Parse(c.QuizAPIURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("QUIZ_API_URL must be an absolute URL (got %q)", c.QuizAPIURL))
	}
	if c.HTTPTimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive (got %d)", c.HTTPTimeoutSeconds))
	}
	if c.FetchWorkerCount <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_WORKER_COUNT must be positive (got %d)", c.FetchWorkerCount))
	}
	if c.FetchQueueSize <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_QUEUE_SIZE must be positive (got %d)", c.FetchQueueSize))
	}
	if c.WorkspaceIdleMinutes <= 0 {
		errs = append(errs, fmt.Errorf("WORKSPACE_IDLE_MINUTES must be positive (got %d)", c.WorkspaceIdleMinutes))
	}
	if c.MaxUploadMB <= 0 || c.MaxUploadMB > 50 {
		errs = append(errs, fmt.Errorf("MAX_UPLOAD_MB must be between 1 and 50 (got %d)", c.MaxUploadMB))
	}

	return errors.Join(errs...)
}

func (c Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c Config) WorkspaceIdleTTL() time.Duration {
	return time.Duration(c.WorkspaceIdleMinutes) * time.Minute
}

func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
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

func csvOr(key, def string) []string {
	raw := envOr(key, def)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
