package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type Config struct {
	AppURL                 string
	DatabaseDSN            string
	RedisAddr              string
	RateLimit              int
	RequestTimeoutSeconds  int
	LockTTLSeconds         int
	DefaultPageSize        int
	MaxPageSize            int
	LogRetentionDays       int
	ShutdownTimeoutSeconds int
}

func Load() Config {
	appHost := getEnv("APP_HOST", "127.0.0.1")
	appPort := getEnv("APP_PORT", "8080")
	redisHost := getEnv("REDIS_HOST", "127.0.0.1")
	redisPort := getEnv("REDIS_PORT", "6379")

	cfg := Config{
		AppURL:                 fmt.Sprintf("%s:%s", appHost, appPort),
		DatabaseDSN:            getEnv("DATABASE_DSN", "tasks.db"),
		RedisAddr:              fmt.Sprintf("%s:%s", redisHost, redisPort),
		RateLimit:              getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		RequestTimeoutSeconds:  getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30),
		LockTTLSeconds:         getEnvAsInt("LOCK_TTL_SECONDS", 30),
		DefaultPageSize:        getEnvAsInt("DEFAULT_PAGE_SIZE", 50),
		MaxPageSize:            getEnvAsInt("MAX_PAGE_SIZE", 1000),
		LogRetentionDays:       getEnvAsInt("LOG_RETENTION_DAYS", 90),
		ShutdownTimeoutSeconds: getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 20),
	}

	validate(cfg)
	return cfg
}

func validate(cfg Config) {
	if cfg.AppURL == "" {
		log.Fatal("APP_URL must not be empty (e.g. 127.0.0.1:8080)")
	}
	if cfg.DatabaseDSN == "" {
		log.Fatal("DATABASE_DSN must not be empty")
	}
	if cfg.RateLimit <= 0 {
		log.Fatal("RATE_LIMIT_PER_MINUTE must be greater than 0")
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		log.Fatal("REQUEST_TIMEOUT_SECONDS must be greater than 0")
	}
	if cfg.LockTTLSeconds <= 0 {
		log.Fatal("LOCK_TTL_SECONDS must be greater than 0")
	}
	if cfg.DefaultPageSize <= 0 || cfg.DefaultPageSize > cfg.MaxPageSize {
		log.Fatal("DEFAULT_PAGE_SIZE must be between 1 and MAX_PAGE_SIZE")
	}
	if cfg.LogRetentionDays <= 0 {
		log.Fatal("LOG_RETENTION_DAYS must be greater than 0")
	}
}

// Sanitized returns the config as reported by the health endpoint. The
// database DSN is withheld.
func (c Config) Sanitized() map[string]interface{} {
	return map[string]interface{}{
		"app_url":                  c.AppURL,
		"redis_addr":               c.RedisAddr,
		"rate_limit_per_minute":    c.RateLimit,
		"request_timeout_seconds":  c.RequestTimeoutSeconds,
		"lock_ttl_seconds":         c.LockTTLSeconds,
		"default_page_size":        c.DefaultPageSize,
		"max_page_size":            c.MaxPageSize,
		"log_retention_days":       c.LogRetentionDays,
		"shutdown_timeout_seconds": c.ShutdownTimeoutSeconds,
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid integer value for %s", key)
		}
		return i
	}
	return defaultVal
}
