package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	BackofficeBase  string
	BackofficeToken string
	BackofficeRPS   int
	BulkConcurrency int
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	LangCacheTTL    time.Duration
	MySQLDSN        string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ""),
		BackofficeBase:  env("BACKOFFICE_BASE_URL", "http://localhost:3000/api"),
		BackofficeToken: env("BACKOFFICE_TOKEN", ""),
		BackofficeRPS:   atoi("BACKOFFICE_RPS", 20),
		BulkConcurrency: atoi("BULK_CONCURRENCY", 8),
		RedisAddr:       env("REDIS_ADDR", ""),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		LangCacheTTL:    time.Duration(atoi("LANG_CACHE_TTL_SECONDS", 300)) * time.Second,
		// empty disables the bulk journal
		MySQLDSN: env("MYSQL_DSN", ""),
	}
	if c.BackofficeToken == "" {
		log.Warn().Msg("BACKOFFICE_TOKEN is empty")
	}
	if c.BulkConcurrency <= 0 {
		c.BulkConcurrency = 1
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
