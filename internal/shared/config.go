package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv       string
	HTTPAddr     string
	MetricsAddr  string
	MySQLDSN     string
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	OpenAIKey    string
	OpenAIBase   string
	OpenAIModel  string
	LLMRPS       int
	CacheTTL     time.Duration
	SessionTTL   time.Duration
	CookieSecure bool
	SeedWorkers  int
}

func Load() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	c := Config{
		AppEnv:       env("APP_ENV", "prod"),
		HTTPAddr:     env("HTTP_ADDR", ":8080"),
		MetricsAddr:  env("METRICS_ADDR", ""),
		MySQLDSN:     env("MYSQL_DSN", "root:root@tcp(localhost:3306)/travel?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:    env("REDIS_ADDR", "localhost:6379"),
		RedisDB:      atoi("REDIS_DB", 0),
		RedisPass:    env("REDIS_PASSWORD", ""),
		OpenAIKey:    env("OPENAI_API_KEY", ""),
		OpenAIBase:   env("OPENAI_BASE_URL", ""),
		OpenAIModel:  env("OPENAI_MODEL", "gpt-4o"),
		LLMRPS:       atoi("LLM_RPS", 3),
		CacheTTL:     time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL:   time.Duration(atoi("SESSION_TTL_SECONDS", 7*24*3600)) * time.Second,
		CookieSecure: boolean("COOKIE_SECURE", false),
		SeedWorkers:  atoi("SEED_WORKERS", 4),
	}
	if c.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func boolean(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
