package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	OpenAIKey   string
	OpenAIBase  string // override for tests/proxies; empty uses the default API
	OpenAIModel string
	Temperature float64

	LearnerProvider string // openai|gemini|off
	GeminiKey       string
	GeminiModel     string

	GenerationRPS  int
	LearnThreshold int
	Workers        int
	HotelsCSV      string
	CacheTTL       time.Duration
}

func Load() Config {
	// Best-effort: env files are a dev convenience, not a requirement.
	_ = godotenv.Load()

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
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/curator?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		OpenAIKey:       env("OPENAI_API_KEY", ""),
		OpenAIBase:      env("OPENAI_BASE_URL", ""),
		OpenAIModel:     env("OPENAI_MODEL", "gpt-4o-mini"),
		Temperature:     atof("OPENAI_TEMPERATURE", 0.3),
		LearnerProvider: env("LEARNER_PROVIDER", "gemini"),
		GeminiKey:       env("GOOGLE_API_KEY", ""),
		GeminiModel:     env("GEMINI_MODEL", "gemini-1.5-flash"),
		GenerationRPS:   atoi("GENERATION_RPS", 2),
		LearnThreshold:  atoi("LEARNING_THRESHOLD", 5),
		Workers:         atoi("INGEST_WORKERS", 8),
		HotelsCSV:       env("HOTELS_CSV", "hotels.csv"),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
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

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
