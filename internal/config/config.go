package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8081"`
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite | mysql | pgx
	DBDSN    string `envconfig:"DB_DSN" default:"shopkeep.db"`
	LogFile  string `envconfig:"LOG_FILE" default:"./shopkeep.log"`
	SeedDemo bool   `envconfig:"SEED_DEMO" default:"false"`

	TemplatesDir string `envconfig:"TEMPLATES_DIR" default:"./web/templates"`

	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	TrendsTimeout time.Duration `envconfig:"TRENDS_TIMEOUT" default:"20s"`

	PexelsAPIKey  string        `envconfig:"PEXELS_API_KEY"`
	PexelsAPIURL  string        `envconfig:"PEXELS_API_URL" default:"https://api.pexels.com/v1/search"`
	ImageTimeout  time.Duration `envconfig:"IMAGE_TIMEOUT" default:"5s"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	ImageCacheTTL time.Duration `envconfig:"IMAGE_CACHE_TTL" default:"24h"`
}

// Load reads .env (when present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("[config] no .env loaded, using process environment")
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s LOG_FILE=%s GEMINI_API_KEY=%s PEXELS_API_KEY=%s REDIS_ADDR=%s",
		cfg.Port, cfg.DBDriver, mask(cfg.DBDSN), cfg.LogFile, mask(cfg.GeminiAPIKey), mask(cfg.PexelsAPIKey), cfg.RedisAddr)
	return cfg, nil
}

func mask(s string) string {
	switch {
	case s == "":
		return "(unset)"
	case len(s) <= 12:
		return "***"
	default:
		return s[:4] + "***"
	}
}
