package app

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/rafiki-work/rafiki-backend/internal/platform/envutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	ComposerTimeout time.Duration
	TopicMemoryCap  int
	TopicMemoryTTL  time.Duration
	RedisAddr       string
	RedisDB         int
	RedisPassword   string
	CORSOrigins     []string
	ServiceName     string
	Environment     string
	Version         string
}

// LoadEnvFile loads a .env file when one is present. Real environment
// variables win over file values.
func LoadEnvFile(log *logger.Logger, paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Warn("Failed to load env file", "path", p, "error", err)
			continue
		}
		log.Info("Loaded env file", "path", p)
	}
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", ""),
		ComposerTimeout: envutil.Seconds("COMPOSER_TIMEOUT_SECONDS", 30*time.Second),
		TopicMemoryCap:  envutil.Int("TOPIC_MEMORY_CAP", 50),
		TopicMemoryTTL:  time.Duration(envutil.Int("TOPIC_MEMORY_TTL_HOURS", 24*30)) * time.Hour,
		RedisAddr:       envutil.String("REDIS_ADDR", ""),
		RedisDB:         envutil.Int("REDIS_DB", 0),
		RedisPassword:   envutil.String("REDIS_PASSWORD", ""),
		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", nil),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "rafiki-guided-paths"),
		Environment:     envutil.String("APP_ENV", "development"),
		Version:         envutil.String("APP_VERSION", ""),
	}
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY is not set")
	}
	if cfg.TopicMemoryCap <= 0 {
		cfg.TopicMemoryCap = 50
	}
	if cfg.ComposerTimeout <= 0 {
		cfg.ComposerTimeout = 30 * time.Second
	}
	return cfg
}

func (c Config) Address() string {
	if c.Port == "" {
		return ":8080"
	}
	if c.Port[0] == ':' {
		return c.Port
	}
	return ":" + c.Port
}
