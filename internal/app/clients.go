package app

import (
	"errors"
	"fmt"

	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
	"github.com/rafiki-work/rafiki-backend/internal/platform/openai"
	"github.com/rafiki-work/rafiki-backend/internal/platform/redis"
)

type Clients struct {
	OpenAI openai.Client
	Topics redis.TopicMemory
}

// wireClients builds the optional external clients. A missing OpenAI key or
// Redis address is not fatal: the composer serves blueprints verbatim and
// topic memory falls back to the database.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	oa, err := openai.NewClient(log, openai.ConfigFromEnv())
	switch {
	case errors.Is(err, openai.ErrMissingAPIKey):
		log.Warn("OPENAI_API_KEY not set; module composition disabled")
	case err != nil:
		return Clients{}, fmt.Errorf("init openai: %w", err)
	default:
		out.OpenAI = oa
	}

	if cfg.RedisAddr != "" {
		tm, err := redis.NewTopicMemory(log, redis.Config{
			Addr:     cfg.RedisAddr,
			DB:       cfg.RedisDB,
			Password: cfg.RedisPassword,
			Cap:      cfg.TopicMemoryCap,
			TTL:      cfg.TopicMemoryTTL,
		})
		if err != nil {
			log.Warn("Redis unavailable; topic memory uses the database", "error", err)
		} else {
			out.Topics = tm
		}
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Topics != nil {
		_ = c.Topics.Close()
	}
}
