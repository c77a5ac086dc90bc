package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

type Config struct {
	Addr      string
	DB        int
	Password  string
	KeyPrefix string
	Cap       int
	TTL       time.Duration
}

// TopicMemory keeps a bounded, newest-first list of themes per user.
type TopicMemory interface {
	Push(ctx context.Context, userID uuid.UUID, topic string) error
	Recent(ctx context.Context, userID uuid.UUID) ([]string, error)
	Close() error
}

type topicMemory struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	cap    int64
	ttl    time.Duration
}

func NewTopicMemory(log *logger.Logger, cfg Config) (TopicMemory, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	if cfg.Cap <= 0 {
		cfg.Cap = 50
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "guided:topics:"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          cfg.DB,
		Password:    cfg.Password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &topicMemory{
		log:    log.With("service", "RedisTopicMemory"),
		rdb:    rdb,
		prefix: cfg.KeyPrefix,
		cap:    int64(cfg.Cap),
		ttl:    cfg.TTL,
	}, nil
}

func (m *topicMemory) key(userID uuid.UUID) string {
	return m.prefix + userID.String()
}

func (m *topicMemory) Push(ctx context.Context, userID uuid.UUID, topic string) error {
	if m == nil || m.rdb == nil {
		return fmt.Errorf("redis topic memory not initialized")
	}
	key := m.key(userID)
	_, err := m.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.LPush(ctx, key, topic)
		p.LTrim(ctx, key, 0, m.cap-1)
		p.Expire(ctx, key, m.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push topic: %w", err)
	}
	return nil
}

func (m *topicMemory) Recent(ctx context.Context, userID uuid.UUID) ([]string, error) {
	if m == nil || m.rdb == nil {
		return nil, fmt.Errorf("redis topic memory not initialized")
	}
	out, err := m.rdb.LRange(ctx, m.key(userID), 0, m.cap-1).Result()
	if err == goredis.Nil {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recent topics: %w", err)
	}
	return out, nil
}

func (m *topicMemory) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}
