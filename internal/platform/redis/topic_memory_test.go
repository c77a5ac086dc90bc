package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

func TestNewTopicMemoryRequiresAddr(t *testing.T) {
	if _, err := NewTopicMemory(logger.Nop(), Config{}); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}

func TestTopicMemoryRingBuffer(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	m, err := NewTopicMemory(logger.Nop(), Config{Addr: addr, Cap: 3, TTL: time.Minute, KeyPrefix: "test:topics:"})
	if err != nil {
		t.Fatalf("NewTopicMemory: %v", err)
	}
	defer m.Close()

	ctx := context.Background()
	user := uuid.New()
	for _, topic := range []string{"sleep", "stress", "anxiety", "stress"} {
		if err := m.Push(ctx, user, topic); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	got, err := m.Recent(ctx, user)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"stress", "anxiety", "stress"}
	if len(got) != len(want) {
		t.Fatalf("got=%v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got=%v, want %v", got, want)
		}
	}
}
