package logger

import "testing"

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"response", "I feel awful today",
		"api_key", "sk-123",
		"user_id", "6b1f4c1e-6a5e-4f7e-9a63-4f1f1c7e2a10",
		"step_index", 2,
	})
	if len(out) != 8 {
		t.Fatalf("len=%d, want 8", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("response=%v, want redacted", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Fatalf("api_key=%v, want redacted", out[3])
	}
	if s, ok := out[5].(string); !ok || len(s) != len("hash:")+12 {
		t.Fatalf("user_id=%v, want hashed", out[5])
	}
	if out[7] != 2 {
		t.Fatalf("step_index=%v, want passthrough", out[7])
	}
}

func TestSanitizeKVsOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"module", "Breathing Reset", "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected out: %#v", out)
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("quiet", "k", "v")
	l.With("service", "X").Warn("still quiet")
}
