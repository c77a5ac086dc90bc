package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveCompose("adapted", time.Second)
	m.IncSessionEvent("started")
	m.IncSuggest(true)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil write: %v", err)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/v1/guided-paths/sessions/:id/advance", "200", 30*time.Millisecond)
	m.ObserveCompose("safety_gate", 2*time.Second)
	m.ObserveCompose("adapted", time.Second)
	m.IncSessionEvent("completed")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`rafiki_api_requests_total{method="POST",route="/api/v1/guided-paths/sessions/:id/advance",status="200"} 1`,
		`rafiki_compose_total{outcome="safety_gate"} 1`,
		`rafiki_compose_duration_seconds_bucket{outcome="adapted",le="1"} 1`,
		`rafiki_safety_gate_blocks_total 1`,
		`rafiki_session_events_total{event="completed"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSeriesAreSortedAndEscaped(t *testing.T) {
	c := NewCounterVec("events_total", "Events.", []string{"kind"})
	c.Inc("b")
	c.Inc("a")
	c.Inc("a")
	c.Inc(`say "hi"`)

	var buf bytes.Buffer
	if err := c.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "# HELP events_total Events.\n# TYPE events_total counter\n" +
		`events_total{kind="a"} 2` + "\n" +
		`events_total{kind="b"} 1` + "\n" +
		`events_total{kind="say \"hi\""} 1` + "\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestGaugeTracksInflight(t *testing.T) {
	m := NewMetrics()
	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "rafiki_api_inflight_requests 1\n") {
		t.Fatalf("unexpected gauge output:\n%s", buf.String())
	}
}
