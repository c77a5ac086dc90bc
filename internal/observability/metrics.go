package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rafiki-work/rafiki-backend/internal/platform/envutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

// Metrics is a process-wide registry written in the Prometheus text format.
// Every method is a no-op on a nil receiver, so callers never check Enabled.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	composeOutcomes *CounterVec
	composeLatency  *HistogramVec
	safetyBlocks    *Counter

	sessionEvents *CounterVec
	suggestions   *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds a standalone registry; Init installs the process one.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("rafiki_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"rafiki_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		apiInflight: NewGauge("rafiki_api_inflight_requests", "In-flight API requests."),
		composeOutcomes: NewCounterVec(
			"rafiki_compose_total",
			"Module compositions by outcome (adapted or fallback reason).",
			[]string{"outcome"},
		),
		composeLatency: NewHistogramVec(
			"rafiki_compose_duration_seconds",
			"Module composition latency in seconds by outcome.",
			[]string{"outcome"},
			[]float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		),
		safetyBlocks:  NewCounter("rafiki_safety_gate_blocks_total", "Composed modules rejected by the safety gate."),
		sessionEvents: NewCounterVec("rafiki_session_events_total", "Guided-path session transitions.", []string{"event"}),
		suggestions:   NewCounterVec("rafiki_suggest_requests_total", "Suggest calls by whether a theme was given.", []string{"themed"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.composeOutcomes, m.composeLatency, m.safetyBlocks,
		m.sessionEvents, m.suggestions,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveCompose records one composition; outcome is "adapted" or a fallback reason.
func (m *Metrics) ObserveCompose(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.composeOutcomes.Inc(outcome)
	m.composeLatency.Observe(dur.Seconds(), outcome)
	if outcome == "safety_gate" {
		m.safetyBlocks.Inc()
	}
}

func (m *Metrics) IncSessionEvent(event string) {
	if m == nil {
		return
	}
	m.sessionEvents.Inc(event)
}

func (m *Metrics) IncSuggest(themed bool) {
	if m == nil {
		return
	}
	if themed {
		m.suggestions.Inc("true")
		return
	}
	m.suggestions.Inc("false")
}
