package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"efforts/internal/platform/metrics"
)

func TestServerExposesRegistry(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "efforts_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := metrics.NewServer("127.0.0.1:0", reg, zerolog.Nop())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "efforts_test_total 1") {
		t.Fatalf("metrics body missing counter: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Body.String() != "OK" {
		t.Fatalf("unexpected health body %q", rec.Body.String())
	}
}
