package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusPipeline(t *testing.T) {
	ctx := context.Background()
	registry := prom.NewRegistry()

	mp, err := newMetricProvider(ctx, registry,
		WithServiceName("swapbot-test"),
		WithProviderConfig(ProviderCfg{Provider: PrometheusProvider}),
	)
	if err != nil {
		t.Fatalf("newMetricProvider: %v", err)
	}
	defer mp.Shutdown(ctx)

	counter, err := mp.Meter("test").Int64Counter("swap_outcomes_total")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	counter.Add(ctx, 3)

	srv := &PrometheusServer{gatherer: registry}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "swap_outcomes_total") {
		t.Errorf("metrics output missing counter:\n%s", rec.Body.String())
	}
}

func TestNewOtelCollectorConfig(t *testing.T) {
	cfg := NewOtelCollectorConfig("http://collector:4317", map[string]string{"k": "v"}, InsecureOtel)
	if cfg.Provider != OtelCollector || cfg.Endpoint != "http://collector:4317" || cfg.Insecure {
		t.Errorf("cfg = %+v", cfg)
	}
}
