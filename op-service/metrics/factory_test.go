package metrics

import (
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestFactoryDocument(t *testing.T) {
	registry := NewRegistry()
	factory := With(registry)
	c := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "test",
		Name:      "calls_total",
		Help:      "Count of calls",
	}, []string{"method"})
	g := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: "test",
		Name:      "up",
		Help:      "1 if up",
	})

	docs := factory.Document()
	require.Len(t, docs, 2)
	require.Equal(t, DocumentedMetric{Type: "counter", Name: "test_calls_total", Help: "Count of calls", Labels: []string{"method"}}, docs[0])
	require.Equal(t, "test_up", docs[1].Name)

	c.WithLabelValues("withdraw").Add(2)
	g.Set(1)

	checker := NewMetricChecker(t, registry)
	require.Equal(t, 2.0, checker.FindByName("test_calls_total").FindByLabels(map[string]string{"method": "withdraw"}).Counter.GetValue())
	require.Equal(t, 1.0, checker.FindByName("test_up").FindByLabels(nil).Gauge.GetValue())
	require.True(t, checker.Has("go_goroutines"), "runtime collector registered")
	require.False(t, checker.Has("test_missing"))
}

func TestCLIConfigCheck(t *testing.T) {
	cfg := DefaultCLIConfig()
	require.NoError(t, cfg.Check())
	cfg.Enabled = true
	cfg.ListenPort = 70000
	require.ErrorIs(t, cfg.Check(), ErrInvalidPort)
}

func TestStartServer(t *testing.T) {
	registry := NewRegistry()
	srv, err := StartServer(registry, "127.0.0.1", 0)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Close()
	})

	resp, err := http.Get(srv.HTTPEndpoint() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "go_goroutines")
}
