package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflammation/internal/config"
	"inflammation/internal/shared/testutil"
	"inflammation/pkg/contracts/domain"
)

func newTestApplication(t *testing.T, mutate func(cfg *config.Config)) (*Application, string) {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.Server.DataRoot = root
	cfg.Telemetry.EnableMetrics = true
	if mutate != nil {
		mutate(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Stop(context.Background()) })
	return a, root
}

func get(t *testing.T, srv *httptest.Server, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + target)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestNewApplication_RequiresConfig(t *testing.T) {
	a, err := NewApplication(nil, nil)
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestApplication_EndToEnd(t *testing.T) {
	a, root := newTestApplication(t, nil)
	testutil.WriteCSVDataset(t, root, "trial/inflammation-01.csv", [][]float64{{0, 1, 2}, {2, 1, 0}})
	testutil.WriteCSVDataset(t, root, "trial/inflammation-02.csv", [][]float64{{4, 1, 2}, {4, 1, 4}})

	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	t.Run("health", func(t *testing.T) {
		resp, body := get(t, srv, "/healthz")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		assert.Contains(t, string(body), `"status":"ok"`)
	})

	t.Run("analysis", func(t *testing.T) {
		resp, body := get(t, srv, "/api/v1/analysis?path=trial/inflammation-01.csv")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var got domain.AnalysisResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, 2, got.Datasets)
		// daily means are [1,1,1] and [4,1,3]
		assert.InDeltaSlice(t, []float64{1.5, 0, 1}, got.StdDevByDay, 1e-12)
	})

	t.Run("statistics", func(t *testing.T) {
		resp, body := get(t, srv, "/api/v1/statistics?path=trial/inflammation-01.csv&dataset=1")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var got domain.StatisticsResponse
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, domain.Series{4, 1, 3}, got.Mean)
		assert.Equal(t, domain.Series{4, 1, 4}, got.Max)
	})

	t.Run("no data", func(t *testing.T) {
		resp, body := get(t, srv, "/api/v1/analysis?path=missing/inflammation.csv")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(body), `"error_type":"NO_DATA"`)
	})

	t.Run("escape attempt", func(t *testing.T) {
		resp, _ := get(t, srv, "/api/v1/analysis?path=../../etc/inflammation.csv")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, body := get(t, srv, "/api/v2/analysis")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, string(body), "/errors/not-found")
	})

	t.Run("metrics", func(t *testing.T) {
		resp, body := get(t, srv, "/metrics")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "inflammation_files_parsed_total")
		assert.Contains(t, string(body), "http_requests_total")
	})
}

func TestApplication_CacheDisabled(t *testing.T) {
	a, _ := newTestApplication(t, func(cfg *config.Config) {
		cfg.Source.CacheSize = 0
		cfg.Server.RateLimit.Enabled = false
	})
	assert.Nil(t, a.Cache)
	assert.NotNil(t, a.Registry)
}

func TestApplication_RateLimited(t *testing.T) {
	a, _ := newTestApplication(t, func(cfg *config.Config) {
		cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	})

	srv := httptest.NewServer(a.Router)
	defer srv.Close()

	first, _ := get(t, srv, "/healthz")
	second, _ := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
