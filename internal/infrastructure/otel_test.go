package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflammation/internal/config"
	apperrors "inflammation/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTel_MetricsServePrometheus(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.EnableMetrics = true
	cfg.EnableTracing = false

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.MeterProvider)

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	RecordFileParsed(ctx, metrics, "csv")
	RecordLoad(ctx, metrics, "csv", 3, nil)
	RecordLoad(ctx, metrics, "json", 0, apperrors.NewNoDataError("/tmp", "*.json"))
	RecordAnalysis(ctx, metrics, "std_by_day", 20*time.Millisecond, nil)
	RecordCacheLookup(ctx, metrics, true)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "inflammation_files_parsed_total")
	assert.Contains(t, body, "inflammation_datasets_loaded_total")
	assert.Contains(t, body, `error_type="NO_DATA"`)
	assert.Contains(t, body, "inflammation_analysis_duration_seconds")
}

func TestInitializeOTel_Disabled(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.EnableMetrics = false
	cfg.EnableTracing = false

	providers, err := InitializeOTel(cfg, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_UnsupportedExporter(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.EnableTracing = true
	cfg.TraceExporter = "jaeger"

	_, err := InitializeOTel(cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported trace exporter")
}

func TestRecordHelpers_NilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordFileParsed(ctx, nil, "csv")
		RecordLoad(ctx, nil, "csv", 1, errors.New("x"))
		RecordCacheLookup(ctx, nil, false)
		RecordAnalysis(ctx, nil, "k", time.Second, nil)
		RecordHTTPRequest(ctx, nil, "/", 200, time.Second)
		RecordError(ctx, errors.New("no span"))
	})
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics()
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		RecordHTTPRequest(context.Background(), m, "/healthz", 200, time.Millisecond)
	})
}

func TestErrorTypeName(t *testing.T) {
	assert.Equal(t, "PARSING", errorTypeName(apperrors.NewParsingError("bad", nil)))
	assert.Equal(t, "UNKNOWN", errorTypeName(errors.New("plain")))
}
