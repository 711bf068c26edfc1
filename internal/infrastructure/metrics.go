package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	apperrors "inflammation/internal/errors"
)

// BusinessMetrics holds the application-specific instruments
type BusinessMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	// Data source metrics
	FilesParsed     metric.Int64Counter
	DatasetsLoaded  metric.Int64Counter
	LoadErrors      metric.Int64Counter
	CacheLookups    metric.Int64Counter
	AnalysisRuns    metric.Int64Counter
	AnalysisLatency metric.Float64Histogram
}

// CreateBusinessMetrics registers every instrument on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests")); err != nil {
		return nil, fmt.Errorf("http_requests_total: %w", err)
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("http_request_duration_seconds: %w", err)
	}
	if m.FilesParsed, err = meter.Int64Counter("inflammation_files_parsed_total",
		metric.WithDescription("Data files parsed, by format")); err != nil {
		return nil, fmt.Errorf("inflammation_files_parsed_total: %w", err)
	}
	if m.DatasetsLoaded, err = meter.Int64Counter("inflammation_datasets_loaded_total",
		metric.WithDescription("Patient tables returned by data sources")); err != nil {
		return nil, fmt.Errorf("inflammation_datasets_loaded_total: %w", err)
	}
	if m.LoadErrors, err = meter.Int64Counter("inflammation_load_errors_total",
		metric.WithDescription("Failed data source loads, by error type")); err != nil {
		return nil, fmt.Errorf("inflammation_load_errors_total: %w", err)
	}
	if m.CacheLookups, err = meter.Int64Counter("inflammation_cache_lookups_total",
		metric.WithDescription("Cached source lookups, by result")); err != nil {
		return nil, fmt.Errorf("inflammation_cache_lookups_total: %w", err)
	}
	if m.AnalysisRuns, err = meter.Int64Counter("inflammation_analysis_runs_total",
		metric.WithDescription("Completed analysis runs, by status")); err != nil {
		return nil, fmt.Errorf("inflammation_analysis_runs_total: %w", err)
	}
	if m.AnalysisLatency, err = meter.Float64Histogram("inflammation_analysis_duration_seconds",
		metric.WithDescription("Analysis duration in seconds"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("inflammation_analysis_duration_seconds: %w", err)
	}

	return m, nil
}

// NoopMetrics returns instruments that discard every measurement.
func NoopMetrics() *BusinessMetrics {
	m, _ := CreateBusinessMetrics(noop.NewMeterProvider().Meter(MeterName))
	return m
}

// RecordFileParsed counts one parsed file
func RecordFileParsed(ctx context.Context, m *BusinessMetrics, format string) {
	if m == nil {
		return
	}
	m.FilesParsed.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordLoad records the outcome of a data source load
func RecordLoad(ctx context.Context, m *BusinessMetrics, format string, datasets int, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("format", format))
	if err != nil {
		m.LoadErrors.Add(ctx, 1, attrs, metric.WithAttributes(attribute.String("error.type", errorTypeName(err))))
		return
	}
	m.DatasetsLoaded.Add(ctx, int64(datasets), attrs)
}

// RecordCacheLookup counts a cache hit or miss
func RecordCacheLookup(ctx context.Context, m *BusinessMetrics, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordAnalysis records an analysis run and its duration
func RecordAnalysis(ctx context.Context, m *BusinessMetrics, kind string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("analysis.kind", kind),
		attribute.String("status", status),
	)
	m.AnalysisRuns.Add(ctx, 1, attrs)
	m.AnalysisLatency.Record(ctx, duration.Seconds(), attrs)
}

// RecordHTTPRequest records a served request
func RecordHTTPRequest(ctx context.Context, m *BusinessMetrics, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// errorTypeName reports the error classification, not its message, to keep
// label cardinality bounded.
func errorTypeName(err error) string {
	if t := apperrors.TypeOf(err); t != "" {
		return string(t)
	}
	return "UNKNOWN"
}
