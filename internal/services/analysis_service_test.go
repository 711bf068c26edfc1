package services

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inflammation/internal/config"
	"inflammation/internal/datasource"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/infrastructure"
	"inflammation/internal/shared/testutil"
	"inflammation/internal/table"
	"inflammation/pkg/contracts/domain"
)

func newTestService(t *testing.T) *AnalysisService {
	t.Helper()
	reg := datasource.DefaultRegistry(config.Default().Source)
	return NewAnalysisService(reg, nil, infrastructure.NoopMetrics(), nil)
}

func twoCSVDatasets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "inflammation-01.csv", "1,2,3\n4,5,6\n")
	testutil.WriteFile(t, dir, "inflammation-02.csv", "7,8,9\n10,11,12\n")
	return path
}

func TestAnalysisService_FullAnalysis(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.FullAnalysis(context.Background(), twoCSVDatasets(t))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Datasets)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, domain.Series{3, 3, 3}, resp.StdDevByDay)
}

func TestAnalysisService_FullAnalysis_JSON(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "patients.json",
		`[{"observations": [0, 2]}, {"observations": [4, 2]}]`)

	resp, err := newTestService(t).FullAnalysis(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Datasets)
	assert.Equal(t, domain.Series{2, 0}, resp.StdDevByDay)
}

func TestAnalysisService_Errors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.FullAnalysis(ctx, "data/inflammation.txt")
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)

	_, err = svc.FullAnalysis(ctx, filepath.Join(t.TempDir(), "inflammation-01.csv"))
	assert.ErrorIs(t, err, apperrors.ErrNoData)

	_, err = svc.Statistics(ctx, twoCSVDatasets(t), 5)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Normalised(ctx, twoCSVDatasets(t), -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAnalysisService_Statistics(t *testing.T) {
	resp, err := newTestService(t).Statistics(context.Background(), twoCSVDatasets(t), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Dataset)
	assert.Equal(t, 2, resp.Patients)
	assert.Equal(t, 3, resp.Days)
	assert.Equal(t, domain.Series{8.5, 9.5, 10.5}, resp.Mean)
	assert.Equal(t, domain.Series{10, 11, 12}, resp.Max)
	assert.Equal(t, domain.Series{7, 8, 9}, resp.Min)
}

func TestAnalysisService_Normalised(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "inflammation-01.csv", "1,2,4\n0,0,0\n")

	resp, err := newTestService(t).Normalised(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.Grid{{0.25, 0.5, 1}, {0, 0, 0}}, resp.Rows)
	assert.Equal(t, 2, resp.Patients)
	assert.Equal(t, 3, resp.Days)
}

func TestAnalysisService_NormalisedRejectsNegative(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "inflammation-01.csv", "-1,2\n")

	_, err := newTestService(t).Normalised(context.Background(), path, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAnalysisService_PlotSummary(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	reg := datasource.DefaultRegistry(config.Default().Source)
	svc := NewAnalysisService(reg, nil, infrastructure.NoopMetrics(), logger)

	summary, patients, err := svc.PlotSummary(context.Background(), twoCSVDatasets(t))
	require.NoError(t, err)
	testutil.AssertLogContains(t, logs, slog.LevelInfo, "plot summary computed")
	testutil.AssertNoErrors(t, logs)

	assert.Equal(t, 4, patients)
	assert.Equal(t, table.Vector{5.5, 6.5, 7.5}, summary.Mean)
	assert.Equal(t, table.Vector{10, 11, 12}, summary.Max)
	assert.Equal(t, table.Vector{1, 2, 3}, summary.Min)
}

func TestAnalysisService_PlotSummaryShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "inflammation-01.csv", "1,2,3\n")
	testutil.WriteFile(t, dir, "inflammation-02.csv", "1,2\n")

	_, _, err := newTestService(t).PlotSummary(context.Background(), path)
	assert.ErrorIs(t, err, apperrors.ErrShapeMismatch)
}

func TestHealthService(t *testing.T) {
	hs := NewHealthService("1.2.3", nil)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")
}

func TestAnalysisService_LogRecordsCarryOneComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	reg := datasource.DefaultRegistry(config.Default().Source, datasource.WithLogger(logger))
	svc := NewAnalysisService(reg, nil, infrastructure.NoopMetrics(), logger)
	ctx := context.Background()

	_, err := svc.FullAnalysis(ctx, twoCSVDatasets(t))
	require.NoError(t, err)
	_, err = svc.FullAnalysis(ctx, filepath.Join(t.TempDir(), "inflammation-01.csv"))
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, `"component":`), line)
	}
	assert.Contains(t, buf.String(), `"component":"datasource"`)
	assert.Contains(t, buf.String(), `"component":"analysis_service"`)
}
