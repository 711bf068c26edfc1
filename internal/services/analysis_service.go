package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"inflammation/internal/analysis"
	"inflammation/internal/datasource"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/infrastructure"
	"inflammation/internal/stats"
	"inflammation/internal/table"
	"inflammation/pkg/contracts/domain"
)

// AnalysisService runs the inflammation analyses for a data file path. The
// path selects the data source by extension and the directory to read.
type AnalysisService struct {
	registry *datasource.Registry
	tracer   trace.Tracer
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewAnalysisService creates an analysis service. metrics and tracer may be nil.
func NewAnalysisService(registry *datasource.Registry, tracer trace.Tracer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.MeterName)
	}
	return &AnalysisService{
		registry: registry,
		tracer:   tracer,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "analysis_service")),
	}
}

// Load returns every dataset found next to path
func (s *AnalysisService) Load(ctx context.Context, path string) ([]*table.Table, error) {
	src, err := s.registry.ForPath(path)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx)
}

// FullAnalysis computes the standard deviation of daily means across every
// dataset found next to path.
func (s *AnalysisService) FullAnalysis(ctx context.Context, path string) (*domain.AnalysisResponse, error) {
	src, err := s.registry.ForPath(path)
	if err != nil {
		return nil, err
	}

	analyzer := analysis.NewAnalyzer(src,
		analysis.WithTracer(s.tracer),
		analysis.WithMetrics(s.metrics),
		analysis.WithLogger(s.logger))

	res, err := analyzer.Analyse(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.AnalysisResponse{
		Datasets:    res.Datasets,
		Days:        res.Days(),
		StdDevByDay: domain.Series(res.StdDevByDay),
	}, nil
}

// dataset loads the collection and picks one table from it
func (s *AnalysisService) dataset(ctx context.Context, path string, index int) (*table.Table, error) {
	tables, err := s.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(tables) {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("dataset %d out of range, %d datasets available", index, len(tables))).
			WithContext("dataset", index).
			WithContext("available", len(tables))
	}
	return tables[index], nil
}

// Statistics returns the daily mean, max and min of one dataset
func (s *AnalysisService) Statistics(ctx context.Context, path string, index int) (*domain.StatisticsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.statistics",
		trace.WithAttributes(attribute.Int("analysis.dataset", index)))
	defer span.End()

	t, err := s.dataset(ctx, path, index)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	summary, err := stats.Summarise(t)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	return &domain.StatisticsResponse{
		Dataset:  index,
		Patients: t.Rows(),
		Days:     summary.Days(),
		Mean:     domain.Series(summary.Mean),
		Max:      domain.Series(summary.Max),
		Min:      domain.Series(summary.Min),
	}, nil
}

// Normalised returns one dataset scaled per patient into [0, 1]
func (s *AnalysisService) Normalised(ctx context.Context, path string, index int) (*domain.NormalisedResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.normalise",
		trace.WithAttributes(attribute.Int("analysis.dataset", index)))
	defer span.End()

	t, err := s.dataset(ctx, path, index)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	norm, err := stats.PatientNormalise(t)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	return &domain.NormalisedResponse{
		Dataset:  index,
		Patients: norm.Rows(),
		Days:     norm.Cols(),
		Rows:     norm.ToRows(),
	}, nil
}

// PlotSummary pools the patients of every dataset found next to path and
// returns their daily summary together with the pooled patient count.
func (s *AnalysisService) PlotSummary(ctx context.Context, path string) (stats.Summary, int, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.plot_summary")
	defer span.End()

	tables, err := s.Load(ctx, path)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return stats.Summary{}, 0, err
	}

	pooled, err := table.VStack(tables)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return stats.Summary{}, 0, err
	}

	summary, err := stats.Summarise(pooled)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return stats.Summary{}, 0, err
	}

	s.logger.InfoContext(ctx, "plot summary computed",
		slog.Int("datasets", len(tables)),
		slog.Int("patients", pooled.Rows()),
		slog.Int("days", summary.Days()))

	return summary, pooled.Rows(), nil
}
