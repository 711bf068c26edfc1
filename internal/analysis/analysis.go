package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/stat"

	"inflammation/internal/datasource"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/infrastructure"
	"inflammation/internal/stats"
	"inflammation/internal/table"
)

const kindStdDevByDay = "std_dev_by_day"

// ComputeStandardDeviationByDay reduces each table to its daily means and
// returns, for every day, the population standard deviation of those means
// across tables. All tables must cover the same number of days.
func ComputeStandardDeviationByDay(tables []*table.Table) (table.Vector, error) {
	if len(tables) == 0 {
		return nil, apperrors.NewEmptyInputError()
	}

	means := make([]table.Vector, len(tables))
	for i, t := range tables {
		if t == nil {
			return nil, apperrors.NewTypeError(fmt.Sprintf("dataset %d is nil", i))
		}
		m, err := stats.DailyMean(t)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", i, err)
		}
		means[i] = m
	}

	stacked, err := table.Stack(means)
	if err != nil {
		return nil, err
	}

	// rows are datasets, columns are days
	rows, days := stacked.Shape()
	data := stacked.Values()
	column := make([]float64, rows)
	out := make(table.Vector, days)
	for j := 0; j < days; j++ {
		for i := 0; i < rows; i++ {
			column[i] = data[i*days+j]
		}
		_, out[j] = stat.PopMeanStdDev(column, nil)
	}
	return out, nil
}

// Analyzer runs the cross-dataset analysis over a Source with tracing,
// metrics and logging.
type Analyzer struct {
	source  datasource.Source
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithTracer sets the tracer used for analysis spans
func WithTracer(t trace.Tracer) Option {
	return func(a *Analyzer) { a.tracer = t }
}

// WithMetrics sets the instruments recording analysis runs
func WithMetrics(m *infrastructure.BusinessMetrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an Analyzer reading from source
func NewAnalyzer(source datasource.Source, opts ...Option) *Analyzer {
	a := &Analyzer{source: source}
	for _, opt := range opts {
		opt(a)
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(infrastructure.MeterName)
	}
	// an injected logger keeps its caller's component
	if a.logger == nil {
		a.logger = slog.Default().With(slog.String("component", "analysis"))
	}
	return a
}

// Result is the outcome of one analysis run
type Result struct {
	Datasets    int
	StdDevByDay table.Vector
}

// Days returns the number of days covered by the result
func (r Result) Days() int { return len(r.StdDevByDay) }

// Analyse loads the collection and computes the standard deviation by day.
func (a *Analyzer) Analyse(ctx context.Context) (res Result, err error) {
	ctx, span := a.tracer.Start(ctx, "analysis.std_dev_by_day")
	defer span.End()

	start := time.Now()
	defer func() {
		infrastructure.RecordAnalysis(ctx, a.metrics, kindStdDevByDay, time.Since(start), err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			a.logger.ErrorContext(ctx, "analysis failed", slog.String("error", err.Error()))
		}
	}()

	if a.source == nil {
		return Result{}, apperrors.NewTypeError("analysis requires a data source")
	}

	tables, err := a.source.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("analysis.datasets", len(tables)))

	sd, err := ComputeStandardDeviationByDay(tables)
	if err != nil {
		return Result{}, err
	}
	span.SetAttributes(attribute.Int("analysis.days", len(sd)))

	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("datasets", len(tables)),
		slog.Int("days", len(sd)),
		slog.Duration("duration", time.Since(start)))

	return Result{Datasets: len(tables), StdDevByDay: sd}, nil
}

// AnalyseData loads every dataset from source and returns the standard
// deviation of the daily means across datasets.
func AnalyseData(ctx context.Context, source datasource.Source) (table.Vector, error) {
	res, err := NewAnalyzer(source).Analyse(ctx)
	if err != nil {
		return nil, err
	}
	return res.StdDevByDay, nil
}
