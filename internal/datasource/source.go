package datasource

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	apperrors "inflammation/internal/errors"
	"inflammation/internal/files"
	"inflammation/internal/infrastructure"
	"inflammation/internal/table"
)

// Format names used in logs, metrics and cache keys
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Source loads a collection of patient tables. The order of the collection
// is the lexical order of the files it was read from.
type Source interface {
	Load(ctx context.Context) ([]*table.Table, error)
}

// FileSource is a Source backed by files discovered in a directory.
type FileSource interface {
	Source
	// Discover lists the files Load would read, failing with ErrNoData when
	// there are none.
	Discover() ([]files.FileInfo, error)
	// Format names the file format, e.g. "csv".
	Format() string
	// cacheKey distinguishes sources that read the same files differently.
	cacheKey() string
	// loadFiles reads exactly the files given, as returned by Discover.
	loadFiles(ctx context.Context, found []files.FileInfo) ([]*table.Table, error)
}

// discover globs dir for pattern and rejects an empty result
func discover(dir, pattern string) ([]files.FileInfo, error) {
	found, err := files.NewDiscovery("").FindFilesByPattern(dir, pattern)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list %s", dir), err)
	}
	if len(found) == 0 {
		return nil, apperrors.NewNoDataError(dir, pattern)
	}
	return found, nil
}

// parseAll parses every file with at most workers running at once. Results
// keep the order of found. Failures do not cancel sibling parses so that the
// error reported is always that of the first failing file in order.
func parseAll(ctx context.Context, found []files.FileInfo, workers int, parse func(path string) (*table.Table, error)) ([]*table.Table, error) {
	if workers < 1 {
		workers = 1
	}

	out := make([]*table.Table, len(found))
	errs := make([]error, len(found))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, f := range found {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return err
			}
			t, err := parse(f.Path)
			if err != nil {
				errs[i] = err
				return err
			}
			out[i] = t
			return nil
		})
	}

	if err := g.Wait(); err == nil {
		return out, nil
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return nil, ctx.Err()
}

// observe logs and records the outcome of a load
func observe(ctx context.Context, logger *slog.Logger, metrics *infrastructure.BusinessMetrics, format, dir string, tables []*table.Table, err error) {
	infrastructure.RecordLoad(ctx, metrics, format, len(tables), err)
	if logger == nil {
		logger = slog.Default()
	}
	if err != nil {
		logger.WarnContext(ctx, "data source load failed",
			slog.String("format", format),
			slog.String("dir", dir),
			slog.String("error", err.Error()))
		return
	}
	logger.DebugContext(ctx, "data source loaded",
		slog.String("format", format),
		slog.String("dir", dir),
		slog.Int("datasets", len(tables)))
}

func cloneAll(tables []*table.Table) []*table.Table {
	out := make([]*table.Table, len(tables))
	for i, t := range tables {
		out[i] = t.Clone()
	}
	return out
}
