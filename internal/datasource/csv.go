package datasource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"inflammation/internal/config"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/files"
	"inflammation/internal/infrastructure"
	"inflammation/internal/table"
)

// CSVSource loads every file matching Pattern in Dir as one patient table.
type CSVSource struct {
	Dir     string
	Pattern string
	// Workers bounds the number of files parsed concurrently.
	Workers int
	Logger  *slog.Logger
	Metrics *infrastructure.BusinessMetrics
}

var _ FileSource = (*CSVSource)(nil)

func (s *CSVSource) pattern() string {
	if s.Pattern == "" {
		return config.DefaultCSVPattern
	}
	return s.Pattern
}

// Format returns "csv"
func (s *CSVSource) Format() string { return FormatCSV }

func (s *CSVSource) cacheKey() string { return FormatCSV }

// Discover lists the matching files in lexical order
func (s *CSVSource) Discover() ([]files.FileInfo, error) {
	return discover(s.Dir, s.pattern())
}

// Load parses every matching file. Any unparseable file fails the whole load.
func (s *CSVSource) Load(ctx context.Context) ([]*table.Table, error) {
	found, err := s.Discover()
	if err != nil {
		observe(ctx, s.Logger, s.Metrics, FormatCSV, s.Dir, nil, err)
		return nil, err
	}
	return s.loadFiles(ctx, found)
}

func (s *CSVSource) loadFiles(ctx context.Context, found []files.FileInfo) (tables []*table.Table, err error) {
	defer func() { observe(ctx, s.Logger, s.Metrics, FormatCSV, s.Dir, tables, err) }()

	return parseAll(ctx, found, s.Workers, func(path string) (*table.Table, error) {
		t, err := LoadCSV(path)
		if err == nil {
			infrastructure.RecordFileParsed(ctx, s.Metrics, FormatCSV)
		}
		return t, err
	})
}

// LoadCSV reads a comma-delimited file of numbers, one patient per line.
func LoadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	return ParseCSV(f, path)
}

// ParseCSV reads comma-delimited numbers from r. name labels errors.
// Blank lines are skipped; every other line must have the same number of
// fields as the first.
func ParseCSV(r io.Reader, name string) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var data []float64
	rows, cols := 0, 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s: malformed CSV", filepath.Base(name)), err).
				WithContext("file", name).
				WithContext("line", line)
		}
		if rows == 0 {
			cols = len(record)
		}
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, cellError(name, rows, j, cell, err)
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s: file contains no data", filepath.Base(name)), nil).
			WithContext("file", name)
	}
	return table.FromFlat(rows, cols, data)
}

func cellError(name string, row, col int, cell string, cause error) error {
	return apperrors.NewParsingError(
		fmt.Sprintf("%s: row %d column %d: %q is not a number", filepath.Base(name), row+1, col+1, cell), cause).
		WithContext("file", name).
		WithContext("row", row).
		WithContext("col", col)
}

// WriteCSV writes t in the layout LoadCSV reads, using the shortest
// representation that parses back to the same value.
func WriteCSV(path string, t *table.Table) error {
	if t == nil {
		return apperrors.NewTypeError("cannot write a nil table")
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	record := make([]string, t.Cols())
	for i := 0; i < t.Rows(); i++ {
		for j, v := range t.Row(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := files.NewManager("").WriteFile(path, []byte(b.String())); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
