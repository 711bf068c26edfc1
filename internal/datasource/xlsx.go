package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"inflammation/internal/config"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/files"
	"inflammation/internal/infrastructure"
	"inflammation/internal/table"
)

// XLSXSource loads every workbook matching Pattern in Dir as one patient
// table read from Sheet, or from the first sheet when Sheet is empty.
type XLSXSource struct {
	Dir     string
	Pattern string
	Sheet   string
	Workers int
	Logger  *slog.Logger
	Metrics *infrastructure.BusinessMetrics
}

var _ FileSource = (*XLSXSource)(nil)

func (s *XLSXSource) pattern() string {
	if s.Pattern == "" {
		return config.DefaultXLSXPattern
	}
	return s.Pattern
}

// Format returns "xlsx"
func (s *XLSXSource) Format() string { return FormatXLSX }

func (s *XLSXSource) cacheKey() string { return FormatXLSX + ":" + s.Sheet }

// Discover lists the matching workbooks in lexical order
func (s *XLSXSource) Discover() ([]files.FileInfo, error) {
	return discover(s.Dir, s.pattern())
}

// Load parses every matching workbook
func (s *XLSXSource) Load(ctx context.Context) ([]*table.Table, error) {
	found, err := s.Discover()
	if err != nil {
		observe(ctx, s.Logger, s.Metrics, FormatXLSX, s.Dir, nil, err)
		return nil, err
	}
	return s.loadFiles(ctx, found)
}

func (s *XLSXSource) loadFiles(ctx context.Context, found []files.FileInfo) (tables []*table.Table, err error) {
	defer func() { observe(ctx, s.Logger, s.Metrics, FormatXLSX, s.Dir, tables, err) }()

	return parseAll(ctx, found, s.Workers, func(path string) (*table.Table, error) {
		t, err := LoadXLSX(path, s.Sheet)
		if err == nil {
			infrastructure.RecordFileParsed(ctx, s.Metrics, FormatXLSX)
		}
		return t, err
	})
}

// LoadXLSX reads one sheet of numbers, one patient per row. Empty rows are
// skipped; every other row must be as wide as the first.
func LoadXLSX(path, sheet string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s: failed to open workbook", filepath.Base(path)), err).
			WithContext("file", path)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s: workbook has no sheets", filepath.Base(path)), nil).
				WithContext("file", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s: failed to read sheet %q", filepath.Base(path), sheet), err).
			WithContext("file", path).
			WithContext("sheet", sheet)
	}

	var data []float64
	n, cols := 0, 0
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if n == 0 {
			cols = len(row)
		} else if len(row) != cols {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s: row %d has %d cells, expected %d", filepath.Base(path), n+1, len(row), cols), nil).
				WithContext("file", path).
				WithContext("row", n)
		}
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, cellError(path, n, j, cell, err)
			}
			data = append(data, v)
		}
		n++
	}

	if n == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s: sheet %q contains no data", filepath.Base(path), sheet), nil).
			WithContext("file", path)
	}
	return table.FromFlat(n, cols, data)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// WriteXLSX writes t to the named sheet of a new workbook at path.
func WriteXLSX(path, sheet string, t *table.Table) error {
	if t == nil {
		return apperrors.NewTypeError("cannot write a nil table")
	}
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	for i := 0; i < t.Rows(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := t.Row(i)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to encode %s", path), err)
	}
	if err := files.NewManager("").WriteFile(path, buf.Bytes()); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save %s", path), err)
	}
	return nil
}
