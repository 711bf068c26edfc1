package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"inflammation/internal/config"
	apperrors "inflammation/internal/errors"
	"inflammation/internal/files"
	"inflammation/internal/infrastructure"
	"inflammation/internal/table"
	"inflammation/pkg/contracts/domain"
)

var recordValidator = validator.New()

// JSONSource loads patient records from JSON files matching Pattern in Dir.
// Each file holds an array of records and each record becomes a one-row
// table. Only the first file is read unless MultiFile is set.
type JSONSource struct {
	Dir       string
	Pattern   string
	MultiFile bool
	Logger    *slog.Logger
	Metrics   *infrastructure.BusinessMetrics
}

var _ FileSource = (*JSONSource)(nil)

func (s *JSONSource) pattern() string {
	if s.Pattern == "" {
		return config.DefaultJSONPattern
	}
	return s.Pattern
}

// Format returns "json"
func (s *JSONSource) Format() string { return FormatJSON }

func (s *JSONSource) cacheKey() string {
	if s.MultiFile {
		return FormatJSON + "+multi"
	}
	return FormatJSON
}

// Discover lists the files Load reads: the first match, or every match in
// MultiFile mode.
func (s *JSONSource) Discover() ([]files.FileInfo, error) {
	found, err := discover(s.Dir, s.pattern())
	if err != nil {
		return nil, err
	}
	if !s.MultiFile {
		found = found[:1]
	}
	return found, nil
}

// Load decodes the discovered files and concatenates their records in order.
func (s *JSONSource) Load(ctx context.Context) ([]*table.Table, error) {
	found, err := s.Discover()
	if err != nil {
		observe(ctx, s.Logger, s.Metrics, FormatJSON, s.Dir, nil, err)
		return nil, err
	}
	return s.loadFiles(ctx, found)
}

func (s *JSONSource) loadFiles(ctx context.Context, found []files.FileInfo) (tables []*table.Table, err error) {
	defer func() { observe(ctx, s.Logger, s.Metrics, FormatJSON, s.Dir, tables, err) }()

	for _, f := range found {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		loaded, err := LoadJSON(f.Path)
		if err != nil {
			return nil, err
		}
		infrastructure.RecordFileParsed(ctx, s.Metrics, FormatJSON)
		tables = append(tables, loaded...)
	}
	return tables, nil
}

// LoadJSON decodes one file of patient records into one-row tables. Keys
// other than observations are ignored.
func LoadJSON(path string) ([]*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}

	var records []domain.PatientRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s: invalid patient records", filepath.Base(path)), err).
			WithContext("file", path)
	}

	tables := make([]*table.Table, 0, len(records))
	for i, rec := range records {
		if err := recordValidator.Struct(rec); err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("%s: record %d has no observations", filepath.Base(path), i), err).
				WithContext("file", path).
				WithContext("record", i)
		}
		t, err := table.FromFlat(1, len(rec.Observations), rec.Observations)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
