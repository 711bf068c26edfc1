package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"inflammation/internal/files"
)

// ChartSheet is the worksheet holding the plotted data
const ChartSheet = "Summary"

// ChartExporter renders daily series as a workbook with the data on one
// sheet and a line chart of every series beside it.
type ChartExporter struct {
	files  *files.Manager
	Title  string
	Width  uint
	Height uint
}

// NewChartExporter creates a chart exporter rooted at baseDir
func NewChartExporter(baseDir string) *ChartExporter {
	return &ChartExporter{
		files:  files.NewManager(baseDir),
		Title:  "Daily inflammation",
		Width:  640,
		Height: 360,
	}
}

// Export writes the workbook to path
func (e *ChartExporter) Export(path string, columns []Column) error {
	days, err := validateColumns(columns)
	if err != nil {
		return err
	}
	if days == 0 {
		return fmt.Errorf("cannot chart an empty series")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ChartSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, "day")
	for _, c := range columns {
		header = append(header, c.Name)
	}
	if err := f.SetSheetRow(ChartSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for d := 0; d < days; d++ {
		row := make([]interface{}, 0, len(columns)+1)
		row = append(row, d)
		for _, c := range columns {
			row = append(row, c.Values[d])
		}
		cell, err := excelize.CoordinatesToCellName(1, d+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ChartSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write day %d: %w", d, err)
		}
	}

	lastRow := days + 1
	series := make([]excelize.ChartSeries, len(columns))
	for i := range columns {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		series[i] = excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", ChartSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ChartSheet, lastRow),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ChartSheet, col, col, lastRow),
		}
	}

	anchor, err := excelize.CoordinatesToCellName(len(columns)+3, 2)
	if err != nil {
		return err
	}
	if err := f.AddChart(ChartSheet, anchor, &excelize.Chart{
		Type:      excelize.Line,
		Series:    series,
		Title:     []excelize.RichTextRun{{Text: e.Title}},
		Dimension: excelize.ChartDimension{Width: e.Width, Height: e.Height},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		XAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "day"}}},
		YAxis:     excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "inflammation"}}},
	}); err != nil {
		return fmt.Errorf("failed to add chart: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}
	if err := e.files.WriteFile(path, buf.Bytes()); err != nil {
		return err
	}

	slog.Debug("Wrote chart workbook",
		slog.String("path", path),
		slog.Int("days", days),
		slog.Int("series", len(columns)))
	return nil
}
