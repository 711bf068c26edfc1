package exporter

import (
	"fmt"

	"inflammation/internal/stats"
	"inflammation/internal/table"
)

// Column is one named daily series in a report
type Column struct {
	Name   string
	Values table.Vector
}

// SummaryColumns returns the average, max and min series of s
func SummaryColumns(s stats.Summary) []Column {
	return []Column{
		{Name: "average", Values: s.Mean},
		{Name: "max", Values: s.Max},
		{Name: "min", Values: s.Min},
	}
}

// validateColumns checks there is at least one column and that all columns
// cover the same days, returning the day count.
func validateColumns(columns []Column) (int, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("report needs at least one column")
	}
	days := len(columns[0].Values)
	for _, c := range columns[1:] {
		if len(c.Values) != days {
			return 0, fmt.Errorf("column %q has %d days, expected %d", c.Name, len(c.Values), days)
		}
	}
	return days, nil
}

// ReportExporter writes daily series as a CSV table with one row per day.
type ReportExporter struct {
	csv *CSVWriter
}

// NewReportExporter creates a report exporter rooted at baseDir
func NewReportExporter(baseDir string) *ReportExporter {
	return &ReportExporter{csv: NewCSVWriter(baseDir)}
}

// Export writes a "day" column followed by one column per series.
func (e *ReportExporter) Export(path string, columns []Column) error {
	days, err := validateColumns(columns)
	if err != nil {
		return err
	}

	headers := make([]string, 0, len(columns)+1)
	headers = append(headers, "day")
	for _, c := range columns {
		headers = append(headers, c.Name)
	}

	records := make([][]string, days)
	for d := 0; d < days; d++ {
		record := make([]string, 0, len(columns)+1)
		record = append(record, formatInt(d))
		for _, c := range columns {
			record = append(record, formatFloat(c.Values[d]))
		}
		records[d] = record
	}

	return e.csv.WriteSimpleCSV(path, headers, records)
}
