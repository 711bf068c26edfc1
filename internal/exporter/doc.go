// Package exporter renders daily inflammation series to files.
//
// ReportExporter writes a CSV table with one row per day and one column per
// series. ChartExporter writes an XLSX workbook holding the same table and
// a line chart of every series, which is how plot mode presents the daily
// average, maximum and minimum.
//
//	summary, _ := stats.Summarise(data)
//	err := exporter.NewChartExporter("").Export("plot.xlsx", exporter.SummaryColumns(summary))
package exporter
