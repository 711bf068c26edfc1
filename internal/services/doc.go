// Package services holds the operations shared by the command-line driver
// and the HTTP server.
//
// AnalysisService resolves a data file path to a data source through the
// datasource registry and runs the cross-dataset analysis, per-dataset
// statistics, normalisation and plot summary over what it loads. Errors are
// returned unchanged so callers can classify them with errors.Is.
package services
