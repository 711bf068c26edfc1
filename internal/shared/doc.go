// Package shared holds code used across packages that belongs to no single
// domain layer.
//
// The testutil subpackage provides test helpers: a capturing slog handler
// for asserting on log output, and fixture writers that lay out CSV, JSON
// and XLSX inflammation datasets in a temporary directory.
//
// Nothing here may import the service or transport layers.
package shared
