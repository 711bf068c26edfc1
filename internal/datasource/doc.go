// Package datasource discovers and parses inflammation data files.
//
// A Source turns a directory into an ordered collection of patient tables.
// CSVSource and XLSXSource read one table per file; JSONSource reads one
// one-row table per patient record. Files are visited in lexical order and
// a directory without matching files fails with ErrNoData.
//
// Registry selects a source by file extension and CachedSource memoises
// loads of unchanged files in a ristretto cache.
package datasource
