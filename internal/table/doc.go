// Package table provides the patients × days matrix every data source
// produces and every reduction consumes.
//
// A Table is a flat row-major buffer (offset = i*cols + j) with positive
// dimensions. It is immutable: operations that transform a table return a
// new one. Vector is the 1-D result of reducing a table across patients.
//
// Text wraps raw cells that have not been typed yet. It implements Matrix
// so that non-numeric input is reported at the cell that caused it.
package table
