package table

import (
	"fmt"
	"math"
	"strings"

	apperrors "inflammation/internal/errors"
)

// Matrix is the read-only view shared by every 2-D input the statistics
// engine accepts. At returns an error instead of panicking so that inputs
// with non-numeric cells can report a TYPE error at the offending cell.
type Matrix interface {
	Rows() int
	Cols() int
	At(i, j int) (float64, error)
}

// Vector is a daily summary: one value per day (column).
type Vector []float64

// Len returns the number of days in the vector
func (v Vector) Len() int {
	return len(v)
}

// Clone returns an independent copy of the vector
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Table is a patients × days matrix stored row-major in a flat buffer
// (offset = i*cols + j). Tables are immutable once built.
type Table struct {
	r, c int
	data []float64
}

var _ Matrix = (*Table)(nil)

func tableErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Table.%s(%d,%d): %w", method, row, col, err)
}

// New creates a rows×cols zero table. Both dimensions must be positive.
func New(rows, cols int) (*Table, error) {
	if rows <= 0 || cols <= 0 {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("table must be 2-dimensional with rows > 0 and cols > 0, got %dx%d", rows, cols))
	}
	return &Table{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// FromFlat builds a table from a row-major buffer. The buffer is copied.
func FromFlat(rows, cols int, data []float64) (*Table, error) {
	t, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, apperrors.NewAppValidationError(
			fmt.Sprintf("buffer holds %d values, %dx%d table needs %d", len(data), rows, cols, rows*cols))
	}
	copy(t.data, data)
	return t, nil
}

// FromRows builds a table from row slices. Every row must have the same
// length; the values are copied.
func FromRows(rows [][]float64) (*Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewAppValidationError("table must have at least one row")
	}
	cols := len(rows[0])
	t, err := New(len(rows), cols)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != cols {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("table is not rectangular: row %d has %d values, row 0 has %d", i, len(row), cols)).
				WithContext("row", i)
		}
		copy(t.data[i*cols:(i+1)*cols], row)
	}
	return t, nil
}

// Rows returns the number of patients
func (t *Table) Rows() int { return t.r }

// Cols returns the number of days
func (t *Table) Cols() int { return t.c }

// Shape returns (rows, cols)
func (t *Table) Shape() (int, int) { return t.r, t.c }

// At returns the value for patient i on day j
func (t *Table) At(i, j int) (float64, error) {
	if i < 0 || i >= t.r || j < 0 || j >= t.c {
		return 0, tableErrorf("At", i, j, apperrors.NewAppValidationError("index out of range"))
	}
	return t.data[i*t.c+j], nil
}

// Row returns a copy of row i, or nil when i is out of range
func (t *Table) Row(i int) []float64 {
	if i < 0 || i >= t.r {
		return nil
	}
	out := make([]float64, t.c)
	copy(out, t.data[i*t.c:(i+1)*t.c])
	return out
}

// ToRows returns the table as a fresh slice of rows
func (t *Table) ToRows() [][]float64 {
	out := make([][]float64, t.r)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Values returns a copy of the row-major buffer
func (t *Table) Values() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	return &Table{r: t.r, c: t.c, data: t.Values()}
}

// Equal reports whether both tables have the same shape and values within tol.
// NaNs compare equal to each other.
func (t *Table) Equal(o *Table, tol float64) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.r != o.r || t.c != o.c {
		return false
	}
	for k, v := range t.data {
		w := o.data[k]
		if math.IsNaN(v) || math.IsNaN(w) {
			if !(math.IsNaN(v) && math.IsNaN(w)) {
				return false
			}
			continue
		}
		if math.Abs(v-w) > tol {
			return false
		}
	}
	return true
}

// String renders the table one bracketed row per line
func (t *Table) String() string {
	var b strings.Builder
	for i := 0; i < t.r; i++ {
		b.WriteString("[")
		for j := 0; j < t.c; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", t.data[i*t.c+j])
		}
		b.WriteString("]\n")
	}
	return b.String()
}

// VStack concatenates the rows of several tables with the same day count.
func VStack(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, apperrors.NewEmptyInputError()
	}
	for i, t := range tables {
		if t == nil {
			return nil, apperrors.NewTypeError(fmt.Sprintf("dataset %d is nil", i))
		}
	}
	cols := tables[0].c
	rows := 0
	for i, t := range tables {
		if t.c != cols {
			return nil, apperrors.NewShapeMismatchError(cols, t.c, i)
		}
		rows += t.r
	}
	data := make([]float64, 0, rows*cols)
	for _, t := range tables {
		data = append(data, t.data...)
	}
	return &Table{r: rows, c: cols, data: data}, nil
}

// Stack builds a table whose rows are the given vectors. All vectors must
// have the same length.
func Stack(vectors []Vector) (*Table, error) {
	if len(vectors) == 0 {
		return nil, apperrors.NewEmptyInputError()
	}
	cols := len(vectors[0])
	for i, v := range vectors {
		if len(v) != cols {
			return nil, apperrors.NewShapeMismatchError(cols, len(v), i)
		}
	}
	t, err := New(len(vectors), cols)
	if err != nil {
		return nil, err
	}
	for i, v := range vectors {
		copy(t.data[i*cols:(i+1)*cols], v)
	}
	return t, nil
}
