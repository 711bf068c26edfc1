package table

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "inflammation/internal/errors"
)

// Text is a grid of raw, not yet typed cells, as read from a delimited file
// or a spreadsheet. It satisfies Matrix so the statistics engine can run on
// it directly; any cell that is not a number surfaces as a TYPE error.
type Text [][]string

var _ Matrix = Text(nil)

// Rows returns the number of rows in the grid
func (t Text) Rows() int { return len(t) }

// Cols returns the width of the first row
func (t Text) Cols() int {
	if len(t) == 0 {
		return 0
	}
	return len(t[0])
}

// At parses cell (i, j) as a float64
func (t Text) At(i, j int) (float64, error) {
	if i < 0 || i >= len(t) || j < 0 || j >= len(t[i]) {
		return 0, tableErrorf("At", i, j, apperrors.NewAppValidationError("index out of range"))
	}
	cell := strings.TrimSpace(t[i][j])
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, tableErrorf("At", i, j,
			apperrors.NewTypeError(fmt.Sprintf("cell %q is not numeric", cell)).
				WithContext("row", i).
				WithContext("col", j))
	}
	return v, nil
}

// ToTable converts the grid into a Table. The grid must be rectangular and
// every cell numeric.
func (t Text) ToTable() (*Table, error) {
	rows, cols := t.Rows(), t.Cols()
	out, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := 0; i < rows; i++ {
		if len(t[i]) != cols {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("grid is not rectangular: row %d has %d cells, row 0 has %d", i, len(t[i]), cols)).
				WithContext("row", i)
		}
		for j := 0; j < cols; j++ {
			v, err := t.At(i, j)
			if err != nil {
				return nil, err
			}
			out.data[i*cols+j] = v
		}
	}
	return out, nil
}
