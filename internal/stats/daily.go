package stats

import (
	"fmt"
	"math"

	apperrors "inflammation/internal/errors"
	"inflammation/internal/table"
)

const (
	opDailyMean        = "DailyMean"
	opDailyMax         = "DailyMax"
	opDailyMin         = "DailyMin"
	opPatientNormalise = "PatientNormalise"
)

func statsErrorf(op string, err error) error {
	return fmt.Errorf("stats.%s: %w", op, err)
}

// validateMatrix rejects nil inputs and tables without rows or days.
func validateMatrix(m table.Matrix) error {
	if m == nil {
		return apperrors.NewTypeError("input should be an inflammation table, got nil")
	}
	if t, ok := m.(*table.Table); ok && t == nil {
		return apperrors.NewTypeError("input should be an inflammation table, got nil")
	}
	if m.Rows() <= 0 || m.Cols() <= 0 {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("inflammation array should be 2-dimensional with rows > 0 and cols > 0, got %dx%d", m.Rows(), m.Cols()))
	}
	return nil
}

// reduceColumns folds every column across rows. Row 0 seeds the
// accumulator and step folds each later row in.
func reduceColumns(op string, m table.Matrix, step func(acc, v float64) float64) (table.Vector, error) {
	if err := validateMatrix(m); err != nil {
		return nil, statsErrorf(op, err)
	}
	r, c := m.Rows(), m.Cols()
	out := make(table.Vector, c)

	if t, ok := m.(*table.Table); ok {
		data := t.Values()
		copy(out, data[:c])
		for i := 1; i < r; i++ {
			base := i * c
			for j := 0; j < c; j++ {
				out[j] = step(out[j], data[base+j])
			}
		}
		return out, nil
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, err := m.At(i, j)
			if err != nil {
				return nil, statsErrorf(op, err)
			}
			if i == 0 {
				out[j] = v
				continue
			}
			out[j] = step(out[j], v)
		}
	}
	return out, nil
}

// DailyMean returns the arithmetic mean of each day across all patients.
func DailyMean(m table.Matrix) (table.Vector, error) {
	sums, err := reduceColumns(opDailyMean, m, func(acc, v float64) float64 { return acc + v })
	if err != nil {
		return nil, err
	}
	n := float64(m.Rows())
	for j := range sums {
		sums[j] /= n
	}
	return sums, nil
}

// DailyMax returns the maximum of each day across all patients.
func DailyMax(m table.Matrix) (table.Vector, error) {
	return reduceColumns(opDailyMax, m, math.Max)
}

// DailyMin returns the minimum of each day across all patients.
func DailyMin(m table.Matrix) (table.Vector, error) {
	return reduceColumns(opDailyMin, m, math.Min)
}

// Summary holds the three per-day reductions shown in plot mode.
type Summary struct {
	Mean table.Vector `json:"average"`
	Max  table.Vector `json:"max"`
	Min  table.Vector `json:"min"`
}

// Days returns the number of days covered by the summary
func (s Summary) Days() int {
	return len(s.Mean)
}

// Summarise computes mean, max and min in one call.
func Summarise(m table.Matrix) (Summary, error) {
	mean, err := DailyMean(m)
	if err != nil {
		return Summary{}, err
	}
	maxV, err := DailyMax(m)
	if err != nil {
		return Summary{}, err
	}
	minV, err := DailyMin(m)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Mean: mean, Max: maxV, Min: minV}, nil
}
