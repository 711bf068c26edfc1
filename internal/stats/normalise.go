package stats

import (
	"fmt"
	"math"

	apperrors "inflammation/internal/errors"
	"inflammation/internal/table"
)

// PatientNormalise scales each patient's row into [0, 1] by dividing by the
// row maximum. NaN readings are ignored when finding the maximum, and any
// undefined quotient (a NaN reading, or 0/0 for an all-zero row) becomes 0.
// The input is never modified.
func PatientNormalise(m table.Matrix) (*table.Table, error) {
	t, ok := m.(*table.Table)
	if !ok || t == nil {
		return nil, statsErrorf(opPatientNormalise,
			apperrors.NewTypeError(fmt.Sprintf("data input should be an inflammation table, got %T", m)))
	}
	if err := validateMatrix(t); err != nil {
		return nil, statsErrorf(opPatientNormalise, err)
	}

	r, c := t.Shape()
	data := t.Values()

	for k, v := range data {
		if v < 0 {
			return nil, statsErrorf(opPatientNormalise,
				apperrors.NewAppValidationError("inflammation values should be non-negative").
					WithContext("row", k/c).
					WithContext("col", k%c))
		}
	}

	for i := 0; i < r; i++ {
		row := data[i*c : (i+1)*c]
		rowMax := math.NaN()
		for _, v := range row {
			if !math.IsNaN(v) && (math.IsNaN(rowMax) || v > rowMax) {
				rowMax = v
			}
		}
		for j, v := range row {
			q := v / rowMax
			if math.IsNaN(q) || math.IsInf(q, 0) {
				q = 0
			}
			row[j] = q
		}
	}

	return table.FromFlat(r, c, data)
}
