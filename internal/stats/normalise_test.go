package stats

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "inflammation/internal/errors"
	"inflammation/internal/table"
)

func TestPatientNormalise(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]float64
		expected [][]float64
	}{
		{
			name:     "integers",
			input:    [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
			expected: [][]float64{{0.33, 0.67, 1}, {0.67, 0.83, 1}, {0.78, 0.89, 1}},
		},
		{
			name:     "zero row",
			input:    [][]float64{{0, 0, 0}, {1, 2, 4}},
			expected: [][]float64{{0, 0, 0}, {0.25, 0.5, 1}},
		},
		{
			name:     "nan readings",
			input:    [][]float64{{math.NaN(), 2, 4}, {math.NaN(), math.NaN(), math.NaN()}},
			expected: [][]float64{{0, 0.5, 1}, {0, 0, 0}},
		},
	}

	approx := cmpopts.EquateApprox(0, 0.01)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := mustTable(t, tt.input)

			got, err := PatientNormalise(in)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.expected, got.ToRows(), approx); diff != "" {
				t.Errorf("PatientNormalise mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatientNormalise_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   table.Matrix
		wantErr error
	}{
		{"negative value", mustTable(t, [][]float64{{-1, 2}}), apperrors.ErrValidation},
		{"text grid", table.Text{{"1", "2"}}, apperrors.ErrTypeKind},
		{"nil", nil, apperrors.ErrTypeKind},
		{"nil table", (*table.Table)(nil), apperrors.ErrTypeKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PatientNormalise(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestPatientNormalise_DoesNotMutateInput(t *testing.T) {
	in := mustTable(t, [][]float64{{2, 4}, {0, 0}})
	before := in.Clone()

	out, err := PatientNormalise(in)
	require.NoError(t, err)

	assert.True(t, before.Equal(in, 0))
	assert.NotSame(t, in, out)
	assert.Equal(t, [][]float64{{0.5, 1}, {0, 0}}, out.ToRows())
}

func TestPatientNormalise_RangeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		rows, cols := 1+rng.Intn(15), 1+rng.Intn(30)
		data := make([][]float64, rows)
		for i := range data {
			data[i] = make([]float64, cols)
			// every fifth row is all zero
			if i%5 == 4 {
				continue
			}
			for j := range data[i] {
				data[i][j] = rng.Float64() * 20
			}
		}

		out, err := PatientNormalise(mustTable(t, data))
		require.NoError(t, err)

		for i, row := range out.ToRows() {
			for j, v := range row {
				require.False(t, math.IsNaN(v), "trial %d (%d,%d) is NaN", trial, i, j)
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
				if i%5 == 4 {
					assert.Zero(t, v)
				}
			}
		}
	}
}
