package table

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "inflammation/internal/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		wantErr error
	}{
		{"valid", 2, 3, nil},
		{"single cell", 1, 1, nil},
		{"zero rows", 0, 3, apperrors.ErrValidation},
		{"zero cols", 2, 0, apperrors.ErrValidation},
		{"negative", -1, 2, apperrors.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.rows, tt.cols)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tbl)
				return
			}
			require.NoError(t, err)
			r, c := tbl.Shape()
			assert.Equal(t, tt.rows, r)
			assert.Equal(t, tt.cols, c)
			assert.Equal(t, make([]float64, tt.rows*tt.cols), tbl.Values())
		})
	}
}

func TestFromRows(t *testing.T) {
	t.Run("rectangular", func(t *testing.T) {
		src := [][]float64{{1, 2, 3}, {4, 5, 6}}
		tbl, err := FromRows(src)
		require.NoError(t, err)

		assert.Equal(t, 2, tbl.Rows())
		assert.Equal(t, 3, tbl.Cols())
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, tbl.Values())
		if diff := cmp.Diff(src, tbl.ToRows()); diff != "" {
			t.Errorf("ToRows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("input is copied", func(t *testing.T) {
		src := [][]float64{{1, 2}}
		tbl, err := FromRows(src)
		require.NoError(t, err)

		src[0][0] = 99
		v, err := tbl.At(0, 0)
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)
	})

	t.Run("ragged", func(t *testing.T) {
		_, err := FromRows([][]float64{{1, 2}, {3}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := FromRows(nil)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = FromRows([][]float64{{}})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestFromFlat(t *testing.T) {
	tbl, err := FromFlat(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, tbl.Row(1))

	_, err = FromFlat(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTable_AtOutOfRange(t *testing.T) {
	tbl, err := FromRows([][]float64{{1, 2}})
	require.NoError(t, err)

	for _, idx := range [][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 2}} {
		_, err := tbl.At(idx[0], idx[1])
		assert.ErrorIs(t, err, apperrors.ErrValidation, "index %v", idx)
	}
	assert.Nil(t, tbl.Row(5))
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tbl, err := FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	clone := tbl.Clone()
	clone.data[0] = 42

	v, _ := tbl.At(0, 0)
	assert.Equal(t, 1.0, v)
	assert.False(t, tbl.Equal(clone, 0))
}

func TestTable_Equal(t *testing.T) {
	a, _ := FromRows([][]float64{{1, math.NaN()}})
	b, _ := FromRows([][]float64{{1 + 1e-12, math.NaN()}})
	c, _ := FromRows([][]float64{{1}, {2}})

	assert.True(t, a.Equal(b, 1e-9))
	assert.False(t, a.Equal(b, 0))
	assert.False(t, a.Equal(c, 1e-9))
	assert.False(t, a.Equal(nil, 1e-9))
}

func TestTable_String(t *testing.T) {
	tbl, _ := FromRows([][]float64{{1, 2.5}, {0, 3}})
	assert.Equal(t, "[1, 2.5]\n[0, 3]\n", tbl.String())
}

func TestStack(t *testing.T) {
	t.Run("equal lengths", func(t *testing.T) {
		tbl, err := Stack([]Vector{{2.5, 3.5, 4.5}, {8.5, 9.5, 10.5}})
		require.NoError(t, err)
		assert.Equal(t, 2, tbl.Rows())
		assert.Equal(t, 3, tbl.Cols())
		assert.Equal(t, []float64{8.5, 9.5, 10.5}, tbl.Row(1))
	})

	t.Run("unequal lengths", func(t *testing.T) {
		_, err := Stack([]Vector{{1, 2, 3}, {1, 2}})
		require.ErrorIs(t, err, apperrors.ErrShapeMismatch)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 1, appErr.Context["index"])
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Stack(nil)
		assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
	})
}

func TestVStack(t *testing.T) {
	a, _ := FromRows([][]float64{{1, 2}})
	b, _ := FromRows([][]float64{{3, 4}, {5, 6}})
	c, _ := FromRows([][]float64{{1, 2, 3}})

	tbl, err := VStack([]*Table{a, b})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}, {5, 6}}, tbl.ToRows())

	_, err = VStack([]*Table{a, c})
	assert.ErrorIs(t, err, apperrors.ErrShapeMismatch)

	_, err = VStack(nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)

	_, err = VStack([]*Table{a, nil})
	assert.ErrorIs(t, err, apperrors.ErrTypeKind)
}

func TestVector_Clone(t *testing.T) {
	v := Vector{1, 2, 3}
	c := v.Clone()
	c[0] = 9

	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 1.0, v[0])
	assert.Nil(t, Vector(nil).Clone())
}
