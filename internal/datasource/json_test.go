package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "inflammation/internal/errors"
)

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "patients.json",
		`[{"id": 1, "observations": [0, 1, 2]}, {"observations": [3, 4, 5]}]`)

	tables, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, [][]float64{{0, 1, 2}}, tables[0].ToRows())
	assert.Equal(t, [][]float64{{3, 4, 5}}, tables[1].ToRows())
}

func TestLoadJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{observations`},
		{"object instead of array", `{"observations": [1]}`},
		{"missing observations", `[{"id": 1}]`},
		{"empty observations", `[{"observations": []}]`},
		{"string readings", `[{"observations": ["a"]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.json", tt.content)
			tables, err := LoadJSON(path)
			assert.ErrorIs(t, err, apperrors.ErrParse)
			assert.Nil(t, tables)
		})
	}
}

func TestJSONSource_FirstFileOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `[{"observations": [9, 9]}]`)
	writeFile(t, dir, "a.json", `[{"observations": [1, 2]}, {"observations": [3, 4]}]`)

	tables, err := (&JSONSource{Dir: dir}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, []float64{1, 2}, tables[0].Row(0))
	assert.Equal(t, []float64{3, 4}, tables[1].Row(0))
}

func TestJSONSource_MultiFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `[{"observations": [9, 9]}]`)
	writeFile(t, dir, "a.json", `[{"observations": [1, 2]}]`)

	tables, err := (&JSONSource{Dir: dir, MultiFile: true}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, []float64{1, 2}, tables[0].Row(0))
	assert.Equal(t, []float64{9, 9}, tables[1].Row(0))
}

func TestJSONSource_NoData(t *testing.T) {
	_, err := (&JSONSource{Dir: t.TempDir()}).Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNoData)
}

func TestJSONSource_EmptyArray(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `[]`)

	tables, err := (&JSONSource{Dir: dir}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables)
}
