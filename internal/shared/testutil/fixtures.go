package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"inflammation/pkg/contracts/domain"
)

// WriteFile writes content to dir/name, creating parent directories, and
// returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteCSVDataset writes rows as a headerless comma-separated dataset
func WriteCSVDataset(t *testing.T, dir, name string, rows [][]float64) string {
	t.Helper()
	var b strings.Builder
	for _, row := range rows {
		for j, v := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return WriteFile(t, dir, name, b.String())
}

// WriteJSONDataset writes one patient record per entry of observations
func WriteJSONDataset(t *testing.T, dir, name string, observations [][]float64) string {
	t.Helper()
	records := make([]domain.PatientRecord, len(observations))
	for i, obs := range observations {
		records[i] = domain.PatientRecord{Observations: obs}
	}
	data, err := json.Marshal(records)
	require.NoError(t, err)
	return WriteFile(t, dir, name, string(data))
}

// WriteXLSXDataset writes rows to the named sheet of a new workbook
func WriteXLSXDataset(t *testing.T, dir, name, sheet string, rows [][]float64) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	} else {
		sheet = "Sheet1"
	}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}
