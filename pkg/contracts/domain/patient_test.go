package domain

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientRecord_Validation(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"observations", `{"observations": [0, 1.5, 2]}`, false},
		{"extra keys ignored", `{"id": 7, "observations": [3]}`, false},
		{"missing observations", `{"id": 7}`, true},
		{"empty observations", `{"observations": []}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec PatientRecord
			require.NoError(t, json.Unmarshal([]byte(tt.input), &rec))

			err := v.Struct(rec)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalysisResponse_JSON(t *testing.T) {
	out, err := json.Marshal(AnalysisResponse{Datasets: 2, Days: 3, StdDevByDay: []float64{3, 3, 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"datasets":2,"days":3,"std_dev_by_day":[3,3,3]}`, string(out))
}
