package domain

// PatientRecord is one patient's entry in a JSON data file. Only
// observations is read; other keys are ignored.
type PatientRecord struct {
	Observations []float64 `json:"observations" validate:"required,min=1"`
}
