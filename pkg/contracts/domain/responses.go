package domain

// AnalysisResponse is the cross-dataset analysis result
type AnalysisResponse struct {
	Datasets    int    `json:"datasets"`
	Days        int    `json:"days"`
	StdDevByDay Series `json:"std_dev_by_day"`
}

// StatisticsResponse holds the daily reductions of a single dataset
type StatisticsResponse struct {
	Dataset  int    `json:"dataset"`
	Patients int    `json:"patients"`
	Days     int    `json:"days"`
	Mean     Series `json:"mean"`
	Max      Series `json:"max"`
	Min      Series `json:"min"`
}

// NormalisedResponse holds a dataset scaled per patient into [0, 1]
type NormalisedResponse struct {
	Dataset  int  `json:"dataset"`
	Patients int  `json:"patients"`
	Days     int  `json:"days"`
	Rows     Grid `json:"rows"`
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// DatasetQuery carries the query parameters of the per-dataset endpoints
type DatasetQuery struct {
	Path    string `json:"path" validate:"required"`
	Dataset int    `json:"dataset" validate:"min=0"`
}
