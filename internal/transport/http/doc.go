// Package http implements the HTTP surface of the inflammation service.
// Handlers stay thin: they bind query parameters, confine data paths to the
// configured root, call the analysis service and render the result.
//
// # Routes
//
//	GET /healthz                                 health status
//	GET /livez                                   liveness with runtime details
//	GET /metrics                                 Prometheus exposition
//	GET /api/v1/analysis?path=P                  standard deviation of daily means
//	GET /api/v1/statistics?path=P&dataset=N      daily mean, max and min
//	GET /api/v1/normalised?path=P&dataset=N      per-patient normalised table
//
// P is relative to the data root. Its extension picks the format (.csv,
// .json or .xlsx) and its directory is scanned for datasets. dataset
// defaults to 0.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/data/not-found",
//	    "title": "No Data Found",
//	    "status": 404,
//	    "detail": "no data files matching \"inflammation*.csv\" in /data",
//	    "instance": "/api/v1/analysis",
//	    "error_type": "NO_DATA"
//	}
package http
