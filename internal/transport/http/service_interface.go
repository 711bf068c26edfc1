package http

import (
	"context"

	"inflammation/internal/services"
	"inflammation/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations served over HTTP
type AnalysisServiceInterface interface {
	FullAnalysis(ctx context.Context, path string) (*domain.AnalysisResponse, error)
	Statistics(ctx context.Context, path string, index int) (*domain.StatisticsResponse, error)
	Normalised(ctx context.Context, path string, index int) (*domain.NormalisedResponse, error)
}

// HealthServiceInterface defines the health probes served over HTTP
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
}

var (
	_ AnalysisServiceInterface = (*services.AnalysisService)(nil)
	_ HealthServiceInterface   = (*services.HealthService)(nil)
)
