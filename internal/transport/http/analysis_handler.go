package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "inflammation/internal/errors"
	"inflammation/internal/middleware"
	"inflammation/internal/validation"
)

// AnalysisHandler serves the inflammation analyses. Every request names a
// data file by a path relative to the configured data root; its extension
// selects the format and its directory is scanned for datasets.
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	guard        *validation.PathGuard
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, guard *validation.PathGuard, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		guard:        guard,
		validator:    middleware.NewQueryValidator(logger),
		logger:       logger.With(slog.String("component", "analysis_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/analysis", h.GetAnalysis)
	r.Get("/statistics", h.GetStatistics)
	r.Get("/normalised", h.GetNormalised)

	return r
}

// GetAnalysis handles GET /api/v1/analysis?path=
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.errorHandler.HandleError(w, r, apierrors.MissingParameter("path"))
		return
	}

	full, err := h.resolve(path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.FullAnalysis(r.Context(), full)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "analysis served",
		slog.String("path", path),
		slog.Int("datasets", resp.Datasets),
	)
	render.JSON(w, r, resp)
}

// GetStatistics handles GET /api/v1/statistics?path=&dataset=
func (h *AnalysisHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	q, err := h.validator.DatasetQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	full, err := h.resolve(q.Path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.Statistics(r.Context(), full, q.Dataset)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// GetNormalised handles GET /api/v1/normalised?path=&dataset=
func (h *AnalysisHandler) GetNormalised(w http.ResponseWriter, r *http.Request) {
	q, err := h.validator.DatasetQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	full, err := h.resolve(q.Path)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.service.Normalised(r.Context(), full, q.Dataset)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// resolve confines path to the data root, reporting violations as a
// request validation failure on the path parameter.
func (h *AnalysisHandler) resolve(path string) (string, error) {
	full, err := h.guard.Resolve(path)
	if err != nil {
		var appErr *apierrors.AppError
		if errors.As(err, &appErr) {
			return "", apierrors.ErrValidationParam("path", appErr.Message)
		}
		return "", err
	}
	return full, nil
}
