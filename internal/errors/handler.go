package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// Common error types following RFC 7807
const (
	TypeValidation   = "/errors/validation"
	TypeNotFound     = "/errors/not-found"
	TypeRateLimit    = "/errors/rate-limit"
	TypeInternal     = "/errors/internal"
	TypeTimeout      = "/errors/timeout"
	TypeBadRequest   = "/errors/bad-request"
	TypeInvalidInput = "/errors/invalid-input"
)

// Domain-specific error types
const (
	TypeNoData            = "/errors/data/not-found"
	TypeParse             = "/errors/data/unparseable"
	TypeTypeKind          = "/errors/data/non-numeric"
	TypeShapeMismatch     = "/errors/data/shape-mismatch"
	TypeEmptyInput        = "/errors/data/empty"
	TypeUnsupportedFormat = "/errors/data/unsupported-format"
)

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	problem := h.ErrorToProblem(err, r)
	if reqID != "" {
		problem.WithExtension("trace_id", reqID)
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			r.URL.Path,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErrorToProblem(apiErr, r)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErrorToProblem(appErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		r.URL.Path,
	)
}

// apiErrorToProblem converts APIError to ProblemDetails
func apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED":
		problemType = TypeValidation
	case "INVALID_REQUEST", "MISSING_PARAMETER":
		problemType = TypeBadRequest
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// appErrorToProblem maps domain error kinds onto HTTP problems
func appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status, problemType, title := http.StatusInternalServerError, TypeInternal, "Internal Server Error"

	switch appErr.Type {
	case ErrTypeNoData:
		status, problemType, title = http.StatusNotFound, TypeNoData, "No Data Found"
	case ErrTypeParsing:
		status, problemType, title = http.StatusUnprocessableEntity, TypeParse, "Unparseable Data"
	case ErrTypeTypeKind:
		status, problemType, title = http.StatusUnprocessableEntity, TypeTypeKind, "Non-numeric Data"
	case ErrTypeValidation:
		status, problemType, title = http.StatusUnprocessableEntity, TypeInvalidInput, "Invalid Data"
	case ErrTypeShapeMismatch:
		status, problemType, title = http.StatusUnprocessableEntity, TypeShapeMismatch, "Dataset Shape Mismatch"
	case ErrTypeEmptyInput:
		status, problemType, title = http.StatusUnprocessableEntity, TypeEmptyInput, "Empty Input"
	case ErrTypeUnsupportedFormat:
		status, problemType, title = http.StatusUnsupportedMediaType, TypeUnsupportedFormat, "Unsupported Format"
	}

	detail := appErr.Message
	if status == http.StatusInternalServerError {
		detail = "An unexpected error occurred while processing your request"
	}

	problem := NewProblemDetails(status, problemType, title, detail, r.URL.Path).
		WithExtension("error_type", string(appErr.Type))
	for k, v := range appErr.Context {
		problem.WithExtension(k, v)
	}
	return problem
}
