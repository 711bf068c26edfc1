package errors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*ErrorHandler, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewErrorHandler(logger), buf
}

func TestErrorHandler_HandleError_AppErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedType   string
	}{
		{"no data", NewNoDataError("/data", "*.json"), http.StatusNotFound, TypeNoData},
		{"parse", NewParsingError("bad file", nil), http.StatusUnprocessableEntity, TypeParse},
		{"type kind", NewTypeError("text cell"), http.StatusUnprocessableEntity, TypeTypeKind},
		{"validation", NewAppValidationError("negative value"), http.StatusUnprocessableEntity, TypeInvalidInput},
		{"shape mismatch", NewShapeMismatchError(3, 2, 1), http.StatusUnprocessableEntity, TypeShapeMismatch},
		{"empty input", NewEmptyInputError(), http.StatusUnprocessableEntity, TypeEmptyInput},
		{"unsupported format", NewUnsupportedFormatError(".txt"), http.StatusUnsupportedMediaType, TypeUnsupportedFormat},
		{"wrapped", fmt.Errorf("load: %w", NewNoDataError("/d", "*.csv")), http.StatusNotFound, TypeNoData},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
		{"api error", MissingParameter("path"), http.StatusBadRequest, TypeBadRequest},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, logs := newTestHandler()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-123"))
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedType, body["type"])
			assert.Equal(t, float64(tt.expectedStatus), body["status"])
			assert.Equal(t, "/api/v1/analysis", body["instance"])
			assert.Equal(t, "req-123", body["trace_id"])

			assert.Contains(t, logs.String(), "request failed")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	handler, logs := newTestHandler()
	rec := httptest.NewRecorder()

	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, logs.String())
}

func TestErrorToProblem_IncludesAppErrorContext(t *testing.T) {
	handler, _ := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis", nil)

	problem := handler.ErrorToProblem(NewUnsupportedFormatError(".txt"), req)

	assert.Equal(t, ".txt", problem.Extensions["extension"])
	assert.Equal(t, "UNSUPPORTED_FORMAT", problem.Extensions["error_type"])
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	problem := NewProblemDetails(http.StatusNotFound, TypeNoData, "No Data Found", "", "").
		WithExtension("dir", "/data")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "/data", body["dir"])
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
}
