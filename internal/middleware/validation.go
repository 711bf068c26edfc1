package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "inflammation/internal/errors"
	"inflammation/pkg/contracts/domain"
)

// QueryValidator binds and validates query parameters using struct tags
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a new query parameter validator
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	v := validator.New()

	// Use JSON tag names in error messages so they match the query keys
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// DatasetQuery reads path and dataset from the request. A missing path is a
// MISSING_PARAMETER error; an absent dataset selects the first one.
func (v *QueryValidator) DatasetQuery(r *http.Request) (domain.DatasetQuery, error) {
	q := domain.DatasetQuery{Path: strings.TrimSpace(r.URL.Query().Get("path"))}
	if q.Path == "" {
		return q, apierrors.MissingParameter("path")
	}

	index, err := v.Int(r, "dataset", 0)
	if err != nil {
		return q, err
	}
	q.Dataset = index

	if err := v.ValidateStruct(q); err != nil {
		return q, err
	}
	return q, nil
}

// Int parses an integer query parameter, returning def when it is absent
func (v *QueryValidator) Int(r *http.Request, param string, def int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		v.logger.DebugContext(r.Context(), "invalid integer parameter",
			slog.String("param", param),
			slog.String("value", raw),
		)
		return 0, apierrors.ErrValidationParam(param, fmt.Sprintf("%s must be a valid integer", param))
	}
	return n, nil
}

// ValidateStruct validates s and reports the first failing field as an
// API validation error.
func (v *QueryValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apierrors.ErrValidationParam(fe.Field(), formatValidationError(fe))
	}
	return err
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}
