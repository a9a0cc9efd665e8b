package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"quickcart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// requestError is a malformed request rejected before reaching a service.
type requestError struct {
	code    string
	message string
	details any
	cause   error
}

func (e *requestError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *requestError) Unwrap() error { return e.cause }

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to tell the client.
		return
	}
}

// writeError writes an error response with the given status code.
func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message, Details: details})
}

// writeServiceError maps err to an HTTP response. Domain and request errors
// are the client's fault and keep their message; anything else is logged and
// hidden behind a 500.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		logger.Debug().Err(err).Msg("bad request")
		writeError(w, http.StatusBadRequest, reqErr.code, reqErr.message, reqErr.details)
		return
	}

	if de, ok := model.AsDomainError(err); ok {
		status := statusForKind(de.Kind)
		logger.Debug().Str("code", de.Code).Int("status", status).Msg(de.Message)
		writeError(w, status, de.Code, de.Message, nil)
		return
	}

	logger.Error().Err(err).Msg("handler error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", nil)
}

func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindConflict:
		return http.StatusConflict
	case model.KindUnauthorized:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into dst and validates it.
func decodeJSON(r *http.Request, dst any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return &requestError{
			code:    model.ErrCodeInvalidJSON,
			message: "invalid request body",
			cause:   err,
		}
	}

	if err := validate.Struct(dst); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &requestError{code: model.ErrCodeValidation, message: "validation failed", cause: err}
	}

	details := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		details[fieldErr.Field()] = validationMessage(fieldErr)
	}
	return &requestError{code: model.ErrCodeValidation, message: "validation failed", details: details}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	}
	return "is invalid"
}

// uuidParam parses the named chi URL parameter as a UUID.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	return parseUUID(chi.URLParam(r, name), name)
}

// parseUUID parses raw as the UUID field name, reporting failures as a 400.
func parseUUID(raw, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &requestError{
			code:    model.ErrCodeValidation,
			message: fmt.Sprintf("invalid %s", name),
			details: map[string]string{name: "must be a valid UUID"},
			cause:   err,
		}
	}
	return id, nil
}
