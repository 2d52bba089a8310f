package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/Poojareddy2809/shadowshare/api/internal/core/domain"
)

// Use a single instance of Validate, it caches struct info
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON/form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Client-facing messages. Decryption and translation failures stay generic.
const (
	msgProcessingError   = "Error processing request"
	msgTranslationFailed = "Translation failed"
	msgInternal          = "Internal server error"
)

// HandleError maps domain and validation failures onto HTTP semantics.
// 🛡️ Zero-Trust: the real error is logged, the caller only sees a stable message.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := classify(err)

	attrs := []any{
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", attrs...)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", attrs...)
	}

	writeJSON(w, status, map[string]string{"message": message})
}

func classify(err error) (int, string) {
	var validationErrs validator.ValidationErrors
	var maxBytesErr *http.MaxBytesError

	switch {
	// 1. Missing input: report directly
	case errors.Is(err, domain.ErrPasswordRequired),
		errors.Is(err, domain.ErrEmptyEnvelope),
		errors.Is(err, domain.ErrCiphertextRequired),
		errors.Is(err, domain.ErrTranslateTextRequired),
		errors.Is(err, domain.ErrTargetLangRequired):
		return http.StatusBadRequest, capitalize(err.Error())

	case errors.Is(err, errInvalidJSON), errors.Is(err, errInvalidForm):
		return http.StatusBadRequest, capitalize(err.Error())

	case errors.As(err, &validationErrs):
		return http.StatusBadRequest, describeValidation(validationErrs)

	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, "Request body too large"

	// 2. Wrong password or corrupt ciphertext: generic
	case errors.Is(err, domain.ErrDecryptFailed):
		return http.StatusBadRequest, msgProcessingError

	// 4. Translation
	case errors.Is(err, domain.ErrTranslatorUnavailable):
		return http.StatusServiceUnavailable, "Translation is not configured"
	case errors.Is(err, domain.ErrTranslationFailed):
		return http.StatusBadGateway, msgTranslationFailed

	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func describeValidation(errs validator.ValidationErrors) string {
	fe := errs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "datauri":
		return fmt.Sprintf("Field '%s' must be a base64 data URI", field)
	case "max":
		return fmt.Sprintf("Field '%s' exceeds the maximum of %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("Field '%s' is invalid", field)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return errInvalidJSON
	}
	return nil
}

var (
	errInvalidJSON = errors.New("invalid JSON payload")
	errInvalidForm = errors.New("invalid form payload")
)
