package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/heartmarshall/catalog-compliance/internal/domain"
)

// maxBodyBytes caps request bodies read by handlers.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string              `json:"error"`
	Kind    string              `json:"kind,omitempty"`
	Feature string              `json:"feature,omitempty"`
	Fields  []fieldErrorPayload `json:"fields,omitempty"`
}

type fieldErrorPayload struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps a service error to its HTTP status. Unexpected errors are
// logged and reported as 500 without detail.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		entitlement *domain.EntitlementError
		validation  *domain.ValidationError
	)
	switch {
	case errors.As(err, &entitlement):
		writeJSON(w, http.StatusPaymentRequired, errorResponse{
			Error:   entitlement.Message,
			Kind:    string(entitlement.Kind),
			Feature: entitlement.Feature,
		})
	case errors.As(err, &validation):
		resp := errorResponse{Error: validation.Error()}
		for _, fe := range validation.Errors {
			resp.Fields = append(resp.Fields, fieldErrorPayload{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrStaleSnapshot):
		writeError(w, http.StatusConflict, "product changed since it was read, retry")
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "conflict")
	default:
		if errors.Is(err, domain.ErrIntegrity) {
			log.ErrorContext(r.Context(), "integrity violation",
				slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		} else {
			log.ErrorContext(r.Context(), "request failed",
				slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}
