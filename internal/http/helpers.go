package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	applog "budgetwise/internal/log"
)

// maxBodyBytes caps JSON request bodies. The largest legitimate payload
// here is a transaction, so 1MB is generous.
const maxBodyBytes = 1 << 20

// errorBody is the JSON error envelope. Detail is filled only when the
// server runs with IncludeErrorDetail (non-production).
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", applog.FieldError, err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	body := errorBody{Message: message}
	if err != nil {
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, status,
			applog.FieldError, err)
		if s.includeErrorDetail {
			body.Error = err.Error()
		}
	}
	s.respondJSON(w, status, body)
}

// decodeJSON parses the request body into dst with a size cap.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}
