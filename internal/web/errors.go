package web

// errors.go keeps a single error-response path: the technical error is
// logged with the request ID for correlation, the client receives the
// mapped user-friendly message with a support code.

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/x1mrdonut1x/trade-link-sub000/internal/importer"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/logging"
)

// ErrorResponse is the JSON shape of every error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Action string `json:"action,omitempty"`
	Code   string `json:"code,omitempty"`
}

// respondError logs the technical error and writes the sanitized
// user-facing message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := importer.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
		"error", err,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:  msg.Message,
		Action: msg.Action,
		Code:   msg.Code,
	})
}

// writeErrorMessage writes a literal error message without mapping.
// Used where there is no underlying error value, e.g. missing params.
func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON encodes v and writes it with a 200 status.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; nothing to do but log.
		slog.Error("json encode failed", "error", err)
	}
}
