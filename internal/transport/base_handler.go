package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/izzatfaris/permohonan-intake/internal"
	"github.com/izzatfaris/permohonan-intake/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.L()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in the API's `{error}` shape
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	h.WriteJSON(w, status, map[string]interface{}{"error": message})
}

// WriteErrorDetails writes an error response carrying the underlying cause,
// used for store failures surfaced as 500s
func (h *BaseHandler) WriteErrorDetails(w http.ResponseWriter, status int, message, details string) {
	h.Logger.Error("http error", "status", status, "message", message, "details", details)
	h.WriteJSON(w, status, map[string]interface{}{
		"error":   message,
		"details": details,
	})
}

// HandleServiceError translates service-layer errors into HTTP responses
// following the bad-input/not-found/store-failure taxonomy.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		if appErr.StatusCode == http.StatusInternalServerError {
			details := ""
			if appErr.Cause != nil {
				details = appErr.Cause.Error()
			}
			h.WriteErrorDetails(w, appErr.StatusCode, appErr.Message, details)
			return
		}
		h.WriteError(w, appErr.StatusCode, appErr.Message)
		return
	}

	h.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
