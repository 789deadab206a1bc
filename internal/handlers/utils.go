package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rgudla/research-assistant/internal/adapter"
	"github.com/rgudla/research-assistant/internal/api"
)

func writeJsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed encoding response", "error", err)
	}
}

// WriteErrorResponse maps a pipeline error onto its wire shape.
func WriteErrorResponse(w http.ResponseWriter, err error) {
	status, body := adapter.ToErrorResponse(err)
	writeJsonResponse(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJsonResponse(w, http.StatusBadRequest, api.ErrorResponse{
		Error: message,
		Code:  http.StatusBadRequest,
		Stage: "validation",
	})
}

// validateContext rejects work whose client already went away.
func validateContext(ctx context.Context, w http.ResponseWriter) bool {
	if ctx.Err() != nil {
		writeJsonResponse(w, http.StatusRequestTimeout, api.ErrorResponse{
			Error: "request cancelled",
			Code:  http.StatusRequestTimeout,
		})
		return false
	}
	return true
}

// parseFormInt reads an optional integer form field; 0 means "use the
// default" downstream.
func parseFormInt(r *http.Request, field string) (int, bool) {
	raw := r.FormValue(field)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseOptionalFormInt keeps field absence observable: nil when the
// field was not sent, a pointer otherwise. Needed where an explicit 0 is
// a meaningful value.
func parseOptionalFormInt(r *http.Request, field string) (*int, bool) {
	raw := r.FormValue(field)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}
