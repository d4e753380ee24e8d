// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
)

// activityRequest carries the upstream motion-activity signal.
type activityRequest struct {
	IsSwimming bool `json:"is_swimming"`
}

// ActivityHandler passes the is-swimming signal through to the session.
type ActivityHandler struct {
	deps Dependencies
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(deps Dependencies) *ActivityHandler {
	return &ActivityHandler{deps: deps}
}

// HandlePostActivity handles POST /activity.
func (h *ActivityHandler) HandlePostActivity(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_activity"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.deps.SetSwimming(r.Context(), req.IsSwimming)
	w.WriteHeader(http.StatusNoContent)
}
