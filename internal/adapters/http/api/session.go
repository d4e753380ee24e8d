// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// SessionHandler handles session lifecycle commands.
type SessionHandler struct {
	deps Dependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps Dependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleStart handles POST /session/start.
func (h *SessionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.StartSession(r.Context()))
}

// HandleEnd handles POST /session/end. Ending an inactive session is a
// no-op returning the last known snapshot.
func (h *SessionHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.EndSession(r.Context()))
}

// HandleReset handles POST /session/reset.
func (h *SessionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.ResetSession(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
