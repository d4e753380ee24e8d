// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// SnapshotHandler serves the session snapshot consumed by the display
// client and the other readers.
type SnapshotHandler struct {
	deps Dependencies
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(deps Dependencies) *SnapshotHandler {
	return &SnapshotHandler{deps: deps}
}

// HandleGetSnapshot handles GET /snapshot.
func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Snapshot(r.Context()))
}
