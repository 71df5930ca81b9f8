package api

import (
	"context"
	"net/http"
)

// DisplayDependencies defines the interface for the display transform.
type DisplayDependencies interface {
	DisplayScores(ctx context.Context, raws []float64) ([]int, error)
}

// DisplayHandler converts raw scores into member-facing percentages.
type DisplayHandler struct {
	deps DisplayDependencies
}

// NewDisplayHandler creates a new display handler.
func NewDisplayHandler(deps DisplayDependencies) *DisplayHandler {
	return &DisplayHandler{deps: deps}
}

type displayRequest struct {
	Scores []float64 `json:"scores"`
}

type displayResponse struct {
	Display []int `json:"display"`
}

// HandleDisplayScores handles POST /display-scores requests.
func (h *DisplayHandler) HandleDisplayScores(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_display_scores"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req displayRequest
	if err := decodeJSON(w, r, maxDisplayBytes, &req); err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	out, err := h.deps.DisplayScores(r.Context(), req.Scores)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	if out == nil {
		out = []int{}
	}
	writeJSON(w, http.StatusOK, displayResponse{Display: out})
}
