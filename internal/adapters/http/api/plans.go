package api

import (
	"context"
	"net/http"

	model "github.com/okian/planmatch/internal/domain/model"
)

// PlansDependencies defines the interface for catalog reads.
type PlansDependencies interface {
	Plans(ctx context.Context) ([]model.Plan, error)
	Plan(ctx context.Context, id string) (model.Plan, error)
}

// PlansHandler handles catalog requests.
type PlansHandler struct {
	deps PlansDependencies
}

// NewPlansHandler creates a new plans handler.
func NewPlansHandler(deps PlansDependencies) *PlansHandler {
	return &PlansHandler{deps: deps}
}

// HandleListPlans handles GET /plans requests.
func (h *PlansHandler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_plans"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	plans, err := h.deps.Plans(r.Context())
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// HandleGetPlan handles GET /plans/{id} requests.
func (h *PlansHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_plan"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, ok := pathID(r.URL.Path, "/plans/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	plan, err := h.deps.Plan(r.Context(), id)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
