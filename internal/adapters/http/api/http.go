// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	repository "github.com/okian/planmatch/internal/adapters/repository"
	service "github.com/okian/planmatch/internal/app"
	"github.com/okian/planmatch/internal/domain/catalog"
	"github.com/okian/planmatch/internal/domain/display"
	model "github.com/okian/planmatch/internal/domain/model"
)

const defaultMaxBatchSize = 100

// Request body ceilings. A batch may carry maxBatch forms.
const (
	maxFormBytes    = 64 << 10
	maxDisplayBytes = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Match(ctx context.Context, resp model.QuestionnaireResponse) (model.MatchResult, error)
	MatchBatch(ctx context.Context, resps []model.QuestionnaireResponse) ([]service.BatchItem, error)
	Result(ctx context.Context, id string) (model.MatchResult, error)

	// Read operations expose the plan catalog.
	Plans(ctx context.Context) ([]model.Plan, error)
	Plan(ctx context.Context, id string) (model.Plan, error)

	DisplayScores(ctx context.Context, raws []float64) ([]int, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	matchHandler   *MatchHandler
	resultsHandler *ResultsHandler
	plansHandler   *PlansHandler
	displayHandler *DisplayHandler
}

// NewServer creates a new API server with all handlers. maxBatch bounds the
// number of forms accepted by POST /match/batch; values below one use the default.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBatch int) *Server {
	if maxBatch < 1 {
		maxBatch = defaultMaxBatchSize
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		matchHandler:   NewMatchHandler(deps, maxBatch),
		resultsHandler: NewResultsHandler(deps),
		plansHandler:   NewPlansHandler(deps),
		displayHandler: NewDisplayHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/match/batch", MetricsMiddleware(s.matchHandler.HandleMatchBatch, "match_batch"))
	mux.HandleFunc("/match", MetricsMiddleware(s.matchHandler.HandleMatch, "match"))
	mux.HandleFunc("/results/", MetricsMiddleware(s.resultsHandler.HandleGetResult, "results"))
	mux.HandleFunc("/plans/", MetricsMiddleware(s.plansHandler.HandleGetPlan, "plan"))
	mux.HandleFunc("/plans", MetricsMiddleware(s.plansHandler.HandleListPlans, "plans"))
	mux.HandleFunc("/display-scores", MetricsMiddleware(s.displayHandler.HandleDisplayScores, "display_scores"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	resp := errorResponse{Code: code, Message: msg}
	if field, ok := validationField(err); ok {
		resp.Field = field
	}
	writeJSON(w, status, resp)
}

// decodeJSON decodes at most limit bytes of the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit)).Decode(v)
	if err == nil {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: %w", ErrBadRequest, err)
}

// validationField names the answer field behind a validation failure.
func validationField(err error) (string, bool) {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Field, true
	}
	return "", false
}

// writeServiceError maps domain and service failures onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidResponse):
		writeError(w, http.StatusBadRequest, "invalid_response", err)
	case errors.Is(err, service.ErrBatchTooLarge), errors.Is(err, ErrBatchTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "batch_too_large", err)
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
	case errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, display.ErrNonFiniteScore),
		errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound) ||
		errors.Is(err, catalog.ErrPlanNotFound) ||
		errors.Is(err, ErrNotFound)
}

// pathID extracts the single path segment following prefix.
func pathID(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || id == path || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
