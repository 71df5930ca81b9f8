package api

import (
	"context"
	"fmt"
	"net/http"

	service "github.com/okian/planmatch/internal/app"
	model "github.com/okian/planmatch/internal/domain/model"
	"github.com/okian/planmatch/internal/domain/questionnaire"
	"github.com/okian/planmatch/pkg/metrics"
)

// MatchDependencies defines the interface for matching operations.
type MatchDependencies interface {
	Match(ctx context.Context, resp model.QuestionnaireResponse) (model.MatchResult, error)
	MatchBatch(ctx context.Context, resps []model.QuestionnaireResponse) ([]service.BatchItem, error)
}

// MatchHandler handles questionnaire submissions.
type MatchHandler struct {
	deps     MatchDependencies
	maxBatch int
}

// NewMatchHandler creates a new match handler.
func NewMatchHandler(deps MatchDependencies, maxBatch int) *MatchHandler {
	return &MatchHandler{deps: deps, maxBatch: maxBatch}
}

// HandleMatch handles POST /match requests.
func (h *MatchHandler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var form questionnaire.Form
	if err := decodeJSON(w, r, maxFormBytes, &form); err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	resp, err := parseForm(form)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	result, err := h.deps.Match(r.Context(), resp)
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// batchItem is one entry of the POST /match/batch response, in request order.
type batchItem struct {
	Index  int                `json:"index"`
	Result *model.MatchResult `json:"result,omitempty"`
	Error  *errorResponse     `json:"error,omitempty"`
}

type batchResponse struct {
	Items []batchItem `json:"items"`
}

// HandleMatchBatch handles POST /match/batch requests. Forms that fail
// validation are reported per item and do not fail the batch.
func (h *MatchHandler) HandleMatchBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_match_batch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var forms []questionnaire.Form
	if err := decodeJSON(w, r, int64(h.maxBatch)*maxFormBytes, &forms); err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	if len(forms) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, service.ErrEmptyBatch))
		return
	}
	if len(forms) > h.maxBatch {
		writeServiceError(w, WrapKind(op, ErrBatchTooLarge, fmt.Errorf("%d > %d", len(forms), h.maxBatch)))
		return
	}

	items := make([]batchItem, len(forms))
	valid := make([]model.QuestionnaireResponse, 0, len(forms))
	positions := make([]int, 0, len(forms))
	for i, f := range forms {
		items[i].Index = i
		resp, err := parseForm(f)
		if err != nil {
			items[i].Error = itemError(err)
			continue
		}
		valid = append(valid, resp)
		positions = append(positions, i)
	}

	if len(valid) > 0 {
		results, err := h.deps.MatchBatch(r.Context(), valid)
		if err != nil {
			writeServiceError(w, Wrap(op, err))
			return
		}
		for _, res := range results {
			pos := positions[res.Index]
			if res.Err != nil {
				items[pos].Error = itemError(res.Err)
				continue
			}
			items[pos].Result = res.Result
		}
	}
	writeJSON(w, http.StatusOK, batchResponse{Items: items})
}

func parseForm(f questionnaire.Form) (model.QuestionnaireResponse, error) {
	resp, err := questionnaire.Parse(f)
	if err != nil {
		if field, ok := validationField(err); ok {
			metrics.RecordValidationError(field)
		}
		return model.QuestionnaireResponse{}, err
	}
	return resp, nil
}

func itemError(err error) *errorResponse {
	out := &errorResponse{Code: "internal_error", Message: err.Error()}
	if field, ok := validationField(err); ok {
		out.Code = "invalid_response"
		out.Field = field
	}
	return out
}
