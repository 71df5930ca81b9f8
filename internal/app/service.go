// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	repository "github.com/okian/planmatch/internal/adapters/repository"
	"github.com/okian/planmatch/internal/domain/catalog"
	"github.com/okian/planmatch/internal/domain/display"
	"github.com/okian/planmatch/internal/domain/matching"
	model "github.com/okian/planmatch/internal/domain/model"
	"github.com/okian/planmatch/internal/domain/scoring"
	"github.com/okian/planmatch/internal/telemetry"
	"github.com/okian/planmatch/pkg/logger"
	"github.com/okian/planmatch/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	defaultResultStoreSize = 10_000
	defaultMaxBatchSize    = 100
	defaultStatsInterval   = 15 * time.Second
)

// Service matches questionnaire responses against the plan catalog.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog *catalog.Catalog
	matcher *matching.Matcher
	scorer  *scoring.Scorer
	results repository.Store

	// Configuration
	catalogPath      string
	factorWeights    map[string]float64
	resultStoreSize  int
	batchConcurrency int
	maxBatchSize     int
	statsInterval    time.Duration
	now              func() time.Time

	// State
	started bool
	stopCh  chan struct{}
	matches atomic.Int64

	logger logger.Logger
	tracer trace.Tracer
}

// BatchItem is the outcome of one response in a batch, in input order.
type BatchItem struct {
	Index  int
	Result *model.MatchResult
	Err    error
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		resultStoreSize:  defaultResultStoreSize,
		batchConcurrency: runtime.NumCPU(),
		maxBatchSize:     defaultMaxBatchSize,
		statsInterval:    defaultStatsInterval,
		now:              time.Now,
		tracer:           telemetry.Tracer("planmatch/service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the catalog and builds the matching pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting plan matching service...")

	if s.catalog == nil {
		var (
			c   *catalog.Catalog
			err error
		)
		if s.catalogPath != "" {
			c, err = catalog.LoadFile(s.catalogPath)
		} else {
			c, err = catalog.Default()
		}
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		s.catalog = c
	}

	s.matcher = matching.NewMatcher(s.catalog)
	s.scorer = scoring.NewScorer(scoring.WithFactorWeights(s.factorWeights))
	if s.results == nil {
		s.results = repository.NewMemoryStore(repository.WithMaxSize(s.resultStoreSize))
	}
	metrics.UpdateCatalogPlans(s.catalog.Len())

	s.stopCh = make(chan struct{})
	go s.sampleSystemStats(s.stopCh)

	s.started = true
	s.logger.Info(ctx, "plan matching service started",
		logger.Int("plans", s.catalog.Len()),
		logger.Int("resultStoreSize", s.resultStoreSize),
		logger.Int("batchConcurrency", s.batchConcurrency),
		logger.Any("factorWeights", s.scorer.Weights()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping plan matching service...")
	close(s.stopCh)
	s.started = false
	s.logger.Info(context.Background(), "plan matching service stopped")
}

func (s *Service) sampleSystemStats(stop <-chan struct{}) {
	ticker := time.NewTicker(s.statsInterval)
	defer ticker.Stop()
	metrics.UpdateSystemStats()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			metrics.UpdateSystemStats()
		}
	}
}

// components returns the pipeline under the read lock.
func (s *Service) components() (*matching.Matcher, *scoring.Scorer, repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.matcher, s.scorer, s.results, nil
}

// Match filters, scores and ranks the catalog for resp and stores the result.
func (s *Service) Match(ctx context.Context, resp model.QuestionnaireResponse) (model.MatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "service.Match",
		trace.WithAttributes(
			attribute.String("planmatch.coverage_type", string(resp.CoverageType)),
			attribute.Int("planmatch.age", resp.Age),
		),
	)
	defer span.End()

	matcher, scorer, results, err := s.components()
	if err != nil {
		return model.MatchResult{}, err
	}

	start := time.Now()
	decisions, err := matcher.Explain(resp)
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			metrics.RecordValidationError(vErr.Field)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid response")
		return model.MatchResult{}, err
	}

	eligible := make([]model.Plan, 0, len(decisions))
	excluded := make([]model.Exclusion, 0, len(decisions))
	for _, d := range decisions {
		if d.Eligible {
			eligible = append(eligible, d.Plan)
			continue
		}
		metrics.RecordPlanExclusion(d.Reason)
		excluded = append(excluded, model.Exclusion{
			PlanID:   d.PlanID,
			PlanName: d.Plan.DisplayName(),
			Reason:   d.Reason,
			Detail:   d.Detail,
		})
	}

	ranked, err := rank(scorer.ScorePlans(eligible, resp))
	if err != nil {
		span.RecordError(err)
		return model.MatchResult{}, err
	}

	result := model.MatchResult{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Response:  resp,
		Plans:     ranked,
		Excluded:  excluded,
	}

	evicted, err := results.Put(ctx, result)
	if err != nil {
		span.RecordError(err)
		return model.MatchResult{}, fmt.Errorf("store result: %w", err)
	}
	for i := 0; i < evicted; i++ {
		metrics.RecordResultEviction()
	}
	metrics.UpdateResultStoreSize(results.Size())
	metrics.RecordMatch(float64(time.Since(start).Microseconds())/1000, len(ranked))
	metrics.RecordDisplayTransform(len(ranked))
	if len(ranked) > 0 {
		metrics.RecordTopRanked(ranked[0].Plan.ID)
	}
	s.matches.Add(1)

	span.SetAttributes(
		attribute.String("planmatch.result_id", result.ID),
		attribute.Int("planmatch.eligible", len(ranked)),
		attribute.Int("planmatch.excluded", len(excluded)),
	)
	s.logger.Debug(ctx, "matched questionnaire response",
		logger.String("resultID", result.ID),
		logger.Int("eligible", len(ranked)),
		logger.Int("excluded", len(excluded)),
	)
	return result, nil
}

// rank attaches rank, display score and top reason to scored plans, which
// arrive ordered by score descending.
func rank(scored []model.ScoredPlan) ([]model.RankedPlan, error) {
	out := make([]model.RankedPlan, 0, len(scored))
	for i, sp := range scored {
		shown, err := display.Score(i, sp.Score)
		if err != nil {
			return nil, fmt.Errorf("display score for %s: %w", sp.Plan.ID, err)
		}
		rp := model.RankedPlan{Rank: i + 1, DisplayScore: shown, ScoredPlan: sp}
		if top, ok := model.TopReason(sp.Factors); ok {
			rp.TopReason = &top
		}
		out = append(out, rp)
	}
	return out, nil
}

// MatchBatch matches every response with bounded concurrency. Per-response
// failures are reported on the item; the returned error is set only when the
// batch itself is rejected or ctx ends.
func (s *Service) MatchBatch(ctx context.Context, resps []model.QuestionnaireResponse) ([]BatchItem, error) {
	if _, _, _, err := s.components(); err != nil {
		return nil, err
	}
	if len(resps) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(resps) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(resps), s.maxBatchSize)
	}
	metrics.RecordBatch(len(resps))

	items := make([]BatchItem, len(resps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, resp := range resps {
		i, resp := i, resp
		items[i].Index = i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Match(gctx, resp)
			if err != nil {
				items[i].Err = err
				return nil
			}
			items[i].Result = &res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// Result returns a stored match result by ID.
func (s *Service) Result(ctx context.Context, id string) (model.MatchResult, error) {
	_, _, results, err := s.components()
	if err != nil {
		return model.MatchResult{}, err
	}
	r, err := results.Get(ctx, id)
	if err != nil {
		metrics.RecordResultLookup("miss")
		return model.MatchResult{}, err
	}
	metrics.RecordResultLookup("hit")
	return r, nil
}

// Plans returns the catalog in order.
func (s *Service) Plans(ctx context.Context) ([]model.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.catalog.Plans(), nil
}

// Plan returns one catalog plan or catalog.ErrPlanNotFound.
func (s *Service) Plan(ctx context.Context, id string) (model.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.Plan{}, ErrNotStarted
	}
	return s.catalog.Get(id)
}

// DisplayScores converts raw scores to display percentages, highest first.
func (s *Service) DisplayScores(ctx context.Context, raws []float64) ([]int, error) {
	out, err := display.Scores(raws)
	if err != nil {
		return nil, err
	}
	metrics.RecordDisplayTransform(len(out))
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"resultStoreSize":  s.resultStoreSize,
		"batchConcurrency": s.batchConcurrency,
		"maxBatchSize":     s.maxBatchSize,
		"matches":          s.matches.Load(),
	}

	if s.started {
		stored := s.results.Size()
		stats["catalogPlans"] = s.catalog.Len()
		stats["storedResults"] = stored
		stats["factorWeights"] = s.scorer.Weights()

		metrics.UpdateResultStoreSize(stored)
		metrics.UpdateCatalogPlans(s.catalog.Len())
	}

	return stats
}
