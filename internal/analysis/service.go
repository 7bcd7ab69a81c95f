package analysis

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/quantara/routeguard/internal/cache"
	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/config"
	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// ErrCacheMiss is returned by Rescore when no analysis exists for the
// requested od-pair. The caller must run a full analysis first.
var ErrCacheMiss = errors.New("no cached analysis for od-pair")

// AnalyzeRequest describes one analysis run.
type AnalyzeRequest struct {
	Origin      string
	Destination string
	// Weights are the user's raw priority percentages. Nil means use the
	// configured defaults.
	Weights *scoring.RawWeights
	// Refresh forces a provider fetch even when a cached candidate set
	// exists for the od-pair.
	Refresh bool
}

// Analysis is the complete output of one analyze or rescore run.
type Analysis struct {
	ID          string                       `json:"id"`
	Origin      string                       `json:"source"`
	Destination string                       `json:"destination"`
	Set         *route.CandidateSet          `json:"candidate_set"`
	Sentiments  map[string]sentiment.Summary `json:"sentiments"`
	Weights     scoring.PriorityWeights      `json:"priorities_used"`
	Result      *scoring.Result              `json:"result"`
	FromCache   bool                         `json:"from_cache"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// Service orchestrates the analysis pipeline.
type Service struct {
	db          *sql.DB
	storage     StorageClient
	source      RouteSource
	classifier  NewsClassifier
	engine      *scoring.Engine
	evaluator   *sentiment.Evaluator
	routes      *cache.RouteCache
	defaults    scoring.RawWeights
	compareOpts compare.Options
}

// NewService creates an analysis Service. db and storage may be nil, in
// which case results are not persisted. classifier may be nil, in which
// case every corridor degrades to neutral sentiment.
func NewService(db *sql.DB, storage StorageClient, source RouteSource, classifier NewsClassifier, routes *cache.RouteCache, cfg *config.Config) *Service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Service{
		db:          db,
		storage:     storage,
		source:      source,
		classifier:  classifier,
		engine:      scoring.NewEngine(),
		evaluator:   sentiment.NewEvaluator(cfg.Sentiment.MaxFactors),
		routes:      routes,
		defaults:    cfg.Scoring.DefaultWeights,
		compareOpts: cfg.CompareOptions(),
	}
}

// Analyze runs the full pipeline for an od-pair: fetch candidates,
// aggregate corridor sentiment, score, and cache. A cached candidate set
// is reused unless req.Refresh is set; the scoring pass always runs with
// the requested weights.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*Analysis, error) {
	if req.Origin == "" || req.Destination == "" {
		return nil, fmt.Errorf("origin and destination are required")
	}

	weights, err := s.resolveWeights(req.Weights)
	if err != nil {
		return nil, err
	}

	key := config.ODSlug(req.Origin, req.Destination)

	var (
		set        *route.CandidateSet
		sentiments map[string]sentiment.Summary
		fromCache  bool
	)
	if !req.Refresh && s.routes != nil {
		if entry := s.routes.Get(key); entry != nil {
			set = entry.Set
			sentiments = entry.Sentiments
			fromCache = true
		}
	}

	if set == nil {
		if s.source == nil {
			return nil, fmt.Errorf("no route source configured")
		}
		set, err = s.source.FetchCandidates(ctx, req.Origin, req.Destination)
		if err != nil {
			return nil, fmt.Errorf("fetch candidates %s -> %s: %w", req.Origin, req.Destination, err)
		}
		sentiments = s.classifyCorridors(ctx, set.Candidates)
	}

	result, err := s.engine.Score(set.Candidates, sentiments, weights)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}

	a := &Analysis{
		ID:          uuid.New().String(),
		Origin:      set.Origin.Name,
		Destination: set.Destination.Name,
		Set:         set,
		Sentiments:  sentiments,
		Weights:     weights,
		Result:      result,
		FromCache:   fromCache,
		GeneratedAt: time.Now().UTC(),
	}

	if s.routes != nil {
		s.routes.Put(key, &cache.Entry{
			Set:        set,
			Sentiments: sentiments,
			Weights:    weights,
			Result:     result,
		})
	}

	if err := s.persistAnalysis(ctx, key, a); err != nil {
		log.Printf("persist analysis %s: %v", a.ID, err)
	}

	return a, nil
}

// Rescore re-runs the scoring pass for an already analyzed od-pair with
// new weights. The cached candidate set and sentiment are reused without
// touching external providers. Returns ErrCacheMiss when the od-pair has
// not been analyzed or the entry expired.
func (s *Service) Rescore(ctx context.Context, origin, destination string, raw *scoring.RawWeights) (*Analysis, error) {
	if s.routes == nil {
		return nil, ErrCacheMiss
	}

	weights, err := s.resolveWeights(raw)
	if err != nil {
		return nil, err
	}

	key := config.ODSlug(origin, destination)
	entry := s.routes.Get(key)
	if entry == nil {
		return nil, fmt.Errorf("%s -> %s: %w", origin, destination, ErrCacheMiss)
	}

	result, err := s.engine.Score(entry.Set.Candidates, entry.Sentiments, weights)
	if err != nil {
		return nil, fmt.Errorf("rescore candidates: %w", err)
	}

	a := &Analysis{
		ID:          uuid.New().String(),
		Origin:      entry.Set.Origin.Name,
		Destination: entry.Set.Destination.Name,
		Set:         entry.Set,
		Sentiments:  entry.Sentiments,
		Weights:     weights,
		Result:      result,
		FromCache:   true,
		GeneratedAt: time.Now().UTC(),
	}

	s.routes.Put(key, &cache.Entry{
		Set:        entry.Set,
		Sentiments: entry.Sentiments,
		Weights:    weights,
		Result:     result,
	})

	if err := s.persistAnalysis(ctx, key, a); err != nil {
		log.Printf("persist rescore %s: %v", a.ID, err)
	}

	return a, nil
}

// CompareReroute analyzes the remaining leg of a disrupted trip and diffs
// the result against the previously chosen route. The returned analysis
// covers the remaining leg from the current position.
func (s *Service) CompareReroute(ctx context.Context, prev compare.PreviousRoute, traveled route.Metrics, req AnalyzeRequest) (*compare.Report, *Analysis, error) {
	a, err := s.Analyze(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("analyze remaining leg: %w", err)
	}

	alternatives := s.alternativesFrom(a)
	report, err := compare.Compare(prev, traveled, alternatives, s.compareOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("compare reroute: %w", err)
	}

	if s.storage != nil {
		data, err := json.Marshal(report)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal report: %w", err)
		}
		key := config.ODSlug(prev.Source, prev.Destination)
		if err := s.storage.PutReport(ctx, key, report.ID, data); err != nil {
			log.Printf("put report blob %s: %v", report.ID, err)
		}
	}

	return report, a, nil
}

// alternativesFrom pairs each ranked score with its candidate and
// corridor sentiment, preserving rank order.
func (s *Service) alternativesFrom(a *Analysis) []compare.Alternative {
	byID := make(map[string]*route.Candidate, len(a.Set.Candidates))
	for i := range a.Set.Candidates {
		byID[a.Set.Candidates[i].ID] = &a.Set.Candidates[i]
	}

	var alts []compare.Alternative
	for _, rs := range a.Result.Scores {
		c, ok := byID[rs.RouteID]
		if !ok {
			continue
		}
		summary, ok := a.Sentiments[c.CorridorKey()]
		if !ok {
			summary = sentiment.Neutral("")
		}
		alts = append(alts, compare.Alternative{
			Candidate: *c,
			Score:     rs,
			Sentiment: summary,
		})
	}
	return alts
}

// classifyCorridors aggregates sentiment once per distinct corridor.
// Classifier failures degrade that corridor to neutral instead of
// failing the analysis.
func (s *Service) classifyCorridors(ctx context.Context, candidates []route.Candidate) map[string]sentiment.Summary {
	sentiments := make(map[string]sentiment.Summary)
	for i := range candidates {
		c := &candidates[i]
		key := c.CorridorKey()
		if _, done := sentiments[key]; done {
			continue
		}
		if s.classifier == nil {
			sentiments[key] = sentiment.Neutral("")
			continue
		}
		items, err := s.classifier.Classify(ctx, c.Corridor)
		if err != nil {
			log.Printf("classify corridor %q degraded to neutral: %v", key, err)
			sentiments[key] = sentiment.Neutral("news analysis unavailable")
			continue
		}
		sentiments[key] = s.evaluator.Aggregate(c.Corridor, items)
	}
	return sentiments
}

func (s *Service) resolveWeights(raw *scoring.RawWeights) (scoring.PriorityWeights, error) {
	if raw == nil {
		defaults := s.defaults
		raw = &defaults
	}
	weights, err := scoring.Redistribute(*raw)
	if err != nil {
		return scoring.PriorityWeights{}, fmt.Errorf("resolve weights: %w", err)
	}
	return weights, nil
}

// persistAnalysis writes the analysis row and candidate set blob. A nil
// db or storage disables the respective write, which keeps the CLI path
// usable without Postgres.
func (s *Service) persistAnalysis(ctx context.Context, key string, a *Analysis) error {
	if s.storage != nil {
		data, err := json.Marshal(a.Set)
		if err != nil {
			return fmt.Errorf("marshal candidate set: %w", err)
		}
		if err := s.storage.PutCandidateSet(ctx, key, a.Set.ID, data); err != nil {
			return fmt.Errorf("put candidate set blob: %w", err)
		}
	}

	if s.db == nil {
		return nil
	}

	resultJSON, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	weightsJSON, err := json.Marshal(a.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	sentimentsJSON, err := json.Marshal(a.Sentiments)
	if err != nil {
		return fmt.Errorf("marshal sentiments: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, od_slug, source, destination, candidate_set_id, best_route_id, priorities, sentiments, result, from_cache, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, key, a.Origin, a.Destination, a.Set.ID, a.Result.BestRouteID,
		weightsJSON, sentimentsJSON, resultJSON, a.FromCache, a.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis row: %w", err)
	}
	return nil
}
