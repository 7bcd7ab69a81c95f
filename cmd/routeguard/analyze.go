package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quantara/routeguard/pkg/config"
	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
	"github.com/quantara/routeguard/pkg/surface"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		candidatesPath string
		sentimentPath  string
		weightFlags    rawWeightFlags
		outputFmt      string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score route candidates and rank them by resilience",
		Long: `Loads a candidate set from a JSON file, aggregates corridor sentiment,
computes resilience scores under the given priorities, and saves the
analysis locally so rescore can re-rank it later.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			weightFlags.markSet(cmd.Flags())
			return runAnalyze(analyzeOpts{
				candidatesPath: candidatesPath,
				sentimentPath:  sentimentPath,
				weights:        weightFlags,
				outputFmt:      outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&candidatesPath, "candidates", "", "Path to candidate set JSON (required)")
	cmd.Flags().StringVar(&sentimentPath, "sentiment", "", "Path to classified news JSON keyed by corridor")
	addWeightFlags(cmd, &weightFlags)
	cmd.Flags().StringVar(&outputFmt, "output", "terminal", "Output format: terminal, json, or markdown")
	_ = cmd.MarkFlagRequired("candidates")

	return cmd
}

type analyzeOpts struct {
	candidatesPath string
	sentimentPath  string
	weights        rawWeightFlags
	outputFmt      string
}

func runAnalyze(opts analyzeOpts) error {
	cfg := loadCLIConfig()

	set, err := route.LoadCandidateSet(opts.candidatesPath)
	if err != nil {
		return fmt.Errorf("loading candidates: %w", err)
	}
	if len(set.Candidates) == 0 {
		return fmt.Errorf("candidate set %s has no routes", opts.candidatesPath)
	}

	weights, err := opts.weights.resolve(cfg)
	if err != nil {
		return err
	}

	sentiments, err := loadSentiments(opts.sentimentPath, cfg.Sentiment.MaxFactors, set)
	if err != nil {
		return err
	}

	engine := scoring.NewEngine()
	result, err := engine.Score(set.Candidates, sentiments, weights)
	if err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	if err := saveStoreEntry(&storeEntry{Set: set, Sentiments: sentiments}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save analysis: %v\n", err)
	}

	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}
	return renderer.Render(os.Stdout, result)
}

// loadSentiments reads pre-classified news items keyed by corridor key and
// aggregates them. Corridors with no file entry get neutral sentiment.
func loadSentiments(path string, maxFactors int, set *route.CandidateSet) (map[string]sentiment.Summary, error) {
	var itemsByCorridor map[string][]sentiment.ClassifiedItem
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading sentiment: %w", err)
		}
		if err := json.Unmarshal(data, &itemsByCorridor); err != nil {
			return nil, fmt.Errorf("parsing sentiment %s: %w", path, err)
		}
	}

	evaluator := sentiment.NewEvaluator(maxFactors)
	sentiments := make(map[string]sentiment.Summary)
	for i := range set.Candidates {
		c := &set.Candidates[i]
		key := c.CorridorKey()
		if _, done := sentiments[key]; done {
			continue
		}
		items, ok := itemsByCorridor[key]
		if !ok {
			sentiments[key] = sentiment.Neutral("")
			continue
		}
		sentiments[key] = evaluator.Aggregate(c.Corridor, items)
	}
	return sentiments, nil
}

// rawWeightFlags carries the user's priority percentages from flags,
// tracking which flags were actually passed so negative and zero values
// reach validation instead of being mistaken for unset flags.
type rawWeightFlags struct {
	time     float64
	distance float64
	safety   float64
	carbon   float64

	timeSet     bool
	distanceSet bool
	safetySet   bool
	carbonSet   bool
}

func addWeightFlags(cmd *cobra.Command, w *rawWeightFlags) {
	cmd.Flags().Float64Var(&w.time, "time", 0, "Priority weight for travel time (default from config)")
	cmd.Flags().Float64Var(&w.distance, "distance", 0, "Priority weight for distance (default from config)")
	cmd.Flags().Float64Var(&w.safety, "safety", 0, "Priority weight for road safety (default from config)")
	cmd.Flags().Float64Var(&w.carbon, "carbon", 0, "Priority weight for carbon emission (default from config)")
}

// markSet records which weight flags the user passed on the command line.
func (w *rawWeightFlags) markSet(f *pflag.FlagSet) {
	w.timeSet = f.Changed("time")
	w.distanceSet = f.Changed("distance")
	w.safetySet = f.Changed("safety")
	w.carbonSet = f.Changed("carbon")
}

// resolve folds unset flags back onto configured defaults and validates.
func (w rawWeightFlags) resolve(cfg *config.Config) (scoring.PriorityWeights, error) {
	raw := cfg.Scoring.DefaultWeights
	if w.timeSet {
		raw.Time = w.time
	}
	if w.distanceSet {
		raw.Distance = w.distance
	}
	if w.safetySet {
		raw.Safety = w.safety
	}
	if w.carbonSet {
		raw.CarbonEmission = w.carbon
	}

	weights, err := scoring.Redistribute(raw)
	if err != nil {
		return scoring.PriorityWeights{}, fmt.Errorf("invalid priorities: %w", err)
	}
	return weights, nil
}
