package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
	"github.com/quantara/routeguard/pkg/surface"
)

func newCompareCmd() *cobra.Command {
	var (
		previousPath   string
		candidatesPath string
		traveledPath   string
		sentimentPath  string
		weightFlags    rawWeightFlags
		outputFmt      string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare reroute alternatives against the previously chosen route",
		Long: `Scores the alternatives for the remaining leg of a disrupted trip,
removes the failed route from the candidates, and reports sentiment
movement, risk changes, and per-factor tradeoffs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			weightFlags.markSet(cmd.Flags())
			return runCompare(compareOpts{
				previousPath:   previousPath,
				candidatesPath: candidatesPath,
				traveledPath:   traveledPath,
				sentimentPath:  sentimentPath,
				weights:        weightFlags,
				outputFmt:      outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&previousPath, "previous", "", "Path to previous route JSON (required)")
	cmd.Flags().StringVar(&candidatesPath, "alternatives", "", "Path to alternative candidate set JSON (required)")
	cmd.Flags().StringVar(&traveledPath, "traveled", "", "Path to already-traveled metrics JSON")
	cmd.Flags().StringVar(&sentimentPath, "sentiment", "", "Path to classified news JSON keyed by corridor")
	addWeightFlags(cmd, &weightFlags)
	cmd.Flags().StringVar(&outputFmt, "output", "terminal", "Output format: terminal, json, or markdown")
	_ = cmd.MarkFlagRequired("previous")
	_ = cmd.MarkFlagRequired("alternatives")

	return cmd
}

type compareOpts struct {
	previousPath   string
	candidatesPath string
	traveledPath   string
	sentimentPath  string
	weights        rawWeightFlags
	outputFmt      string
}

func runCompare(opts compareOpts) error {
	cfg := loadCLIConfig()

	prev, err := loadPreviousRoute(opts.previousPath)
	if err != nil {
		return err
	}

	set, err := route.LoadCandidateSet(opts.candidatesPath)
	if err != nil {
		return fmt.Errorf("loading alternatives: %w", err)
	}
	if len(set.Candidates) == 0 {
		return fmt.Errorf("alternative set %s has no routes", opts.candidatesPath)
	}

	var traveled route.Metrics
	if opts.traveledPath != "" {
		data, err := os.ReadFile(opts.traveledPath)
		if err != nil {
			return fmt.Errorf("loading traveled metrics: %w", err)
		}
		if err := json.Unmarshal(data, &traveled); err != nil {
			return fmt.Errorf("parsing traveled metrics %s: %w", opts.traveledPath, err)
		}
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
		return fmt.Errorf("scoring alternatives: %w", err)
	}

	report, err := compare.Compare(*prev, traveled, buildAlternatives(set, sentiments, result), cfg.CompareOptions())
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}
	return renderer.RenderReport(os.Stdout, report)
}

func loadPreviousRoute(path string) (*compare.PreviousRoute, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading previous route: %w", err)
	}
	var prev compare.PreviousRoute
	if err := json.Unmarshal(data, &prev); err != nil {
		return nil, fmt.Errorf("parsing previous route %s: %w", path, err)
	}
	return &prev, nil
}

// buildAlternatives pairs ranked scores with their candidates and corridor
// sentiment, preserving rank order.
func buildAlternatives(set *route.CandidateSet, sentiments map[string]sentiment.Summary, result *scoring.Result) []compare.Alternative {
	byID := make(map[string]*route.Candidate, len(set.Candidates))
	for i := range set.Candidates {
		byID[set.Candidates[i].ID] = &set.Candidates[i]
	}

	var alts []compare.Alternative
	for _, rs := range result.Scores {
		c, ok := byID[rs.RouteID]
		if !ok {
			continue
		}
		summary, ok := sentiments[c.CorridorKey()]
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
