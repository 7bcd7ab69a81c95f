package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/surface"
)

func newRescoreCmd() *cobra.Command {
	var (
		origin      string
		destination string
		weightFlags rawWeightFlags
		outputFmt   string
	)

	cmd := &cobra.Command{
		Use:   "rescore",
		Short: "Re-rank an analyzed od-pair under new priorities",
		Long: `Re-runs scoring for an origin-destination pair analyzed earlier,
using the locally saved candidate set and sentiment. No route or news
providers are contacted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			weightFlags.markSet(cmd.Flags())
			return runRescore(rescoreOpts{
				origin:      origin,
				destination: destination,
				weights:     weightFlags,
				outputFmt:   outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&origin, "from", "", "Trip origin (required)")
	cmd.Flags().StringVar(&destination, "to", "", "Trip destination (required)")
	addWeightFlags(cmd, &weightFlags)
	cmd.Flags().StringVar(&outputFmt, "output", "terminal", "Output format: terminal, json, or markdown")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

type rescoreOpts struct {
	origin      string
	destination string
	weights     rawWeightFlags
	outputFmt   string
}

func runRescore(opts rescoreOpts) error {
	cfg := loadCLIConfig()

	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	entry, err := loadStoreEntry(opts.origin, opts.destination, ttl)
	if err != nil {
		return err
	}

	weights, err := opts.weights.resolve(cfg)
	if err != nil {
		return err
	}

	engine := scoring.NewEngine()
	result, err := engine.Score(entry.Set.Candidates, entry.Sentiments, weights)
	if err != nil {
		return fmt.Errorf("rescoring: %w", err)
	}

	renderer, err := surface.ForFormat(opts.outputFmt)
	if err != nil {
		return err
	}
	return renderer.Render(os.Stdout, result)
}
