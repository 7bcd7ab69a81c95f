// Package main provides the routeguard CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantara/routeguard/pkg/config"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "routeguard",
		Short: "Resilience scoring for delivery routes",
		Long: `Routeguard scores delivery route candidates on time, distance, carbon,
road quality, and corridor sentiment, and compares reroute alternatives
against the route a trip originally chose.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newRescoreCmd(),
		newCompareCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadCLIConfig loads the nearest .routeguard/config.yaml, falling back to
// defaults when none exists.
func loadCLIConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig()
	}
	path := config.FindConfigFile(cwd)
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
