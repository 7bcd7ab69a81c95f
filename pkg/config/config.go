// Package config handles loading and managing Routeguard configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantara/routeguard/pkg/compare"
	"github.com/quantara/routeguard/pkg/scoring"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// Config is the top-level configuration for Routeguard.
type Config struct {
	Scoring   ScoringConfig   `yaml:"scoring"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Compare   CompareConfig   `yaml:"compare"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ScoringConfig controls default priority weights.
type ScoringConfig struct {
	DefaultWeights scoring.RawWeights `yaml:"default_weights"`
}

// SentimentConfig controls sentiment aggregation.
type SentimentConfig struct {
	MaxFactors int `yaml:"max_factors"`
}

// CompareConfig controls the reroute comparator thresholds.
type CompareConfig struct {
	SimilarityTolerance float64 `yaml:"similarity_tolerance"`
	SentimentThreshold  float64 `yaml:"sentiment_threshold"`
}

// CacheConfig bounds the in-process route cache.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
	TTLMinutes int `yaml:"ttl_minutes"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			DefaultWeights: scoring.DefaultRawWeights(),
		},
		Sentiment: SentimentConfig{
			MaxFactors: sentiment.DefaultMaxFactors,
		},
		Compare: CompareConfig{
			SimilarityTolerance: compare.DefaultSimilarityTolerance,
			SentimentThreshold:  compare.DefaultSentimentThreshold,
		},
		Cache: CacheConfig{
			MaxEntries: 50,
			TTLMinutes: 60,
		},
	}
}

// CompareOptions converts the config section into comparator options.
func (c *Config) CompareOptions() compare.Options {
	return compare.Options{
		SimilarityTolerance: c.Compare.SimilarityTolerance,
		SentimentThreshold:  c.Compare.SentimentThreshold,
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .routeguard/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".routeguard", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// StoreDir returns the local store directory for cached candidate sets.
// Uses ~/.cache/routeguard/ to keep run artifacts out of the working tree,
// unless ROUTEGUARD_STORE_DIR overrides it.
func StoreDir() string {
	if dir := os.Getenv("ROUTEGUARD_STORE_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "routeguard")
}

// ODSlug creates a filesystem-safe identifier for an od-pair. The pair is
// unordered: A->B and B->A share one slug.
func ODSlug(origin, destination string) string {
	a := slugify(origin)
	b := slugify(destination)
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

func slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	return sb.String()
}
