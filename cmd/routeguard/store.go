package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/quantara/routeguard/pkg/config"
	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/sentiment"
)

// storeEntry is the analyzed state the CLI keeps on disk per od-pair so
// rescore can re-rank without re-reading candidate files.
type storeEntry struct {
	Set        *route.CandidateSet          `json:"candidate_set"`
	Sentiments map[string]sentiment.Summary `json:"sentiments"`
	SavedAt    time.Time                    `json:"saved_at"`
}

func storePath(origin, destination string) string {
	return filepath.Join(config.StoreDir(), config.ODSlug(origin, destination)+".json")
}

func saveStoreEntry(entry *storeEntry) error {
	entry.SavedAt = time.Now().UTC()
	path := storePath(entry.Set.Origin.Name, entry.Set.Destination.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store entry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write store entry: %w", err)
	}
	return nil
}

// loadStoreEntry returns the saved analysis for an od-pair, or an error
// telling the user to analyze first when none exists or it has expired.
func loadStoreEntry(origin, destination string, ttl time.Duration) (*storeEntry, error) {
	path := storePath(origin, destination)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no analysis found for %s - %s; run 'routeguard analyze' first", origin, destination)
		}
		return nil, fmt.Errorf("read store entry: %w", err)
	}

	var entry storeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parse store entry %s: %w", path, err)
	}
	if ttl > 0 && time.Since(entry.SavedAt) > ttl {
		return nil, fmt.Errorf("analysis for %s - %s expired; run 'routeguard analyze' again", origin, destination)
	}
	return &entry, nil
}
