package route

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveCandidateSet writes a candidate set to disk as JSON.
func SaveCandidateSet(path string, set *CandidateSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for candidate set: %w", err)
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling candidate set: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing candidate set: %w", err)
	}

	return nil
}

// LoadCandidateSet reads a candidate set from disk.
func LoadCandidateSet(path string) (*CandidateSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidate set: %w", err)
	}

	var set CandidateSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("unmarshaling candidate set: %w", err)
	}

	return &set, nil
}
