// Package analysis orchestrates the Routeguard pipeline: candidate fetch,
// sentiment classification, scoring, and result storage.
package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageClient abstracts blob storage for candidate sets and reroute reports.
type StorageClient interface {
	PutCandidateSet(ctx context.Context, odSlug, setID string, data []byte) error
	GetCandidateSet(ctx context.Context, odSlug, setID string) ([]byte, error)
	PutReport(ctx context.Context, odSlug, reportID string, data []byte) error
	GetReport(ctx context.Context, odSlug, reportID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(odSlug, kind, id string) string {
	return filepath.Join(s.BaseDir, odSlug, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutCandidateSet stores a candidate set blob.
func (s *LocalStorage) PutCandidateSet(ctx context.Context, odSlug, setID string, data []byte) error {
	return s.put(s.path(odSlug, "candidates", setID), data)
}

// GetCandidateSet retrieves a candidate set blob.
func (s *LocalStorage) GetCandidateSet(ctx context.Context, odSlug, setID string) ([]byte, error) {
	return os.ReadFile(s.path(odSlug, "candidates", setID))
}

// PutReport stores a reroute report blob.
func (s *LocalStorage) PutReport(ctx context.Context, odSlug, reportID string, data []byte) error {
	return s.put(s.path(odSlug, "reports", reportID), data)
}

// GetReport retrieves a reroute report blob.
func (s *LocalStorage) GetReport(ctx context.Context, odSlug, reportID string) ([]byte, error) {
	return os.ReadFile(s.path(odSlug, "reports", reportID))
}
