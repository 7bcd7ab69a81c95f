package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoragePutGetCandidateSet(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"candidates":[]}`)
	if err := s.PutCandidateSet(ctx, "delhi_mumbai", "set1", data); err != nil {
		t.Fatalf("PutCandidateSet: %v", err)
	}

	got, err := s.GetCandidateSet(ctx, "delhi_mumbai", "set1")
	if err != nil {
		t.Fatalf("GetCandidateSet: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetCandidateSet = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "delhi_mumbai", "candidates", "set1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStoragePutGetReport(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"tradeoffs":[]}`)
	if err := s.PutReport(ctx, "delhi_mumbai", "rep1", data); err != nil {
		t.Fatalf("PutReport: %v", err)
	}

	got, err := s.GetReport(ctx, "delhi_mumbai", "rep1")
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetReport = %q, want %q", got, data)
	}

	expectedPath := filepath.Join(dir, "delhi_mumbai", "reports", "rep1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	_, err := s.GetCandidateSet(ctx, "delhi_mumbai", "nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent candidate set")
	}
}
