package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/quantara/routeguard/pkg/config"
	"github.com/quantara/routeguard/pkg/route"
	"github.com/quantara/routeguard/pkg/scoring"
)

func TestAnalyzeCmdFlags(t *testing.T) {
	cmd := newAnalyzeCmd()
	f := cmd.Flags()

	outputFmt, _ := f.GetString("output")
	if outputFmt != "terminal" {
		t.Errorf("default output = %q, want terminal", outputFmt)
	}

	for _, flag := range []string{"candidates", "sentiment", "time", "distance", "safety", "carbon", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestRescoreCmdFlags(t *testing.T) {
	cmd := newRescoreCmd()
	f := cmd.Flags()

	for _, flag := range []string{"from", "to", "time", "distance", "safety", "carbon", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestCompareCmdFlags(t *testing.T) {
	cmd := newCompareCmd()
	f := cmd.Flags()

	for _, flag := range []string{"previous", "alternatives", "traveled", "sentiment", "time", "distance", "safety", "carbon", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestWeightFlagsResolve(t *testing.T) {
	cfg := config.DefaultConfig()

	// parse builds a fresh flag set, applies the given command-line
	// arguments, and records which flags were passed.
	parse := func(t *testing.T, args ...string) rawWeightFlags {
		t.Helper()
		cmd := &cobra.Command{}
		var w rawWeightFlags
		addWeightFlags(cmd, &w)
		if err := cmd.Flags().Parse(args); err != nil {
			t.Fatalf("parse %v: %v", args, err)
		}
		w.markSet(cmd.Flags())
		return w
	}

	// No flags passed: config defaults carry through untouched.
	w := parse(t)
	got, err := w.resolve(cfg)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if got.Sentiment != 0.20 {
		t.Errorf("Sentiment weight = %f, want 0.20", got.Sentiment)
	}
	if got.Time != got.Distance {
		t.Errorf("default Time %f and Distance %f weights should be equal", got.Time, got.Distance)
	}

	// One flag passed: only that factor is overridden before rescaling.
	w = parse(t, "--time=100")
	got, err = w.resolve(cfg)
	if err != nil {
		t.Fatalf("resolve() with time=100 error: %v", err)
	}
	if got.Time <= got.Distance {
		t.Errorf("Time weight %f should dominate Distance %f", got.Time, got.Distance)
	}

	// A negative weight is an override, not an unset flag, and is rejected.
	w = parse(t, "--distance=-5")
	if _, err := w.resolve(cfg); !errors.Is(err, scoring.ErrInvalidWeights) {
		t.Errorf("resolve() with negative weight: err = %v, want ErrInvalidWeights", err)
	}

	// Zero is likewise a deliberate override.
	w = parse(t, "--time=0")
	got, err = w.resolve(cfg)
	if err != nil {
		t.Fatalf("resolve() with time=0 error: %v", err)
	}
	if got.Time != 0 {
		t.Errorf("Time weight = %f, want 0", got.Time)
	}
}

func TestStoreEntryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ROUTEGUARD_STORE_DIR", dir)

	entry := &storeEntry{
		Set: &route.CandidateSet{
			Origin:      route.Place{Name: "Delhi"},
			Destination: route.Place{Name: "Mumbai"},
		},
	}
	if err := saveStoreEntry(entry); err != nil {
		t.Fatalf("saveStoreEntry() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "delhi_mumbai.json")); err != nil {
		t.Fatalf("store file missing: %v", err)
	}

	// Lookup is od-pair order independent.
	if _, err := loadStoreEntry("Mumbai", "Delhi", 0); err != nil {
		t.Errorf("loadStoreEntry() reversed pair error: %v", err)
	}

	if _, err := loadStoreEntry("Chennai", "Pune", 0); err == nil {
		t.Error("loadStoreEntry() for unknown pair should fail")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
