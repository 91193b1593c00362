package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scriptcut/internal/config"
	"scriptcut/internal/services"
)

func writeBatchFixture(t *testing.T, dir string, stems ...string) {
	t.Helper()
	for _, stem := range stems {
		if err := os.WriteFile(filepath.Join(dir, stem+".json"), []byte(fixtureTranscript), 0o644); err != nil {
			t.Fatalf("write transcript: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, stem+".txt"), []byte(fixtureScript), 0o644); err != nil {
			t.Fatalf("write script: %v", err)
		}
	}
}

func TestDiscoverPairs(t *testing.T) {
	dir := t.TempDir()
	writeBatchFixture(t, dir, "ch02", "ch01")
	// Orphan transcript without a script, and a persisted EDL: both skipped.
	if err := os.WriteFile(filepath.Join(dir, "orphan.json"), []byte(fixtureTranscript), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ch01.edl.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	pairs, err := DiscoverPairs(dir)
	if err != nil {
		t.Fatalf("DiscoverPairs: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2: %+v", len(pairs), pairs)
	}
	if pairs[0].Stem != "ch01" || pairs[1].Stem != "ch02" {
		t.Errorf("pairs not sorted by stem: %+v", pairs)
	}
}

func TestDiscoverPairsEmptyDirectory(t *testing.T) {
	if _, err := DiscoverPairs(t.TempDir()); !errors.Is(err, services.ErrInput) {
		t.Fatalf("err = %v, want ErrInput", err)
	}
}

func TestBatchRunsEveryPair(t *testing.T) {
	dir := t.TempDir()
	writeBatchFixture(t, dir, "ch01", "ch02", "ch03")
	pairs, err := DiscoverPairs(dir)
	if err != nil {
		t.Fatalf("DiscoverPairs: %v", err)
	}

	cfg := config.Default()
	cfg.Batch.Workers = 2
	runner := NewRunner(&cfg, testLogger(), nil)
	outputDir := filepath.Join(dir, "out")

	outcomes := runner.Batch(context.Background(), pairs, outputDir, false)
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			t.Errorf("%s failed: %v", outcome.Stem, outcome.Err)
			continue
		}
		if outcome.Summary.MatchedLines != 2 {
			t.Errorf("%s matched %d lines, want 2", outcome.Stem, outcome.Summary.MatchedLines)
		}
		if _, err := os.Stat(filepath.Join(outputDir, outcome.Stem+".edl.json")); err != nil {
			t.Errorf("%s: missing edl: %v", outcome.Stem, err)
		}
	}
}

func TestBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	writeBatchFixture(t, dir, "ch01")
	// A malformed transcript with a valid sibling script still pairs up,
	// then fails inside its own job.
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("Some line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	pairs, err := DiscoverPairs(dir)
	if err != nil {
		t.Fatalf("DiscoverPairs: %v", err)
	}

	cfg := config.Default()
	runner := NewRunner(&cfg, testLogger(), nil)
	outcomes := runner.Batch(context.Background(), pairs, filepath.Join(dir, "out"), false)

	var failed, succeeded int
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
			if !errors.Is(outcome.Err, services.ErrInput) {
				t.Errorf("%s: err = %v, want ErrInput", outcome.Stem, outcome.Err)
			}
		} else {
			succeeded++
		}
	}
	if failed != 1 || succeeded != 1 {
		t.Fatalf("failed=%d succeeded=%d, want 1/1", failed, succeeded)
	}
}
