package job

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"scriptcut/internal/services"
)

// Pair is one discovered transcript/script couple in a batch directory.
type Pair struct {
	Stem           string
	TranscriptPath string
	ScriptPath     string
}

// Outcome is the per-chapter result of a batch run.
type Outcome struct {
	Stem    string
	Summary *Summary
	Err     error
}

// DiscoverPairs scans a directory for transcript JSON files with a sibling
// reference script of the same stem (.txt). Persisted edit decision lists
// are skipped.
func DiscoverPairs(dir string) ([]Pair, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "batch", "scan directory", dir, err)
	}

	var pairs []Pair
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".edl.json") {
			continue
		}
		stem := strings.TrimSuffix(name, ".json")
		scriptPath := filepath.Join(dir, stem+".txt")
		if info, err := os.Stat(scriptPath); err != nil || info.IsDir() {
			continue
		}
		pairs = append(pairs, Pair{
			Stem:           stem,
			TranscriptPath: filepath.Join(dir, name),
			ScriptPath:     scriptPath,
		})
	}
	if len(pairs) == 0 {
		return nil, services.Wrap(services.ErrInput, "batch", "scan directory",
			fmt.Sprintf("no transcript/script pairs found in %s", dir), nil)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Stem < pairs[j].Stem })
	return pairs, nil
}

// Batch runs every pair with a bounded worker pool. A failing chapter does
// not cancel its siblings; each outcome carries its own error. Outcomes
// come back in pair order.
func (r *Runner) Batch(ctx context.Context, pairs []Pair, outputDir string, dryRun bool) []Outcome {
	workers := r.cfg.Batch.Workers
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]Outcome, len(pairs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			summary, err := r.Run(ctx, Request{
				TranscriptPath: pair.TranscriptPath,
				ScriptPath:     pair.ScriptPath,
				OutputDir:      outputDir,
				Stem:           pair.Stem,
				DryRun:         dryRun,
			})
			outcomes[i] = Outcome{Stem: pair.Stem, Summary: summary, Err: err}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; outcomes carry them
	return outcomes
}
