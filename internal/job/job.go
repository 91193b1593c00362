package job

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"scriptcut/internal/align"
	"scriptcut/internal/config"
	"scriptcut/internal/edl"
	"scriptcut/internal/export"
	"scriptcut/internal/runlog"
	"scriptcut/internal/script"
	"scriptcut/internal/services"
	"scriptcut/internal/textnorm"
	"scriptcut/internal/transcript"
)

// Request describes one chapter to process.
type Request struct {
	TranscriptPath string
	ScriptPath     string
	OutputDir      string
	// Stem names the output files. Derived from the transcript filename
	// when empty.
	Stem string
	// SourceAudio is recorded in the document for the later render
	// invocation. Optional; the renderer falls back to sibling lookup.
	SourceAudio string
	// DryRun computes the full alignment and reports it without writing
	// any file.
	DryRun bool
}

// Summary reports one completed job.
type Summary struct {
	RunID          string
	Stem           string
	MatchedLines   int
	UnmatchedLines []int
	RetakesDropped int
	FillersDropped int
	Warnings       []string
	OutputFiles    []string
	KeptDuration   float64
	TotalDuration  float64
	Elapsed        time.Duration
	DryRun         bool
}

// Runner executes jobs under one configuration.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *runlog.Store
	converter textnorm.Converter
}

// NewRunner builds a runner. store may be nil to skip run history.
func NewRunner(cfg *config.Config, logger *slog.Logger, store *runlog.Store) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{cfg: cfg, logger: logger.With("component", "job"), store: store}
	if cfg.Convert.Enabled {
		if converter := textnorm.NewExecConverter(cfg.Convert.Binary, cfg.Convert.Args); converter != nil {
			r.converter = converter
		}
	}
	return r
}

// Run processes a single chapter. A non-nil Summary is returned only on
// success; per-line alignment problems surface as Summary warnings, not
// errors.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	started := time.Now()
	runID := uuid.NewString()
	stem := req.Stem
	if stem == "" {
		stem = Stem(req.TranscriptPath)
	}
	logger := r.logger.With("stem", stem, "run_id", runID)

	doc, err := transcript.Load(req.TranscriptPath)
	if err != nil {
		return nil, err
	}
	lines, err := script.Load(req.ScriptPath)
	if err != nil {
		return nil, err
	}
	logger.Info("inputs loaded",
		"words", len(doc.Words),
		"dropped_words", doc.DroppedWords,
		"script_lines", len(lines))

	normalizer := textnorm.New(r.cfg.Alignment, r.converter, logger)
	normLines := make([]textnorm.Line, 0, len(lines))
	for _, line := range lines {
		normLines = append(normLines, normalizer.NormalizeLine(ctx, line.Number, line.Text))
	}
	stream := normalizer.NormalizeStream(ctx, doc)

	engine := align.NewEngine(r.cfg.Alignment, logger)
	result := engine.Align(doc, normLines, stream)

	summary := &Summary{
		RunID:          runID,
		Stem:           stem,
		MatchedLines:   len(result.Spans),
		UnmatchedLines: result.UnmatchedLines,
		FillersDropped: stream.FillersDropped,
		TotalDuration:  result.TotalDuration,
		DryRun:         req.DryRun,
	}
	for _, span := range result.Spans {
		summary.RetakesDropped += span.DiscardedRetakes
	}
	for _, warning := range result.Warnings {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: %s", warning.Line, warning.Message))
	}
	for _, line := range result.UnmatchedLines {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("line %d: no passing match", line))
	}

	document, err := edl.Build(result.Spans, result.TotalDuration, r.cfg.EDL, edl.Provenance{
		SourceAudio:       req.SourceAudio,
		ConfigFingerprint: r.cfg.Fingerprint(),
		Aggressiveness:    r.cfg.Alignment.Aggressiveness,
	})
	if err != nil {
		return nil, err
	}
	summary.KeptDuration = document.KeptDuration()

	if req.DryRun {
		summary.Elapsed = time.Since(started)
		logger.Info("dry run finished",
			"matched", summary.MatchedLines,
			"unmatched", len(summary.UnmatchedLines),
			"retakes_dropped", summary.RetakesDropped,
			"kept_s", summary.KeptDuration)
		return summary, nil
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "job", "create output directory", req.OutputDir, err)
	}
	if err := r.writeArtifacts(summary, req.OutputDir, document, result, lines, doc); err != nil {
		return nil, err
	}

	summary.Elapsed = time.Since(started)
	r.record(ctx, summary, req.OutputDir)
	logger.Info("job finished",
		"matched", summary.MatchedLines,
		"unmatched", len(summary.UnmatchedLines),
		"retakes_dropped", summary.RetakesDropped,
		"warnings", len(summary.Warnings),
		"elapsed", summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}

func (r *Runner) writeArtifacts(summary *Summary, outputDir string, document *edl.Document,
	result align.Result, lines []script.Line, doc *transcript.Document) error {

	lineText := script.TextByNumber(lines)
	cues := export.BuildCues(result.Spans, lineText, doc.Words, r.cfg.Subtitles)
	stem := summary.Stem

	edlPath := filepath.Join(outputDir, stem+".edl.json")
	if err := document.Save(edlPath); err != nil {
		return services.Wrap(services.ErrRender, "job", "save edl", edlPath, err)
	}
	summary.OutputFiles = append(summary.OutputFiles, edlPath)

	writers := []struct {
		path  string
		write func(path string) error
	}{
		{filepath.Join(outputDir, stem+".srt"), func(p string) error { return export.WriteSRT(p, cues) }},
		{filepath.Join(outputDir, stem+".vtt"), func(p string) error { return export.WriteVTT(p, cues) }},
		{filepath.Join(outputDir, stem+".txt"), func(p string) error { return export.WritePlainText(p, result.Spans, lineText) }},
		{filepath.Join(outputDir, stem+".markers.csv"), func(p string) error { return export.WriteMarkers(p, result.Spans, lineText) }},
	}
	for _, w := range writers {
		if err := w.write(w.path); err != nil {
			return err
		}
		summary.OutputFiles = append(summary.OutputFiles, w.path)
	}
	return nil
}

func (r *Runner) record(ctx context.Context, summary *Summary, outputDir string) {
	if r.store == nil {
		return
	}
	status := runlog.StatusCompleted
	if len(summary.Warnings) > 0 {
		status = runlog.StatusWarnings
	}
	entry := runlog.Entry{
		RunID:          summary.RunID,
		Stem:           summary.Stem,
		StartedAt:      time.Now().Add(-summary.Elapsed),
		DurationMS:     summary.Elapsed.Milliseconds(),
		MatchedLines:   summary.MatchedLines,
		UnmatchedLines: len(summary.UnmatchedLines),
		RetakesDropped: summary.RetakesDropped,
		Warnings:       len(summary.Warnings),
		Aggressiveness: r.cfg.Alignment.Aggressiveness,
		Fingerprint:    r.cfg.Fingerprint(),
		OutputDir:      outputDir,
		Status:         status,
	}
	if err := r.store.Record(ctx, entry); err != nil {
		// History is best-effort; the artifacts are already on disk.
		r.logger.Warn("run history not recorded", "error", err)
	}
}

// Stem derives the output file stem from a transcript path.
func Stem(transcriptPath string) string {
	name := filepath.Base(transcriptPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// LockOutputDir takes an advisory lock on the output directory for the
// lifetime of an invocation. The caller must invoke the returned release
// function.
func LockOutputDir(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "job", "create output directory", dir, err)
	}
	lock := flock.New(filepath.Join(dir, ".scriptcut.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "job", "lock output directory", dir, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "job", "lock output directory",
			fmt.Sprintf("%s is in use by another invocation", dir), nil)
	}
	return func() { lock.Unlock() }, nil
}
