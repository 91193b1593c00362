package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"scriptcut/internal/config"
	"scriptcut/internal/edl"
	"scriptcut/internal/media/ffprobe"
	"scriptcut/internal/services"
)

// audioExtensions is the sibling-lookup order when the document does not
// name its source audio.
var audioExtensions = []string{".wav", ".flac", ".m4a", ".mp3", ".aac", ".ogg", ".opus"}

// Prober inspects a media file. The default implementation shells out to
// ffprobe; tests inject a fake.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Options controls a single render invocation.
type Options struct {
	// Crossfade joins pieces with an overlapping fade instead of a hard
	// concat.
	Crossfade bool
	// Loudnorm appends a loudness-normalization stage to the graph tail.
	Loudnorm bool
	// TightenSilences retains a short gap where an over-long silence was
	// cut, instead of removing it outright.
	TightenSilences bool
	// ConfigFingerprint, when non-empty, is compared against the
	// document's recorded fingerprint. A mismatch is a warning.
	ConfigFingerprint string
}

// Result reports a completed render.
type Result struct {
	OutputPath      string
	SourceAudio     string
	PlannedDuration float64
	ActualDuration  float64
	Warnings        []string
}

// Renderer drives the external render engine.
type Renderer struct {
	cfg    config.Render
	edlCfg config.EDL
	logger *slog.Logger

	prober Prober
	// runner overrides process execution in tests.
	runner func(ctx context.Context, name string, args []string) ([]byte, error)
}

// New builds a renderer around the render and EDL sections of the
// configuration.
func New(renderCfg config.Render, edlCfg config.EDL, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{cfg: renderCfg, edlCfg: edlCfg, logger: logger.With("component", "render")}
	r.prober = func(ctx context.Context, path string) (ffprobe.Result, error) {
		return ffprobe.Inspect(ctx, renderCfg.FFprobeBinary, path)
	}
	return r
}

// WithProber sets a custom media prober (for testing).
func (r *Renderer) WithProber(prober Prober) {
	r.prober = prober
}

// WithRunner sets a custom process runner (for testing).
func (r *Renderer) WithRunner(runner func(ctx context.Context, name string, args []string) ([]byte, error)) {
	r.runner = runner
}

// Render conforms the source audio to the document and writes the result at
// outputPath. edlPath anchors relative source references and the sibling
// lookup.
func (r *Renderer) Render(ctx context.Context, doc *edl.Document, edlPath string, outputPath string, opts Options) (*Result, error) {
	result := &Result{OutputPath: outputPath}

	source, err := resolveSource(doc, edlPath)
	if err != nil {
		return nil, err
	}
	result.SourceAudio = source

	if opts.ConfigFingerprint != "" && doc.ConfigFingerprint != "" && opts.ConfigFingerprint != doc.ConfigFingerprint {
		warning := fmt.Sprintf("document was built under config %s, current config is %s",
			doc.ConfigFingerprint, opts.ConfigFingerprint)
		result.Warnings = append(result.Warnings, warning)
		r.logger.Warn("config fingerprint mismatch", "document", doc.ConfigFingerprint, "current", opts.ConfigFingerprint)
	}

	probed, err := r.prober(ctx, source)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "render", "probe source", source, err)
	}
	if !probed.HasAudio() {
		return nil, services.Wrap(services.ErrRender, "render", "probe source",
			fmt.Sprintf("%s has no audio stream", source), nil)
	}
	if diff := math.Abs(probed.DurationSeconds() - doc.TotalDuration); diff > 0.05 {
		if diff > r.cfg.DurationToleranceS {
			return nil, services.Wrap(services.ErrRender, "render", "validate source",
				fmt.Sprintf("source runs %.3fs but document covers %.3fs", probed.DurationSeconds(), doc.TotalDuration), nil)
		}
		warning := fmt.Sprintf("source runs %.3fs, document covers %.3fs", probed.DurationSeconds(), doc.TotalDuration)
		result.Warnings = append(result.Warnings, warning)
		r.logger.Warn("source duration differs from document", "source_s", probed.DurationSeconds(), "document_s", doc.TotalDuration)
	}

	pieces := Layout(doc, r.edlCfg, opts.TightenSilences)
	if len(pieces) == 0 {
		return nil, services.Wrap(services.ErrRender, "render", "layout", "document has no keep segments", nil)
	}

	crossfade := 0.0
	if opts.Crossfade {
		crossfade = r.cfg.CrossfadeSeconds
	}
	result.PlannedDuration = PlannedDuration(pieces, crossfade)

	graph, outLabel, err := BuildGraph(pieces, GraphOptions{
		CrossfadeSeconds: crossfade,
		Loudnorm:         opts.Loudnorm,
		SampleRate:       r.cfg.SampleRate,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrRender, "render", "build graph", source, err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrRender, "render", "prepare output directory", outputPath, err)
	}
	tempPath := partialPath(outputPath)

	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", source,
		"-filter_complex", graph,
		"-map", "[" + outLabel + "]",
		tempPath,
	}
	r.logger.Info("render started",
		"source", source,
		"pieces", len(pieces),
		"planned_s", result.PlannedDuration,
		"crossfade", opts.Crossfade,
		"loudnorm", opts.Loudnorm)

	if err := r.run(ctx, args, tempPath); err != nil {
		return nil, err
	}

	if probedOut, err := r.prober(ctx, tempPath); err == nil {
		result.ActualDuration = probedOut.DurationSeconds()
		if diff := math.Abs(result.ActualDuration - result.PlannedDuration); diff > r.cfg.DurationToleranceS {
			os.Remove(tempPath)
			return nil, services.Wrap(services.ErrRender, "render", "validate output",
				fmt.Sprintf("output runs %.3fs, expected %.3fs", result.ActualDuration, result.PlannedDuration), nil)
		}
	}

	if err := os.Rename(tempPath, outputPath); err != nil {
		os.Remove(tempPath)
		return nil, services.Wrap(services.ErrRender, "render", "finalize output", outputPath, err)
	}
	r.logger.Info("render finished", "output", outputPath, "actual_s", result.ActualDuration)
	return result, nil
}

func (r *Renderer) run(ctx context.Context, args []string, tempPath string) error {
	binary := strings.TrimSpace(r.cfg.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if r.cfg.TimeoutSeconds > 0 {
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(r.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	var output []byte
	var err error
	if r.runner != nil {
		output, err = r.runner(runCtx, binary, args)
	} else {
		cmd := exec.CommandContext(runCtx, binary, args...)
		output, err = cmd.CombinedOutput()
	}
	if err != nil {
		os.Remove(tempPath)
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrTimeout, "render", "run engine",
				fmt.Sprintf("%s exceeded %ds timeout", binary, r.cfg.TimeoutSeconds), err)
		}
		detail := strings.TrimSpace(string(output))
		if len(detail) > 400 {
			detail = detail[len(detail)-400:]
		}
		return services.Wrap(services.ErrRender, "render", "run engine", detail, err)
	}
	return nil
}

// partialPath places the in-flight file next to the final one, keeping the
// extension so the muxer is still inferred correctly.
func partialPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + ".partial" + ext
}

// resolveSource finds the audio file a document refers to. An explicit
// source_audio wins, resolved against the document's directory when
// relative. Otherwise a sibling with the document's stem and a known audio
// extension is used.
func resolveSource(doc *edl.Document, edlPath string) (string, error) {
	base := filepath.Dir(edlPath)

	if source := strings.TrimSpace(doc.SourceAudio); source != "" {
		if !filepath.IsAbs(source) {
			source = filepath.Join(base, source)
		}
		if _, err := os.Stat(source); err != nil {
			return "", services.Wrap(services.ErrInput, "render", "resolve source", source, err)
		}
		return source, nil
	}

	stem := documentStem(edlPath)
	for _, ext := range audioExtensions {
		candidate := filepath.Join(base, stem+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrInput, "render", "resolve source",
		fmt.Sprintf("no source_audio in document and no sibling audio for stem %q", stem), nil)
}

func documentStem(edlPath string) string {
	name := filepath.Base(edlPath)
	if strings.HasSuffix(name, ".edl.json") {
		return strings.TrimSuffix(name, ".edl.json")
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
