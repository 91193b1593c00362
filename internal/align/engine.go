package align

import (
	"fmt"
	"log/slog"

	"scriptcut/internal/config"
	"scriptcut/internal/textnorm"
	"scriptcut/internal/transcript"
)

// Engine aligns reference lines against a normalized token stream. It is
// read-only after construction.
type Engine struct {
	cfg    config.Alignment
	logger *slog.Logger
}

// NewEngine builds an Engine from the alignment configuration.
func NewEngine(cfg config.Alignment, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, logger: logger.With("component", "align")}
}

// thresholds derives the similarity floors from the aggressiveness value.
// Aggressiveness 0 demands near-exact matches; 100 accepts heavy noise.
func thresholds(aggressiveness int) (primary, fallback float64) {
	a := float64(aggressiveness) / 100
	primary = 0.92 - 0.32*a
	fallback = primary - 0.12
	if fallback < 0.45 {
		fallback = 0.45
	}
	return primary, fallback
}

// Align matches every reference line, in line order, and resolves padded,
// clamped keep spans. doc supplies timestamps; lines and stream must come
// from the same Normalizer so their character sequences are comparable.
func (e *Engine) Align(doc *transcript.Document, lines []textnorm.Line, stream textnorm.Stream) Result {
	result := Result{TotalDuration: doc.TotalDuration()}
	primary, fallback := thresholds(e.cfg.Aggressiveness)

	type rawSpan struct {
		span     KeepSpan
		rawStart float64
		rawEnd   float64
	}
	var matched []rawSpan
	var prevEnd float64

	for _, line := range lines {
		if len(line.Runes) == 0 {
			result.UnmatchedLines = append(result.UnmatchedLines, line.Number)
			result.Warnings = append(result.Warnings, Warning{
				Line:    line.Number,
				Message: "line is empty after normalization",
			})
			continue
		}

		quality := QualityStrict
		candidates := e.findCandidates(doc, stream, line.Runes, primary)
		if len(candidates) == 0 {
			candidates = e.findCandidates(doc, stream, line.Runes, fallback)
			quality = QualityFallback
		}
		if len(candidates) == 0 {
			result.UnmatchedLines = append(result.UnmatchedLines, line.Number)
			e.logger.Warn("no passing match for line", "line", line.Number)
			continue
		}

		selected := candidates[0]
		for _, cand := range candidates[1:] {
			selected = preferred(selected, cand)
		}

		discarded := 0
		for _, cand := range candidates {
			if cand == selected {
				continue
			}
			if cand.score >= e.cfg.RetakeSimThreshold {
				discarded++
			}
		}

		if e.cfg.RetakeWindowSeconds > 0 && len(matched) > 0 &&
			selected.startTime > prevEnd+e.cfg.RetakeWindowSeconds {
			result.Warnings = append(result.Warnings, Warning{
				Line: line.Number,
				Message: fmt.Sprintf("selected take starts %.1fs after the previous line; verify take choice",
					selected.startTime-prevEnd),
			})
		}
		prevEnd = selected.endTime

		matched = append(matched, rawSpan{
			span: KeepSpan{
				Line:             line.Number,
				Quality:          quality,
				DiscardedRetakes: discarded,
			},
			rawStart: selected.startTime,
			rawEnd:   selected.endTime,
		})
		e.logger.Debug("line matched",
			"line", line.Number,
			"start", selected.startTime,
			"end", selected.endTime,
			"score", selected.score,
			"quality", string(quality),
			"retakes_discarded", discarded)
	}

	// Apply the safety pad. Ends are clamped first, to the recording bounds
	// and to the next take's raw start; starts are then clamped against the
	// already-padded previous end so padding never crosses another take.
	pad := e.cfg.SafetyPadSeconds
	for i := range matched {
		end := matched[i].rawEnd + pad
		if end > result.TotalDuration {
			end = result.TotalDuration
		}
		if i+1 < len(matched) && end > matched[i+1].rawStart {
			end = matched[i+1].rawStart
		}
		if end < matched[i].rawEnd {
			end = matched[i].rawEnd
		}
		matched[i].span.End = end
	}
	for i := range matched {
		start := matched[i].rawStart - pad
		if start < 0 {
			start = 0
		}
		if i > 0 && start < matched[i-1].span.End {
			start = matched[i-1].span.End
			if start > matched[i].rawStart {
				// The raw takes themselves overlap: line order is assumed
				// chronological, so this is flagged and clamped, never
				// silently reordered.
				result.Warnings = append(result.Warnings, Warning{
					Line: matched[i].span.Line,
					Message: fmt.Sprintf("span overlaps line %d; takes may be recorded out of order",
						matched[i-1].span.Line),
				})
			}
		}
		matched[i].span.Start = start
		if matched[i].span.End < matched[i].span.Start {
			matched[i].span.End = matched[i].span.Start
		}
	}

	for _, m := range matched {
		if m.span.End <= m.span.Start {
			result.UnmatchedLines = append(result.UnmatchedLines, m.span.Line)
			result.Warnings = append(result.Warnings, Warning{
				Line:    m.span.Line,
				Message: "span collapsed to zero length after overlap clamping",
			})
			continue
		}
		result.Spans = append(result.Spans, m.span)
	}
	return result
}
