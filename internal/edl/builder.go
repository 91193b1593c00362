package edl

import (
	"fmt"

	"scriptcut/internal/align"
	"scriptcut/internal/config"
	"scriptcut/internal/services"
)

// Provenance carries the settings under which an EDL was produced.
type Provenance struct {
	SourceAudio       string
	ConfigFingerprint string
	Aggressiveness    int
}

// Build converts resolved keep spans into a gapless keep/drop alternation.
// Adjacent spans whose gap is below merge_gap_s are coalesced first; drop
// segments then fill the remaining gaps by construction. Spans must already
// be non-overlapping and in line order (the alignment engine guarantees
// both).
func Build(spans []align.KeepSpan, totalDuration float64, cfg config.EDL, prov Provenance) (*Document, error) {
	if len(spans) == 0 {
		return nil, services.Wrap(services.ErrInput, "edl", "build", "no keep spans to lay out", nil)
	}
	if totalDuration <= 0 {
		return nil, services.Wrap(services.ErrInput, "edl", "build",
			fmt.Sprintf("total duration %g is not positive", totalDuration), nil)
	}

	type keepRun struct {
		start float64
		end   float64
		line  int
	}

	// Merge pass: spans separated by less than the merge gap collapse into
	// one keep run tagged with the first line.
	var runs []keepRun
	for _, span := range spans {
		if span.End <= span.Start {
			continue
		}
		if len(runs) > 0 && span.Start-runs[len(runs)-1].end < cfg.MergeGapSeconds {
			runs[len(runs)-1].end = span.End
			continue
		}
		runs = append(runs, keepRun{start: span.Start, end: span.End, line: span.Line})
	}
	if len(runs) == 0 {
		return nil, services.Wrap(services.ErrInput, "edl", "build", "all keep spans are empty", nil)
	}

	doc := &Document{
		SourceAudio:       prov.SourceAudio,
		TotalDuration:     totalDuration,
		ConfigFingerprint: prov.ConfigFingerprint,
		Aggressiveness:    prov.Aggressiveness,
	}

	cursor := 0.0
	for _, run := range runs {
		if run.start > cursor {
			doc.Segments = append(doc.Segments, Segment{
				Kind:  SegmentDrop,
				Start: cursor,
				End:   run.start,
			})
		}
		doc.Segments = append(doc.Segments, Segment{
			Kind:  SegmentKeep,
			Start: run.start,
			End:   run.end,
			Line:  run.line,
		})
		cursor = run.end
	}
	if cursor < totalDuration {
		doc.Segments = append(doc.Segments, Segment{
			Kind:  SegmentDrop,
			Start: cursor,
			End:   totalDuration,
		})
	}

	if err := doc.Validate(); err != nil {
		return nil, services.Wrap(services.ErrInput, "edl", "build", "constructed document is invalid", err)
	}
	return doc, nil
}
