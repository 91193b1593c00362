package render

import (
	"scriptcut/internal/config"
	"scriptcut/internal/edl"
)

// Piece is one contiguous source range that survives the cut. Ranges are
// absolute source timestamps, ordered and non-overlapping.
type Piece struct {
	Start float64
	End   float64
}

// Duration returns the piece length in seconds.
func (p Piece) Duration() float64 {
	return p.End - p.Start
}

// Layout computes the ordered source ranges to render from a document.
//
// Keep segments map to pieces directly. Drop segments are removed. When
// tighten is enabled, a drop longer than long_silence_s is not removed
// outright: the leading tighten_target_ms of it is appended to the preceding
// piece so the join keeps a short natural pause. The document itself is
// never modified; tightening exists only in this render-time layout.
func Layout(doc *edl.Document, cfg config.EDL, tighten bool) []Piece {
	var pieces []Piece
	target := float64(cfg.TightenTargetMS) / 1000.0
	for _, segment := range doc.Segments {
		switch segment.Kind {
		case edl.SegmentKeep:
			pieces = append(pieces, Piece{Start: segment.Start, End: segment.End})
		case edl.SegmentDrop:
			if !tighten || target <= 0 || segment.Duration() <= cfg.LongSilenceSeconds {
				continue
			}
			retained := target
			if retained > segment.Duration() {
				retained = segment.Duration()
			}
			if len(pieces) > 0 && pieces[len(pieces)-1].End == segment.Start {
				pieces[len(pieces)-1].End += retained
			} else {
				// Leading silence before the first keep: retain its tail so
				// the kept audio still starts with a short run-in.
				pieces = append(pieces, Piece{Start: segment.End - retained, End: segment.End})
			}
		}
	}
	return pieces
}

// PlannedDuration returns the expected output duration for a layout.
// Crossfaded joins overlap, so each join shortens the output by the fade
// length.
func PlannedDuration(pieces []Piece, crossfadeSeconds float64) float64 {
	var total float64
	for _, piece := range pieces {
		total += piece.Duration()
	}
	if crossfadeSeconds > 0 && len(pieces) > 1 {
		total -= crossfadeSeconds * float64(len(pieces)-1)
	}
	return total
}
