package render

import (
	"fmt"
	"strings"
)

// GraphOptions selects the join and post-processing behavior of the filter
// graph.
type GraphOptions struct {
	CrossfadeSeconds float64
	Loudnorm         bool
	SampleRate       int
}

// loudnorm targets follow the common podcast/audiobook delivery settings.
const loudnormFilter = "loudnorm=I=-16:TP=-1.5:LRA=11"

// BuildGraph assembles the filter_complex expression for a layout and
// returns it with the label of the final output stream. At least one piece
// is required.
func BuildGraph(pieces []Piece, opts GraphOptions) (string, string, error) {
	if len(pieces) == 0 {
		return "", "", fmt.Errorf("filter graph needs at least one piece")
	}

	var b strings.Builder
	for i, piece := range pieces {
		fmt.Fprintf(&b, "[0:a]atrim=start=%s:end=%s,asetpts=PTS-STARTPTS[s%d];",
			formatSeconds(piece.Start), formatSeconds(piece.End), i)
	}

	joined := "[s0]"
	switch {
	case len(pieces) == 1:
		// Single piece, no join stage.
	case opts.CrossfadeSeconds > 0:
		// acrossfade takes exactly two inputs, so fold the chain pairwise.
		prev := "[s0]"
		for i := 1; i < len(pieces); i++ {
			out := fmt.Sprintf("[x%d]", i)
			fmt.Fprintf(&b, "%s[s%d]acrossfade=d=%s:c1=tri:c2=tri%s;",
				prev, i, formatSeconds(opts.CrossfadeSeconds), out)
			prev = out
		}
		joined = prev
	default:
		for i := range pieces {
			fmt.Fprintf(&b, "[s%d]", i)
		}
		fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[cat];", len(pieces))
		joined = "[cat]"
	}

	var tail []string
	if opts.Loudnorm {
		tail = append(tail, loudnormFilter)
	}
	if opts.SampleRate > 0 {
		tail = append(tail, fmt.Sprintf("aresample=%d", opts.SampleRate))
	}

	final := joined
	if len(tail) > 0 {
		final = "[out]"
		fmt.Fprintf(&b, "%s%s%s;", joined, strings.Join(tail, ","), final)
	}

	graph := strings.TrimSuffix(b.String(), ";")
	return graph, strings.Trim(final, "[]"), nil
}

// formatSeconds renders a duration with millisecond precision and no
// trailing zeros, keeping filter expressions readable in logs.
func formatSeconds(value float64) string {
	formatted := strings.TrimRight(fmt.Sprintf("%.3f", value), "0")
	return strings.TrimSuffix(formatted, ".")
}
