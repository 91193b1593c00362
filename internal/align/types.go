package align

// Quality records how a line's keep span was matched.
type Quality string

const (
	QualityStrict    Quality = "strict"
	QualityFallback  Quality = "fallback"
	QualityUnmatched Quality = "unmatched"
)

// KeepSpan is the selected time range for one matched reference line,
// already expanded by the safety pad and clamped against neighbors.
type KeepSpan struct {
	Line             int
	Start            float64
	End              float64
	Quality          Quality
	DiscardedRetakes int
}

// Warning is a recoverable per-line condition surfaced with the result.
type Warning struct {
	Line    int
	Message string
}

// Result is the full outcome of aligning one chapter.
type Result struct {
	Spans          []KeepSpan
	UnmatchedLines []int
	Warnings       []Warning
	TotalDuration  float64
}

// WarningCount returns the number of conditions that demote a clean exit,
// counting unmatched lines once each.
func (r *Result) WarningCount() int {
	return len(r.Warnings) + len(r.UnmatchedLines)
}
