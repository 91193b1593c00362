package transcript

// Word is a single timestamped token from the ASR engine. Start and End are
// seconds from the beginning of the recording. Confidence is zero when the
// source schema carries none. Segment is the index of the originating
// segment, or zero for flat layouts.
type Word struct {
	Text       string
	Start      float64
	End        float64
	Confidence float64
	Segment    int
}

// Document is an immutable, ordered sequence of words plus source metadata.
type Document struct {
	Words    []Word
	Model    string
	Language string

	// DroppedWords counts tokens discarded at load time for missing or
	// unusable timestamps.
	DroppedWords int
}

// TotalDuration returns the latest end timestamp seen in the stream. The
// stream is not assumed sorted, so every word is inspected.
func (d *Document) TotalDuration() float64 {
	var max float64
	for _, w := range d.Words {
		if w.End > max {
			max = w.End
		}
	}
	return max
}
