package edl

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"scriptcut/internal/fileutil"
	"scriptcut/internal/services"
)

// SegmentKind distinguishes retained audio from cut audio.
type SegmentKind string

const (
	SegmentKeep SegmentKind = "keep"
	SegmentDrop SegmentKind = "drop"
)

// Segment is one contiguous time range of the source recording. Line is the
// first originating reference line for keep segments, zero otherwise.
type Segment struct {
	Kind  SegmentKind `json:"type"`
	Start float64     `json:"start"`
	End   float64     `json:"end"`
	Line  int         `json:"line,omitempty"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Document is a persisted edit decision list.
type Document struct {
	Segments          []Segment `json:"segments"`
	SourceAudio       string    `json:"source_audio"`
	TotalDuration     float64   `json:"total_duration"`
	ConfigFingerprint string    `json:"config_fingerprint"`
	Aggressiveness    int       `json:"aggressiveness"`
}

const contiguityEpsilon = 1e-6

// Validate checks the structural invariants: segments sorted and contiguous,
// first at zero, last at total duration, no empty or negative segment.
func (d *Document) Validate() error {
	if len(d.Segments) == 0 {
		return fmt.Errorf("edl has no segments")
	}
	if d.TotalDuration <= 0 {
		return fmt.Errorf("edl total_duration must be positive, got %g", d.TotalDuration)
	}
	if math.Abs(d.Segments[0].Start) > contiguityEpsilon {
		return fmt.Errorf("first segment starts at %g, want 0", d.Segments[0].Start)
	}
	last := d.Segments[len(d.Segments)-1]
	if math.Abs(last.End-d.TotalDuration) > contiguityEpsilon {
		return fmt.Errorf("last segment ends at %g, want total_duration %g", last.End, d.TotalDuration)
	}
	for i, segment := range d.Segments {
		if segment.Kind != SegmentKeep && segment.Kind != SegmentDrop {
			return fmt.Errorf("segment %d has unknown kind %q", i, segment.Kind)
		}
		if segment.Duration() <= 0 {
			return fmt.Errorf("segment %d has non-positive duration [%g, %g]", i, segment.Start, segment.End)
		}
		if i > 0 && math.Abs(segment.Start-d.Segments[i-1].End) > contiguityEpsilon {
			return fmt.Errorf("segment %d starts at %g but segment %d ends at %g",
				i, segment.Start, i-1, d.Segments[i-1].End)
		}
	}
	return nil
}

// KeepSegments returns only the retained segments, in order.
func (d *Document) KeepSegments() []Segment {
	var keeps []Segment
	for _, segment := range d.Segments {
		if segment.Kind == SegmentKeep {
			keeps = append(keeps, segment)
		}
	}
	return keeps
}

// KeptDuration returns the summed duration of keep segments.
func (d *Document) KeptDuration() float64 {
	var total float64
	for _, segment := range d.Segments {
		if segment.Kind == SegmentKeep {
			total += segment.Duration()
		}
	}
	return total
}

// Save writes the document as JSON via temp-then-rename.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal edl: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write edl: %w", err)
	}
	return nil
}

// Load reads and validates a persisted document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "edl", "read document", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, services.Wrap(services.ErrInput, "edl", "parse document", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, services.Wrap(services.ErrInput, "edl", "validate document", path, err)
	}
	return &doc, nil
}
