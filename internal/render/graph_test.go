package render

import (
	"math"
	"testing"

	"scriptcut/internal/config"
	"scriptcut/internal/edl"
)

func testDocument() *edl.Document {
	return &edl.Document{
		Segments: []edl.Segment{
			{Kind: edl.SegmentKeep, Start: 0, End: 5, Line: 1},
			{Kind: edl.SegmentDrop, Start: 5, End: 10},
			{Kind: edl.SegmentKeep, Start: 10, End: 12, Line: 2},
		},
		TotalDuration: 12,
	}
}

func TestLayoutDropsCutSegments(t *testing.T) {
	pieces := Layout(testDocument(), config.EDL{LongSilenceSeconds: 3.0, TightenTargetMS: 500}, false)
	want := []Piece{{Start: 0, End: 5}, {Start: 10, End: 12}}
	if len(pieces) != len(want) {
		t.Fatalf("got %d pieces, want %d", len(pieces), len(want))
	}
	for i := range want {
		if pieces[i] != want[i] {
			t.Errorf("piece %d = %+v, want %+v", i, pieces[i], want[i])
		}
	}
}

func TestPlannedDurationHardCut(t *testing.T) {
	pieces := Layout(testDocument(), config.EDL{}, false)
	if got := PlannedDuration(pieces, 0); math.Abs(got-7.0) > 1e-9 {
		t.Fatalf("PlannedDuration = %v, want 7.0", got)
	}
}

func TestPlannedDurationCrossfade(t *testing.T) {
	pieces := Layout(testDocument(), config.EDL{}, false)
	if got := PlannedDuration(pieces, 0.2); math.Abs(got-6.8) > 1e-9 {
		t.Fatalf("PlannedDuration = %v, want 6.8", got)
	}
}

func TestLayoutTightensLongSilence(t *testing.T) {
	doc := &edl.Document{
		Segments: []edl.Segment{
			{Kind: edl.SegmentKeep, Start: 0, End: 2, Line: 1},
			{Kind: edl.SegmentDrop, Start: 2, End: 10},
			{Kind: edl.SegmentKeep, Start: 10, End: 12, Line: 2},
		},
		TotalDuration: 12,
	}
	cfg := config.EDL{LongSilenceSeconds: 3.0, TightenTargetMS: 500}

	pieces := Layout(doc, cfg, true)
	want := []Piece{{Start: 0, End: 2.5}, {Start: 10, End: 12}}
	if len(pieces) != len(want) {
		t.Fatalf("got %d pieces, want %d", len(pieces), len(want))
	}
	for i := range want {
		if pieces[i] != want[i] {
			t.Errorf("piece %d = %+v, want %+v", i, pieces[i], want[i])
		}
	}
	if got := PlannedDuration(pieces, 0); math.Abs(got-4.5) > 1e-9 {
		t.Fatalf("PlannedDuration = %v, want 4.5", got)
	}
	// The document timeline stays untouched.
	if doc.Segments[1].End != 10 {
		t.Fatalf("drop segment mutated: %+v", doc.Segments[1])
	}
}

func TestLayoutLeavesShortSilencesAlone(t *testing.T) {
	doc := testDocument() // drop is 5.0s
	cfg := config.EDL{LongSilenceSeconds: 6.0, TightenTargetMS: 500}
	pieces := Layout(doc, cfg, true)
	if len(pieces) != 2 || pieces[0].End != 5 {
		t.Fatalf("short silence was tightened: %+v", pieces)
	}
}

func TestBuildGraphConcat(t *testing.T) {
	graph, label, err := BuildGraph([]Piece{{0, 5}, {10, 12}}, GraphOptions{})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	want := "[0:a]atrim=start=0:end=5,asetpts=PTS-STARTPTS[s0];" +
		"[0:a]atrim=start=10:end=12,asetpts=PTS-STARTPTS[s1];" +
		"[s0][s1]concat=n=2:v=0:a=1[cat]"
	if graph != want {
		t.Errorf("graph = %q\nwant    %q", graph, want)
	}
	if label != "cat" {
		t.Errorf("label = %q, want cat", label)
	}
}

func TestBuildGraphCrossfadeChain(t *testing.T) {
	graph, label, err := BuildGraph([]Piece{{0, 5}, {10, 12}, {14, 15}}, GraphOptions{CrossfadeSeconds: 0.2})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	want := "[0:a]atrim=start=0:end=5,asetpts=PTS-STARTPTS[s0];" +
		"[0:a]atrim=start=10:end=12,asetpts=PTS-STARTPTS[s1];" +
		"[0:a]atrim=start=14:end=15,asetpts=PTS-STARTPTS[s2];" +
		"[s0][s1]acrossfade=d=0.2:c1=tri:c2=tri[x1];" +
		"[x1][s2]acrossfade=d=0.2:c1=tri:c2=tri[x2]"
	if graph != want {
		t.Errorf("graph = %q\nwant    %q", graph, want)
	}
	if label != "x2" {
		t.Errorf("label = %q, want x2", label)
	}
}

func TestBuildGraphTailStages(t *testing.T) {
	graph, label, err := BuildGraph([]Piece{{0, 5}, {10, 12}}, GraphOptions{Loudnorm: true, SampleRate: 48000})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	want := "[0:a]atrim=start=0:end=5,asetpts=PTS-STARTPTS[s0];" +
		"[0:a]atrim=start=10:end=12,asetpts=PTS-STARTPTS[s1];" +
		"[s0][s1]concat=n=2:v=0:a=1[cat];" +
		"[cat]loudnorm=I=-16:TP=-1.5:LRA=11,aresample=48000[out]"
	if graph != want {
		t.Errorf("graph = %q\nwant    %q", graph, want)
	}
	if label != "out" {
		t.Errorf("label = %q, want out", label)
	}
}

func TestBuildGraphSinglePiece(t *testing.T) {
	graph, label, err := BuildGraph([]Piece{{1.5, 4}}, GraphOptions{})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	want := "[0:a]atrim=start=1.5:end=4,asetpts=PTS-STARTPTS[s0]"
	if graph != want {
		t.Errorf("graph = %q, want %q", graph, want)
	}
	if label != "s0" {
		t.Errorf("label = %q, want s0", label)
	}
}

func TestBuildGraphRejectsEmptyLayout(t *testing.T) {
	if _, _, err := BuildGraph(nil, GraphOptions{}); err == nil {
		t.Fatal("expected error for empty layout")
	}
}
