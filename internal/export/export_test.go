package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scriptcut/internal/align"
	"scriptcut/internal/config"
	"scriptcut/internal/transcript"
)

func subtitleConfig() config.Subtitles {
	return config.Subtitles{
		MaxSegmentSeconds: 6.0,
		MaxSegmentChars:   42,
		PauseBreakSeconds: 0.6,
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		sep     byte
		want    string
	}{
		{0, ',', "00:00:00,000"},
		{1.5, ',', "00:00:01,500"},
		{346.345, ',', "00:05:46,345"},
		{3661.007, '.', "01:01:01.007"},
	}
	for _, tc := range tests {
		if got := formatTimestamp(tc.seconds, tc.sep); got != tc.want {
			t.Errorf("formatTimestamp(%g) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestBuildCuesShortSpanSingleCue(t *testing.T) {
	spans := []align.KeepSpan{{Line: 1, Start: 1.0, End: 3.0}}
	cues := BuildCues(spans, map[int]string{1: "打开门"}, nil, subtitleConfig())
	if len(cues) != 1 {
		t.Fatalf("cues = %d, want 1", len(cues))
	}
	if cues[0].Start != 1.0 || cues[0].End != 3.0 || cues[0].Text != "打开门" {
		t.Errorf("cue = %+v", cues[0])
	}
}

func TestBuildCuesSplitsLongSpanByDuration(t *testing.T) {
	spans := []align.KeepSpan{{Line: 1, Start: 0, End: 14.0}}
	text := strings.Repeat("word ", 8)
	cues := BuildCues(spans, map[int]string{1: text}, nil, subtitleConfig())
	if len(cues) < 2 {
		t.Fatalf("long span should split, got %d cues", len(cues))
	}
	for _, cue := range cues {
		if cue.End-cue.Start > subtitleConfig().MaxSegmentSeconds+1e-9 {
			t.Errorf("cue exceeds duration limit: %+v", cue)
		}
	}
	// Cues must tile the span in order.
	if cues[0].Start != 0 || cues[len(cues)-1].End != 14.0 {
		t.Errorf("cues do not cover the span: %+v", cues)
	}
}

func TestBuildCuesSplitsAtPause(t *testing.T) {
	words := []transcript.Word{
		{Text: "hello", Start: 0.0, End: 0.5},
		{Text: "there", Start: 0.6, End: 1.0},
		// 1.5s pause
		{Text: "again", Start: 2.5, End: 3.0},
	}
	spans := []align.KeepSpan{{Line: 1, Start: 0, End: 3.0}}
	cues := BuildCues(spans, map[int]string{1: "hello there again"}, words, subtitleConfig())
	if len(cues) != 2 {
		t.Fatalf("cues = %d, want 2 (split at pause): %+v", len(cues), cues)
	}
	if cues[0].End != cues[1].Start {
		t.Errorf("pause split not contiguous: %+v", cues)
	}
	boundary := cues[0].End
	if boundary <= 1.0 || boundary >= 2.5 {
		t.Errorf("split boundary %g should fall inside the pause", boundary)
	}
}

func TestBuildCuesEnforcesCharLimit(t *testing.T) {
	cfg := subtitleConfig()
	cfg.MaxSegmentChars = 10
	spans := []align.KeepSpan{{Line: 1, Start: 0, End: 4.0}}
	cues := BuildCues(spans, map[int]string{1: strings.Repeat("字", 25)}, nil, cfg)
	if len(cues) < 3 {
		t.Fatalf("expected char-limit split, got %d cues", len(cues))
	}
	for _, cue := range cues {
		if len([]rune(cue.Text)) > 10 {
			t.Errorf("cue exceeds char limit: %q", cue.Text)
		}
	}
}

func TestWriteSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.srt")
	cues := []Cue{
		{Start: 1.0, End: 2.5, Text: "first cue"},
		{Start: 3.0, End: 4.0, Text: "second cue"},
	}
	if err := WriteSRT(path, cues); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}
	data, _ := os.ReadFile(path)
	content := string(data)
	if !strings.Contains(content, "1\n00:00:01,000 --> 00:00:02,500\nfirst cue\n") {
		t.Errorf("srt content:\n%s", content)
	}
	if !strings.Contains(content, "2\n00:00:03,000 --> 00:00:04,000\nsecond cue\n") {
		t.Errorf("srt content:\n%s", content)
	}
}

func TestWriteVTT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vtt")
	cues := []Cue{{Start: 0.5, End: 2.0, Text: "cue text"}}
	if err := WriteVTT(path, cues); err != nil {
		t.Fatalf("WriteVTT: %v", err)
	}
	data, _ := os.ReadFile(path)
	content := string(data)
	if !strings.HasPrefix(content, "WEBVTT\n") {
		t.Errorf("missing WEBVTT header:\n%s", content)
	}
	if !strings.Contains(content, "00:00:00.500 --> 00:00:02.000\ncue text\n") {
		t.Errorf("vtt content:\n%s", content)
	}
}

func TestWritePlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	spans := []align.KeepSpan{{Line: 1}, {Line: 3}}
	lineText := map[int]string{1: "第一句。", 3: "第三句。"}
	if err := WritePlainText(path, spans, lineText); err != nil {
		t.Fatalf("WritePlainText: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "第一句。\n第三句。\n" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.csv")
	spans := []align.KeepSpan{{Line: 12, Start: 1.5, End: 4.25}}
	if err := WriteMarkers(path, spans, map[int]string{12: "line twelve"}); err != nil {
		t.Fatalf("WriteMarkers: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3 markers", len(rows))
	}
	header := rows[0]
	want := []string{"Name", "Start", "Duration", "Time Format", "Type", "Description"}
	for i := range want {
		if header[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], want[i])
		}
	}
	if rows[1][0] != "L012 start" || rows[1][1] != "1.500" {
		t.Errorf("start marker = %v", rows[1])
	}
	if rows[2][0] != "L012 end" || rows[2][1] != "4.250" {
		t.Errorf("end marker = %v", rows[2])
	}
	if rows[3][0] != "L012" || rows[3][2] != "2.750" || rows[3][5] != "line twelve" {
		t.Errorf("region marker = %v", rows[3])
	}
}
