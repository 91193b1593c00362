package transcript

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"scriptcut/internal/services"
)

func TestParseNestedSegments(t *testing.T) {
	data := []byte(`{
		"language": "zh",
		"segments": [
			{"text": "打开门", "start": 1.0, "end": 1.5, "words": [
				{"word": "打", "start": 1.0, "end": 1.2, "score": 0.98},
				{"word": "开", "start": 1.2, "end": 1.35},
				{"word": "门", "start": 1.35, "end": 1.5}
			]},
			{"text": "again", "start": 3.0, "end": 3.6, "words": [
				{"word": "打", "start": 3.0, "end": 3.2},
				{"word": "开", "start": 3.2, "end": 3.4},
				{"word": "门", "start": 3.4, "end": 3.6}
			]}
		]
	}`)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Words) != 6 {
		t.Fatalf("words = %d, want 6", len(doc.Words))
	}
	if doc.Language != "zh" {
		t.Errorf("language = %q", doc.Language)
	}
	if doc.Words[0].Confidence != 0.98 {
		t.Errorf("confidence = %f", doc.Words[0].Confidence)
	}
	if doc.Words[3].Segment != 1 {
		t.Errorf("segment index = %d, want 1", doc.Words[3].Segment)
	}
	if math.Abs(doc.TotalDuration()-3.6) > 1e-9 {
		t.Errorf("total duration = %f", doc.TotalDuration())
	}
}

func TestParseFlatWordsWithTextKey(t *testing.T) {
	data := []byte(`{
		"words": [
			{"text": "open", "start": 0.5, "end": 0.9, "type": "word"},
			{"text": " ", "start": 0.9, "end": 1.0, "type": "spacing"},
			{"text": "the", "start": 1.0, "end": 1.2, "type": "word"},
			{"text": "door", "start": 1.2, "end": 1.6, "type": "word"}
		]
	}`)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Words) != 3 {
		t.Fatalf("words = %d, want 3 (spacing skipped)", len(doc.Words))
	}
	if doc.Words[2].Text != "door" {
		t.Errorf("word 2 = %q", doc.Words[2].Text)
	}
}

func TestParseDropsInvalidTimestamps(t *testing.T) {
	data := []byte(`{
		"words": [
			{"word": "good", "start": 1.0, "end": 1.4},
			{"word": "backwards", "start": 2.0, "end": 1.0},
			{"word": "missing"},
			{"word": "negative", "start": -1.0, "end": 0.5}
		]
	}`)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Words) != 1 {
		t.Fatalf("words = %d, want 1", len(doc.Words))
	}
	if doc.DroppedWords != 3 {
		t.Errorf("dropped = %d, want 3", doc.DroppedWords)
	}
}

func TestParseUnrecognizedLayout(t *testing.T) {
	_, err := Parse([]byte(`{"transcription": "hello world"}`))
	if err == nil {
		t.Fatal("expected input error")
	}
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestParseAllTokensInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"words": [{"word": "x"}, {"word": "y"}]}`))
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput when nothing usable survives, got %v", err)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"words": [`))
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")
	content := `{"segments": [{"words": [{"word": "hi", "start": 0.0, "end": 0.3}]}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Words) != 1 || doc.Words[0].Text != "hi" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("expected ErrInput, got %v", err)
	}
}

func TestParseTolerantOfOutOfOrderTimestamps(t *testing.T) {
	data := []byte(`{
		"words": [
			{"word": "later", "start": 5.0, "end": 5.5},
			{"word": "earlier", "start": 1.0, "end": 1.5}
		]
	}`)
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Words) != 2 {
		t.Fatalf("out-of-order words must be kept, got %d", len(doc.Words))
	}
	if doc.TotalDuration() != 5.5 {
		t.Errorf("total duration = %f, want 5.5", doc.TotalDuration())
	}
}
