package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"scriptcut/internal/services"
)

// rawWord covers every word-level key variant in the recognized schemas.
// "word" and "text" name the token, "score" and "probability" name the
// confidence, depending on the producing engine.
type rawWord struct {
	Word        string   `json:"word"`
	Text        string   `json:"text"`
	Start       *float64 `json:"start"`
	End         *float64 `json:"end"`
	Score       *float64 `json:"score"`
	Probability *float64 `json:"probability"`
	Type        string   `json:"type"`
}

type rawSegment struct {
	Text  string    `json:"text"`
	Start *float64  `json:"start"`
	End   *float64  `json:"end"`
	Words []rawWord `json:"words"`
}

type rawPayload struct {
	Language string          `json:"language"`
	Model    string          `json:"model"`
	Segments json.RawMessage `json:"segments"`
	Words    json.RawMessage `json:"words"`
}

// schemaVariant extracts words from a structurally-probed payload layout.
type schemaVariant struct {
	name    string
	matches func(p *rawPayload) bool
	extract func(p *rawPayload, doc *Document) error
}

// variants is the closed set of recognized transcript layouts, probed in
// order. First match wins.
var variants = []schemaVariant{
	{
		name:    "nested_segments",
		matches: func(p *rawPayload) bool { return len(p.Segments) > 0 },
		extract: extractNestedSegments,
	},
	{
		name:    "flat_words",
		matches: func(p *rawPayload) bool { return len(p.Words) > 0 },
		extract: extractFlatWords,
	},
}

// Load reads and parses a transcript document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "load", "read transcript", path, err)
	}
	return Parse(data)
}

// Parse decodes transcript JSON in any recognized layout. An unrecognized
// layout or a document yielding zero usable tokens is an input error.
func Parse(data []byte) (*Document, error) {
	var payload rawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, services.Wrap(services.ErrInput, "load", "parse transcript", "malformed JSON", err)
	}

	doc := &Document{
		Model:    payload.Model,
		Language: payload.Language,
	}

	matched := false
	for _, variant := range variants {
		if !variant.matches(&payload) {
			continue
		}
		matched = true
		if err := variant.extract(&payload, doc); err != nil {
			return nil, services.Wrap(services.ErrInput, "load", "extract words",
				fmt.Sprintf("layout %s", variant.name), err)
		}
		break
	}
	if !matched {
		return nil, services.Wrap(services.ErrInput, "load", "probe layout",
			"no recognized word or segment structure", nil)
	}
	if len(doc.Words) == 0 {
		return nil, services.Wrap(services.ErrInput, "load", "extract words",
			"no tokens with usable timestamps", nil)
	}
	return doc, nil
}

func extractNestedSegments(p *rawPayload, doc *Document) error {
	var segments []rawSegment
	if err := json.Unmarshal(p.Segments, &segments); err != nil {
		return err
	}
	for idx, segment := range segments {
		for _, rw := range segment.Words {
			appendWord(doc, rw, idx)
		}
	}
	return nil
}

func extractFlatWords(p *rawPayload, doc *Document) error {
	var words []rawWord
	if err := json.Unmarshal(p.Words, &words); err != nil {
		return err
	}
	for _, rw := range words {
		// Flat layouts may interleave non-word tokens (spacing, audio
		// events); only typed word entries and untyped entries count.
		if rw.Type != "" && rw.Type != "word" {
			continue
		}
		appendWord(doc, rw, 0)
	}
	return nil
}

func appendWord(doc *Document, rw rawWord, segment int) {
	text := strings.TrimSpace(rw.Word)
	if text == "" {
		text = strings.TrimSpace(rw.Text)
	}
	if text == "" {
		doc.DroppedWords++
		return
	}
	if rw.Start == nil || rw.End == nil || *rw.Start < 0 || *rw.End < *rw.Start {
		doc.DroppedWords++
		return
	}
	confidence := 0.0
	if rw.Score != nil {
		confidence = *rw.Score
	} else if rw.Probability != nil {
		confidence = *rw.Probability
	}
	doc.Words = append(doc.Words, Word{
		Text:       text,
		Start:      *rw.Start,
		End:        *rw.End,
		Confidence: confidence,
		Segment:    segment,
	})
}
