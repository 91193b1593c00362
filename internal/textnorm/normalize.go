package textnorm

import (
	"context"
	"log/slog"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"scriptcut/internal/config"
	"scriptcut/internal/transcript"
)

// Line is a reference script line in normalized form. Offsets maps each
// normalized rune back to the byte offset of its source rune in Raw.
type Line struct {
	Number  int
	Raw     string
	Runes   []rune
	Offsets []int
}

// Token is one transcript word in normalized form, tagged with the index of
// its source word so matched runs can recover timestamps.
type Token struct {
	WordIndex int
	Runes     []rune
}

// Stream is the filler-stripped, normalized token sequence for a transcript.
type Stream struct {
	Tokens []Token
	// FillersDropped counts tokens removed because they normalized to a
	// configured filler term.
	FillersDropped int
}

// Normalizer applies the canonicalization pipeline. It is read-only after
// construction and safe for concurrent use.
type Normalizer struct {
	converter Converter
	fillers   map[string]struct{}
	logger    *slog.Logger

	convertWarned bool
}

// New builds a Normalizer from configuration. converter may be nil to
// disable script conversion outright.
func New(cfg config.Alignment, converter Converter, logger *slog.Logger) *Normalizer {
	fillers := make(map[string]struct{}, len(cfg.FillerTerms))
	for _, term := range cfg.FillerTerms {
		folded := string(normalizeRunes(term))
		if folded != "" {
			fillers[folded] = struct{}{}
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		converter: converter,
		fillers:   fillers,
		logger:    logger.With("component", "normalize"),
	}
}

// NormalizeLine canonicalizes one reference line. When script conversion is
// active and preserves the rune count, offsets index into the original text;
// otherwise they index into the converted text stored in Raw.
func (n *Normalizer) NormalizeLine(ctx context.Context, number int, raw string) Line {
	text := n.convert(ctx, raw)
	runes, offsets := normalizeRunesWithOffsets(text)
	return Line{
		Number:  number,
		Raw:     text,
		Runes:   runes,
		Offsets: offsets,
	}
}

// NormalizeStream canonicalizes the transcript token stream, dropping tokens
// that normalize to nothing and tokens matching a configured filler term.
func (n *Normalizer) NormalizeStream(ctx context.Context, doc *transcript.Document) Stream {
	var stream Stream
	for i, word := range doc.Words {
		text := n.convert(ctx, word.Text)
		runes := normalizeRunes(text)
		if len(runes) == 0 {
			continue
		}
		if _, filler := n.fillers[string(runes)]; filler {
			stream.FillersDropped++
			continue
		}
		stream.Tokens = append(stream.Tokens, Token{WordIndex: i, Runes: runes})
	}
	return stream
}

func (n *Normalizer) convert(ctx context.Context, text string) string {
	if n.converter == nil || strings.TrimSpace(text) == "" {
		return text
	}
	converted, err := n.converter.Convert(ctx, text)
	if err != nil {
		if !n.convertWarned {
			n.logger.Warn("script conversion unavailable, step skipped", "error", err)
			n.convertWarned = true
		}
		return text
	}
	return converted
}

// normalizeRunes returns the comparable character sequence for s.
func normalizeRunes(s string) []rune {
	runes, _ := normalizeRunesWithOffsets(s)
	return runes
}

// normalizeRunesWithOffsets folds each rune of s and records the byte offset
// of the source rune for every rune that survives.
func normalizeRunesWithOffsets(s string) ([]rune, []int) {
	var runes []rune
	var offsets []int
	for offset, r := range s {
		folded, keep := foldRune(r)
		if !keep {
			continue
		}
		runes = append(runes, folded)
		offsets = append(offsets, offset)
	}
	return runes, offsets
}

// foldRune unifies width, lowercases, and discards punctuation, symbols, and
// whitespace. The boolean reports whether the rune survives normalization.
func foldRune(r rune) (rune, bool) {
	if unicode.IsSpace(r) {
		return 0, false
	}
	narrowed := width.Fold.String(string(r))
	folded := r
	for _, fr := range narrowed {
		folded = fr
		break
	}
	if unicode.IsPunct(folded) || unicode.IsSymbol(folded) || unicode.IsControl(folded) {
		return 0, false
	}
	if unicode.IsSpace(folded) {
		return 0, false
	}
	return unicode.ToLower(folded), true
}
