package export

import (
	"strings"
	"unicode"

	"scriptcut/internal/align"
	"scriptcut/internal/config"
	"scriptcut/internal/transcript"
)

// Cue is one timed subtitle block.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// BuildCues converts keep spans into subtitle cues. Spans are first cut at
// intra-span pauses observed in the word stream, then pieces exceeding the
// duration limit are subdivided evenly; finally the line text is distributed
// across the pieces proportionally by duration, respecting the character
// limit.
func BuildCues(spans []align.KeepSpan, lineText map[int]string, words []transcript.Word, cfg config.Subtitles) []Cue {
	var cues []Cue
	for _, span := range spans {
		text := strings.TrimSpace(lineText[span.Line])
		if text == "" || span.End <= span.Start {
			continue
		}
		pieces := splitSpanTimes(span, words, cfg)
		cues = append(cues, distributeText(text, pieces, cfg.MaxSegmentChars)...)
	}
	return cues
}

type timeRange struct {
	start float64
	end   float64
}

// splitSpanTimes cuts a span at word gaps of at least the pause threshold,
// then subdivides any piece still longer than the duration limit.
func splitSpanTimes(span align.KeepSpan, words []transcript.Word, cfg config.Subtitles) []timeRange {
	var inSpan []transcript.Word
	for _, word := range words {
		if word.Start >= span.Start && word.End <= span.End {
			inSpan = append(inSpan, word)
		}
	}

	ranges := []timeRange{{start: span.Start, end: span.End}}
	if cfg.PauseBreakSeconds > 0 && len(inSpan) > 1 {
		ranges = ranges[:0]
		cursor := span.Start
		for i := 1; i < len(inSpan); i++ {
			gap := inSpan[i].Start - inSpan[i-1].End
			if gap >= cfg.PauseBreakSeconds {
				cut := inSpan[i-1].End + gap/2
				ranges = append(ranges, timeRange{start: cursor, end: cut})
				cursor = cut
			}
		}
		ranges = append(ranges, timeRange{start: cursor, end: span.End})
	}

	var out []timeRange
	for _, r := range ranges {
		duration := r.end - r.start
		if duration <= cfg.MaxSegmentSeconds {
			out = append(out, r)
			continue
		}
		parts := int(duration/cfg.MaxSegmentSeconds) + 1
		step := duration / float64(parts)
		for i := 0; i < parts; i++ {
			end := r.start + float64(i+1)*step
			if i == parts-1 {
				end = r.end
			}
			out = append(out, timeRange{start: r.start + float64(i)*step, end: end})
		}
	}
	return out
}

// distributeText splits text across the time pieces proportionally by
// duration, then enforces the character limit by further even subdivision.
func distributeText(text string, pieces []timeRange, maxChars int) []Cue {
	runes := []rune(text)
	var total float64
	for _, piece := range pieces {
		total += piece.end - piece.start
	}
	if total <= 0 || len(runes) == 0 {
		return nil
	}

	var cues []Cue
	offset := 0
	for i, piece := range pieces {
		var take int
		if i == len(pieces)-1 {
			take = len(runes) - offset
		} else {
			ideal := int(float64(len(runes)) * (piece.end - piece.start) / total)
			take = nearestBreak(runes, offset, ideal)
		}
		if take <= 0 {
			continue
		}
		chunk := strings.TrimSpace(string(runes[offset : offset+take]))
		offset += take
		if chunk == "" {
			continue
		}
		cues = append(cues, splitByChars(chunk, piece, maxChars)...)
	}
	return cues
}

// nearestBreak nudges an ideal split length toward the closest whitespace so
// latin words are not cut mid-word. CJK text has no spaces and splits at the
// exact position.
func nearestBreak(runes []rune, offset, ideal int) int {
	if ideal <= 0 {
		return 1
	}
	if offset+ideal >= len(runes) {
		return len(runes) - offset
	}
	const window = 8
	for delta := 0; delta <= window; delta++ {
		for _, candidate := range []int{ideal + delta, ideal - delta} {
			if candidate <= 0 || offset+candidate >= len(runes) {
				continue
			}
			if unicode.IsSpace(runes[offset+candidate]) {
				return candidate
			}
		}
	}
	return ideal
}

// splitByChars subdivides a cue whose text exceeds maxChars, dividing its
// time range evenly across the sub-cues.
func splitByChars(text string, piece timeRange, maxChars int) []Cue {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return []Cue{{Start: piece.start, End: piece.end, Text: text}}
	}
	parts := (len(runes) + maxChars - 1) / maxChars
	per := (len(runes) + parts - 1) / parts
	duration := piece.end - piece.start
	var cues []Cue
	for i := 0; i < parts; i++ {
		lo := i * per
		hi := lo + per
		if hi > len(runes) {
			hi = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[lo:hi]))
		if chunk == "" {
			continue
		}
		cues = append(cues, Cue{
			Start: piece.start + duration*float64(i)/float64(parts),
			End:   piece.start + duration*float64(i+1)/float64(parts),
			Text:  chunk,
		})
	}
	return cues
}
