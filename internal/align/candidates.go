package align

import (
	"github.com/antzucaro/matchr"

	"scriptcut/internal/textnorm"
	"scriptcut/internal/transcript"
)

// candidate is one contiguous token run that matched a line above the active
// threshold. Token indices refer to the normalized stream; times come from
// the underlying words.
type candidate struct {
	firstToken int
	lastToken  int
	startTime  float64
	endTime    float64
	score      float64
}

// similarity is a character-level match ratio in [0,1] based on edit
// distance over the normalized sequences.
func similarity(line []rune, window []rune) float64 {
	if len(line) == 0 || len(window) == 0 {
		return 0
	}
	distance := matchr.Levenshtein(string(line), string(window))
	longest := len(line)
	if len(window) > longest {
		longest = len(window)
	}
	score := 1 - float64(distance)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}

// findCandidates scans the full stream for disjoint runs matching lineRunes
// at or above threshold. Windows sharing tokens describe the same utterance;
// each overlapping cluster contributes its single best window, so the
// returned candidates are disjoint and ordered by first token.
func (e *Engine) findCandidates(doc *transcript.Document, stream textnorm.Stream, lineRunes []rune, threshold float64) []candidate {
	tokens := stream.Tokens
	if len(tokens) == 0 {
		return nil
	}

	target := len(lineRunes)
	minRunes := target * 6 / 10
	if minRunes < 1 {
		minRunes = 1
	}
	maxRunes := target*14/10 + 1

	var passing []candidate
	for i := range tokens {
		best := candidate{firstToken: -1}
		runeCount := 0
		var window []rune
		for j := i; j < len(tokens); j++ {
			runeCount += len(tokens[j].Runes)
			window = append(window, tokens[j].Runes...)
			if runeCount > maxRunes {
				break
			}
			if runeCount < minRunes {
				continue
			}
			score := similarity(lineRunes, window)
			if score > best.score {
				best = candidate{firstToken: i, lastToken: j, score: score}
			}
		}
		if best.firstToken >= 0 && best.score >= threshold {
			first := doc.Words[tokens[best.firstToken].WordIndex]
			last := doc.Words[tokens[best.lastToken].WordIndex]
			best.startTime = first.Start
			best.endTime = last.End
			passing = append(passing, best)
		}
	}

	return collapseClusters(passing)
}

// collapseClusters reduces token-overlapping candidates to the best one per
// cluster. Candidates arrive ordered by firstToken.
func collapseClusters(passing []candidate) []candidate {
	var out []candidate
	for _, cand := range passing {
		if len(out) == 0 || cand.firstToken > out[len(out)-1].lastToken {
			out = append(out, cand)
			continue
		}
		tail := &out[len(out)-1]
		if betterWithinCluster(cand, *tail) {
			// Keep the cluster's widest token reach so later windows of the
			// same utterance still register as overlapping.
			if tail.lastToken > cand.lastToken {
				cand.lastToken = tail.lastToken
			}
			*tail = cand
		} else if cand.lastToken > tail.lastToken {
			tail.lastToken = cand.lastToken
		}
	}
	return out
}

// betterWithinCluster picks the representative window of one utterance:
// higher score wins, then the shorter (tighter) window.
func betterWithinCluster(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	return a.lastToken-a.firstToken < b.lastToken-b.firstToken
}

// preferred implements the retake selection rule: the later-starting passing
// run supersedes earlier ones. Runs ending at the same instant are
// distinguished by match ratio first, then by later start.
func preferred(a, b candidate) candidate {
	if a.endTime == b.endTime {
		if b.score > a.score {
			return b
		}
		if a.score > b.score {
			return a
		}
		if b.startTime > a.startTime {
			return b
		}
		return a
	}
	if b.startTime > a.startTime {
		return b
	}
	if b.startTime < a.startTime {
		return a
	}
	if b.score > a.score {
		return b
	}
	return a
}
