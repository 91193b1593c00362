package export

import (
	"fmt"
	"strings"

	"scriptcut/internal/fileutil"
)

// WriteSRT writes cues as a SubRip file.
func WriteSRT(path string, cues []Cue) error {
	var sb strings.Builder
	for i, cue := range cues {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", formatTimestamp(cue.Start, ','), formatTimestamp(cue.End, ','))
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return fileutil.WriteFileAtomic(path, []byte(sb.String()), 0o644)
}
