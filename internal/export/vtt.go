package export

import (
	"fmt"
	"strings"

	"scriptcut/internal/fileutil"
)

// WriteVTT writes cues as a WebVTT file.
func WriteVTT(path string, cues []Cue) error {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n")
	for _, cue := range cues {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s --> %s\n", formatTimestamp(cue.Start, '.'), formatTimestamp(cue.End, '.'))
		sb.WriteString(cue.Text)
		sb.WriteString("\n")
	}
	return fileutil.WriteFileAtomic(path, []byte(sb.String()), 0o644)
}
