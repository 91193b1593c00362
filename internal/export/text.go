package export

import (
	"strings"

	"scriptcut/internal/align"
	"scriptcut/internal/fileutil"
)

// WritePlainText writes the retained line text, one line per kept span, in
// line order.
func WritePlainText(path string, spans []align.KeepSpan, lineText map[int]string) error {
	var sb strings.Builder
	for _, span := range spans {
		text := strings.TrimSpace(lineText[span.Line])
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return fileutil.WriteFileAtomic(path, []byte(sb.String()), 0o644)
}
