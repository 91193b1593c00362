package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"scriptcut/internal/align"
	"scriptcut/internal/fileutil"
)

// markerTimeFormat is the Time Format column value for decimal seconds in
// the DAW marker import convention.
const markerTimeFormat = "decimal"

// WriteMarkers writes one start, one end, and one region marker per kept
// line using the Audition-style CSV marker schema: Name, Start, Duration,
// Time Format, Type, Description.
func WriteMarkers(path string, spans []align.KeepSpan, lineText map[int]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Name", "Start", "Duration", "Time Format", "Type", "Description"}); err != nil {
		return fmt.Errorf("write marker header: %w", err)
	}
	for _, span := range spans {
		description := lineText[span.Line]
		rows := [][]string{
			{
				fmt.Sprintf("L%03d start", span.Line),
				formatSeconds(span.Start),
				formatSeconds(0),
				markerTimeFormat,
				"Cue",
				"",
			},
			{
				fmt.Sprintf("L%03d end", span.Line),
				formatSeconds(span.End),
				formatSeconds(0),
				markerTimeFormat,
				"Cue",
				"",
			},
			{
				fmt.Sprintf("L%03d", span.Line),
				formatSeconds(span.Start),
				formatSeconds(span.End - span.Start),
				markerTimeFormat,
				"Cue",
				description,
			},
		}
		for _, row := range rows {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write marker row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush markers: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}
