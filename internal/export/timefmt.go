package export

import (
	"fmt"
	"math"
)

// formatTimestamp renders seconds as HH:MM:SS<sep>mmm, millisecond accurate.
// SRT separates milliseconds with a comma, WebVTT with a period.
func formatTimestamp(seconds float64, millisSep byte) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int(math.Round(seconds * 1000))
	hours := totalMillis / 3600000
	minutes := totalMillis % 3600000 / 60000
	secs := totalMillis % 60000 / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, millisSep, millis)
}

// formatSeconds renders seconds as a plain decimal with millisecond
// precision, the form the marker CSV uses.
func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.3f", seconds)
}
