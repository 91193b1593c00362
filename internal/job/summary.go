package job

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteSummaryTable renders one or more job summaries as a console table.
func WriteSummaryTable(w io.Writer, summaries []*Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Stem", "Matched", "Unmatched", "Retakes", "Kept", "Total", "Warnings", "Elapsed"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Matched", Align: text.AlignRight},
		{Name: "Unmatched", Align: text.AlignRight},
		{Name: "Retakes", Align: text.AlignRight},
		{Name: "Kept", Align: text.AlignRight},
		{Name: "Total", Align: text.AlignRight},
		{Name: "Warnings", Align: text.AlignRight},
	})
	for _, s := range summaries {
		if s == nil {
			continue
		}
		tw.AppendRow(table.Row{
			s.Stem,
			s.MatchedLines,
			len(s.UnmatchedLines),
			s.RetakesDropped,
			formatDuration(s.KeptDuration),
			formatDuration(s.TotalDuration),
			len(s.Warnings),
			s.Elapsed.Round(time.Millisecond),
		})
	}
	tw.Render()
}

// WriteWarnings lists per-line warnings beneath the table.
func WriteWarnings(w io.Writer, summaries []*Summary) {
	for _, s := range summaries {
		if s == nil {
			continue
		}
		for _, warning := range s.Warnings {
			fmt.Fprintf(w, "  %s: %s\n", s.Stem, warning)
		}
	}
}

func formatDuration(seconds float64) string {
	minutes := int(seconds) / 60
	return fmt.Sprintf("%d:%05.2f", minutes, seconds-float64(minutes*60))
}
