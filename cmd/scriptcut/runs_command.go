package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"scriptcut/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var stem string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent job history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var entries []runlog.Entry
			if stem != "" {
				entries, err = store.ForStem(cmd.Context(), stem)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(out)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Started", "Stem", "Status", "Matched", "Unmatched", "Retakes", "Warnings", "Took"})
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Name: "Matched", Align: text.AlignRight},
				{Name: "Unmatched", Align: text.AlignRight},
				{Name: "Retakes", Align: text.AlignRight},
				{Name: "Warnings", Align: text.AlignRight},
				{Name: "Took", Align: text.AlignRight},
			})
			for _, entry := range entries {
				tw.AppendRow(table.Row{
					entry.StartedAt.Local().Format("2006-01-02 15:04"),
					entry.Stem,
					entry.Status,
					entry.MatchedLines,
					entry.UnmatchedLines,
					entry.RetakesDropped,
					entry.Warnings,
					(time.Duration(entry.DurationMS) * time.Millisecond).Round(time.Millisecond),
				})
			}
			tw.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&stem, "stem", "", "Show every run for one stem")
	return cmd
}
