package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptcut/internal/job"
	"scriptcut/internal/runlog"
	"scriptcut/internal/services"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var workers int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Align every transcript/script pair in a directory",
		Long: `Scans a directory for transcript JSON files with a sibling reference
script of the same stem (chapter01.json + chapter01.txt) and processes each
pair with a bounded worker pool. A failing chapter is reported but does not
stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Batch.Workers = workers
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
			}

			pairs, err := job.DiscoverPairs(args[0])
			if err != nil {
				return err
			}

			var store *runlog.Store
			if !dryRun {
				release, err := job.LockOutputDir(outputDir)
				if err != nil {
					return err
				}
				defer release()

				store, err = ctx.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
			}

			runner := job.NewRunner(cfg, logger, store)
			outcomes := runner.Batch(cmd.Context(), pairs, outputDir, dryRun)

			out := cmd.OutOrStdout()
			var summaries []*job.Summary
			var failures int
			for _, outcome := range outcomes {
				if outcome.Err != nil {
					failures++
					fmt.Fprintf(out, "  %s: failed: %v\n", outcome.Stem, outcome.Err)
					continue
				}
				summaries = append(summaries, outcome.Summary)
				ctx.noteWarnings(len(outcome.Summary.Warnings))
			}
			job.WriteSummaryTable(out, summaries)
			job.WriteWarnings(out, summaries)

			if failures > 0 {
				return services.Wrap(services.ErrInput, "batch", "run",
					fmt.Sprintf("%d of %d chapters failed", failures, len(outcomes)), nil)
			}
			if dryRun {
				fmt.Fprintln(out, "Dry run: no files were written")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the cut artifacts (default: configured output_dir)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent chapters, overrides the configured value")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and report each alignment without writing files")
	return cmd
}
