package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptcut/internal/job"
	"scriptcut/internal/runlog"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var stem string
	var sourceAudio string
	var aggressiveness int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "align <transcript.json> <script.txt>",
		Short: "Align a transcript against its reference script and write the cut artifacts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("aggressiveness") {
				cfg.Alignment.Aggressiveness = aggressiveness
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			if outputDir == "" {
				outputDir = cfg.Paths.OutputDir
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
			summary, err := runner.Run(cmd.Context(), job.Request{
				TranscriptPath: args[0],
				ScriptPath:     args[1],
				OutputDir:      outputDir,
				Stem:           stem,
				SourceAudio:    sourceAudio,
				DryRun:         dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			job.WriteSummaryTable(out, []*job.Summary{summary})
			job.WriteWarnings(out, []*job.Summary{summary})
			if dryRun {
				fmt.Fprintln(out, "Dry run: no files were written")
			} else {
				for _, path := range summary.OutputFiles {
					fmt.Fprintf(out, "  wrote %s\n", path)
				}
			}
			ctx.noteWarnings(len(summary.Warnings))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the cut artifacts (default: configured output_dir)")
	cmd.Flags().StringVar(&stem, "stem", "", "Output file stem (default: transcript filename)")
	cmd.Flags().StringVar(&sourceAudio, "audio", "", "Source audio path recorded in the edit decision list")
	cmd.Flags().IntVarP(&aggressiveness, "aggressiveness", "a", 0, "Match tolerance 0-100, overrides the configured value")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute and report the alignment without writing files")
	return cmd
}
