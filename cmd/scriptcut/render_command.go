package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scriptcut/internal/edl"
	"scriptcut/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var audioPath string
	var outputPath string
	var crossfade bool
	var loudnorm bool
	var tighten bool

	cmd := &cobra.Command{
		Use:   "render <document.edl.json>",
		Short: "Conform the source audio to a persisted edit decision list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			edlPath := args[0]
			doc, err := edl.Load(edlPath)
			if err != nil {
				return err
			}
			if audioPath != "" {
				doc.SourceAudio = audioPath
			}
			if outputPath == "" {
				outputPath = defaultRenderOutput(edlPath)
			}

			renderer := render.New(cfg.Render, cfg.EDL, logger)
			result, err := renderer.Render(cmd.Context(), doc, edlPath, outputPath, render.Options{
				Crossfade:         crossfade,
				Loudnorm:          loudnorm || cfg.Render.Loudnorm,
				TightenSilences:   tighten,
				ConfigFingerprint: cfg.Fingerprint(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %s\n", result.OutputPath)
			fmt.Fprintf(out, "  source:  %s\n", result.SourceAudio)
			fmt.Fprintf(out, "  planned: %.3fs\n", result.PlannedDuration)
			if result.ActualDuration > 0 {
				fmt.Fprintf(out, "  actual:  %.3fs\n", result.ActualDuration)
			}
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", warning)
			}
			ctx.noteWarnings(len(result.Warnings))
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "Source audio path, overrides the document's source_audio")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Conformed audio path (default: <stem>.cut.wav next to the document)")
	cmd.Flags().BoolVar(&crossfade, "crossfade", false, "Join segments with the configured crossfade instead of hard cuts")
	cmd.Flags().BoolVar(&loudnorm, "loudnorm", false, "Append loudness normalization to the render graph")
	cmd.Flags().BoolVar(&tighten, "tighten", false, "Keep a short breathing gap where an over-long silence was cut")
	return cmd
}

func defaultRenderOutput(edlPath string) string {
	name := filepath.Base(edlPath)
	stem := strings.TrimSuffix(name, ".edl.json")
	if stem == name {
		stem = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return filepath.Join(filepath.Dir(edlPath), stem+".cut.wav")
}
