package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperjot/inkwell/pkg/canvas"
)

// analyzeCommand creates the analyze command for computing canvas metadata.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		output string
		recent int
	)

	cmd := &cobra.Command{
		Use:   "analyze [strokes.json]",
		Short: "Compute canvas layout metadata from a stroke file",
		Long: `Compute canvas layout metadata from a stroke file.

The analyze command reads a stroke document (use "-" for stdin) and reports
the padded working area, per-stroke occupied regions, the recent writing
region, and the empty regions found by grid analysis. The output is a
metadata.json file consumable by the 'place' command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], output, recent)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&recent, "recent", 0, "trailing strokes treated as recent (default: configured value)")

	return cmd
}

// runAnalyze loads the strokes, analyzes the canvas, and writes metadata JSON.
func (c *CLI) runAnalyze(ctx context.Context, input, output string, recent int) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if recent <= 0 {
		recent = cfg.Session.RecentCount
	}

	strokes, err := readStrokes(input)
	if err != nil {
		return fmt.Errorf("load strokes %s: %w", input, err)
	}
	logger.Infof("Loaded %d strokes", len(strokes))

	p := newProgress(logger)
	meta := canvas.New(cfg.Layout).Analyze(strokes, recent)
	p.done(fmt.Sprintf("Analyzed canvas %gx%g", meta.CanvasSize.Width, meta.CanvasSize.Height))

	if err := writeJSON(meta, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if output != "" {
		printSuccess("Analysis complete")
		printFile(output)
		printStats(len(strokes), len(meta.EmptyRegions), false)
		printNewline()
		printNextStep("Place", "inkwell place "+output)
	}
	return nil
}
