package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/ink"
	"github.com/paperjot/inkwell/pkg/place"
)

// writeCommand creates the write command for synthesizing handwriting.
func (c *CLI) writeCommand() *cobra.Command {
	var (
		output   string
		originX  float64
		originY  float64
		maxWidth float64
		play     bool
	)

	cmd := &cobra.Command{
		Use:   "write [text]",
		Short: "Synthesize text into handwriting stroke groups",
		Long: `Synthesize text into handwriting stroke groups.

The write command converts text into vector-ink stroke groups using the
configured font: one group per character, wrapped at word boundaries within
the given width. The output is a group document in reveal order.

With --play, the groups are revealed in the terminal with the same timing
a canvas surface would use.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			return c.runWrite(cmd.Context(), text, output, geom.Point{X: originX, Y: originY}, maxWidth, play)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Float64Var(&originX, "x", 0, "left edge of the first line")
	cmd.Flags().Float64Var(&originY, "y", 0, "top edge of the first line")
	cmd.Flags().Float64Var(&maxWidth, "max-width", 0, "wrap width (default: configured content width)")
	cmd.Flags().BoolVar(&play, "play", false, "reveal the groups in the terminal with playback timing")

	return cmd
}

// runWrite synthesizes the text and either writes the group document or
// plays it back in the terminal.
func (c *CLI) runWrite(ctx context.Context, text, output string, origin geom.Point, maxWidth float64, play bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if maxWidth <= 0 {
		maxWidth = cfg.Layout.ContentWidth
	}

	runner, err := c.newRunner(cfg, nil, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(logger)
	groups := runner.Synthesize(text, place.Placement{
		Rect: geom.Rect{X: origin.X, Y: origin.Y, Width: maxWidth},
	})
	p.done(fmt.Sprintf("Synthesized %d groups", len(groups)))

	if play {
		if err := playGroups(ctx, cfg.Playback, text, groups); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		if output == "" {
			return nil
		}
	}

	doc := groupDocument{Text: text, Groups: groups}
	if err := writeJSON(doc, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if output != "" {
		printSuccess("Synthesis complete")
		printFile(output)
		printStats(countStrokes(groups), 0, false)
	}
	return nil
}

// countStrokes sums the visible strokes across groups.
func countStrokes(groups []ink.StrokeGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Strokes)
	}
	return n
}
