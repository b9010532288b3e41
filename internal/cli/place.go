package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paperjot/inkwell/pkg/canvas"
	"github.com/paperjot/inkwell/pkg/geom"
	"github.com/paperjot/inkwell/pkg/place"
)

// placeCommand creates the place command for choosing a response rectangle.
func (c *CLI) placeCommand() *cobra.Command {
	var (
		output string
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "place [metadata.json]",
		Short: "Choose a placement rectangle from canvas metadata",
		Long: `Choose a placement rectangle from canvas metadata.

The place command takes a metadata.json file (produced by 'analyze') and
picks the rectangle where new content should be written: anchored near the
recent writing when possible, falling back through empty regions to a forced
degraded placement. The output records the chosen rect and the reasoning
trace behind it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd.Context(), args[0], output, width, height)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().Float64Var(&width, "width", 0, "content width (default: configured value)")
	cmd.Flags().Float64Var(&height, "height", 0, "content height (default: configured value)")

	return cmd
}

// runPlace loads the metadata, solves for a placement, and writes it as JSON.
func (c *CLI) runPlace(ctx context.Context, input, output string, width, height float64) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if width <= 0 {
		width = cfg.Layout.ContentWidth
	}
	if height <= 0 {
		height = cfg.Layout.ContentHeight
	}

	meta, err := readMetadata(input)
	if err != nil {
		return fmt.Errorf("load metadata %s: %w", input, err)
	}
	logger.Infof("Loaded metadata: %d occupied, %d empty regions",
		len(meta.OccupiedRegions), len(meta.EmptyRegions))

	p := newProgress(logger)
	placement := place.New(cfg.Layout).Solve(meta, geom.Point{X: width, Y: height})
	p.done(fmt.Sprintf("Placed %gx%g content at (%g, %g)",
		width, height, placement.Rect.X, placement.Rect.Y))

	if err := writeJSON(placement, output); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if output != "" {
		if placement.Degraded {
			printWarning("Placement overlaps existing ink (forced fallback)")
		} else {
			printSuccess("Placement complete")
		}
		printFile(output)
		printDetail("%s", placement.Reasoning)
	}
	return nil
}

// readMetadata loads a canvas metadata file written by the analyze command.
func readMetadata(path string) (canvas.Metadata, error) {
	var meta canvas.Metadata
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}
