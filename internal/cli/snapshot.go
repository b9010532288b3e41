package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/paperjot/inkwell/pkg/pipeline"
)

// snapshotCommand creates the snapshot command for rasterizing a canvas.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		maxEdge int
		regions bool
		recent  int
	)

	cmd := &cobra.Command{
		Use:   "snapshot [strokes.json]",
		Short: "Render a stroke file to a PNG canvas image",
		Long: `Render a stroke file to a PNG canvas image.

The snapshot command draws the strokes on a white canvas the way the
reasoning service sees them: recent strokes are tinted, and --regions adds
the occupied/empty region overlay for layout debugging. The long image edge
is bounded by --max-edge.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				RecentCount: recent,
				MaxEdge:     maxEdge,
				ShowRegions: regions,
			}
			return c.runSnapshot(cmd.Context(), args[0], output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.png)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&maxEdge, "max-edge", 0, "bound on the longer image edge (default: configured value)")
	cmd.Flags().BoolVar(&regions, "regions", false, "overlay occupied and empty regions")
	cmd.Flags().IntVar(&recent, "recent", 0, "trailing strokes treated as recent (default: configured value)")

	return cmd
}

// runSnapshot loads the strokes, renders the PNG, and writes it out.
func (c *CLI) runSnapshot(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	strokes, err := readStrokes(input)
	if err != nil {
		return fmt.Errorf("load strokes %s: %w", input, err)
	}
	logger.Infof("Loaded %d strokes", len(strokes))

	runner, err := c.newRunner(cfg, nil, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	meta := runner.Analyze(strokes, opts)

	spinner := newSpinnerWithContext(ctx, "Rendering snapshot...")
	spinner.Start()

	data, cacheHit, err := runner.SnapshotWithCacheInfo(ctx, pipeline.HashStrokes(strokes), meta, strokes, opts)
	if err != nil {
		spinner.StopWithError("Snapshot failed")
		return fmt.Errorf("render snapshot: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		if input == "-" {
			outputPath = "canvas.png"
		} else {
			outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
		}
	}

	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Snapshot complete")
	printFile(outputPath)
	printStats(len(strokes), len(meta.EmptyRegions), cacheHit)
	return nil
}
