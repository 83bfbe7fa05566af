package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/surflabel/pkg/errors"
	"github.com/matzehuels/surflabel/pkg/label"
	"github.com/matzehuels/surflabel/pkg/pipeline"
	"github.com/matzehuels/surflabel/pkg/surfio"
)

// dilateOpts holds the flags of the dilate command.
type dilateOpts struct {
	distance float64
	output   string
	column   string
	pick     bool
	workers  int
	noCache  bool
	refresh  bool
	quiet    bool
}

// dilateCommand creates the dilate command.
func (c *CLI) dilateCommand() *cobra.Command {
	var opts dilateOpts

	cmd := &cobra.Command{
		Use:   "dilate <surface.json> <labels.json>",
		Short: "Grow labels into unlabeled vertices up to a geodesic distance",
		Long: `Dilate fills every unlabeled vertex that lies within --distance (mm,
measured along the surface) of a labeled vertex with the label of the
closest one. Vertices with no labeled vertex in range fall back to their
nearest labeled neighbor.

Each selected column is written to the output file as "<name> dilated".`,
		Example: `  surflabel dilate lh.white.json lh.aparc.json --distance 2 -o lh.aparc.dilated.json
  surflabel dilate lh.white.json lh.labels.json -d 1.5 --column 2
  surflabel dilate lh.white.json lh.labels.json -d 3 --pick`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("distance") {
				if c.Config.Dilate.Radius <= 0 {
					return errors.New(errors.ErrCodeInvalidArgument, "--distance is required")
				}
				opts.distance = c.Config.Dilate.Radius
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = c.Config.Dilate.Workers
			}
			return c.runDilate(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().Float64VarP(&opts.distance, "distance", "d", 0, "dilation distance in mm")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output label file (default: <labels>_dilated.json)")
	cmd.Flags().StringVarP(&opts.column, "column", "c", "", "dilate one column, by name or 1-based number")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the column interactively")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "goroutines per column (0 = CPU count)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "no spinner or summary table")
	cmd.MarkFlagsMutuallyExclusive("column", "pick")

	return cmd
}

func (c *CLI) runDilate(ctx context.Context, surfacePath, labelsPath string, opts dilateOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	surf, err := surfio.ReadSurfaceFile(surfacePath)
	if err != nil {
		return err
	}
	labels, err := surfio.ReadLabelsFile(labelsPath)
	if err != nil {
		return err
	}
	logger.Debug("loaded inputs",
		"vertices", surf.NumVertices(),
		"triangles", surf.NumTriangles(),
		"columns", labels.NumColumns())

	if opts.pick {
		sel, err := pickColumn(labels, nil, os.Stderr)
		if err != nil {
			return err
		}
		opts.column = sel.String()
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	po := pipeline.Options{
		Radius:  opts.distance,
		Column:  opts.column,
		Workers: opts.workers,
		Refresh: opts.refresh,
		Logger:  logger,
	}

	var spinner *Spinner
	if !opts.quiet {
		spinner = newSpinner(ctx, "Dilating labels...")
		po.Progress = spinner.Progress(outputNames(labels, po.Selector()))
		spinner.Start()
	}
	res, err := runner.Dilate(ctx, surf, labels, po)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = defaultOutputPath(labelsPath)
	}
	if err := surfio.WriteLabelsFile(res.Labels, output); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Dilated %d columns", len(res.Stats)))

	if opts.quiet {
		return nil
	}
	printSuccess("Dilated labels by %g mm", opts.distance)
	printRunSummary(surf.NumVertices(), len(res.Stats), res.CacheHit)
	printColumnStats(res.Stats)
	printFile(output)
	for _, st := range res.Stats {
		if st.Unassigned > 0 {
			printWarning("%s: %d vertices left unassigned", st.Column, st.Unassigned)
		}
	}
	return nil
}

// outputNames lists the output column names in the order the engine
// reports progress. An unresolvable selector yields nil; the run itself
// reports the error.
func outputNames(f *label.File, sel label.Selector) []string {
	idx, err := f.ColumnIndex(sel)
	if err != nil {
		return nil
	}
	if idx != label.AllColumnsIndex {
		return []string{f.ColumnName(idx)}
	}
	names := make([]string, f.NumColumns())
	for i := range names {
		names[i] = f.ColumnName(i)
	}
	return names
}

// defaultOutputPath derives "<dir>/<stem>_dilated.json" from the labels path.
func defaultOutputPath(labelsPath string) string {
	ext := filepath.Ext(labelsPath)
	stem := strings.TrimSuffix(labelsPath, ext)
	if ext == "" {
		ext = ".json"
	}
	return stem + "_dilated" + ext
}
