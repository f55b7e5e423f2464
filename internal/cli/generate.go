package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/ingest"
	"github.com/matzehuels/truchet/pkg/pipeline"
	"github.com/matzehuels/truchet/pkg/placement"
	"github.com/matzehuels/truchet/pkg/tile"
)

// stdoutName is the --output value that writes to standard output.
const stdoutName = "-"

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output      string
	formats     string
	gridSize    int
	shape       string
	rotation    string
	sigma       float64
	tileSize    int
	seed        uint64
	background  string
	stroke      string
	strokeWidth float64
	useLibrary  bool
	watch       bool
	noCache     bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	defaults := placement.DefaultParams()
	opts := generateOpts{
		gridSize: defaults.GridSize,
		shape:    string(defaults.Shape),
		rotation: string(defaults.Rotation),
		sigma:    defaults.Sigma,
		tileSize: defaults.TileSize,
	}

	cmd := &cobra.Command{
		Use:   "generate [files|dirs...]",
		Short: "Compose SVG tiles into a Truchet pattern",
		Long: `Compose SVG tiles into a Truchet pattern.

Tiles come from the given files and directories, or from the tile library with
--library. Every cell of the grid gets one tile, chosen according to --shape and
the tiles' busyness, and rotated according to --rotation.

Shapes:
  random       every tile equally likely
  circle       busy tiles in the center, calm tiles toward the corners
  gradient     busy tiles at the top, calm tiles at the bottom
  exponential  a band of busy tiles that widens row by row

Flags override the [generate] section of the config file.`,
		Example: `  truchet generate tiles/ --grid 16 --shape circle --sigma 0.2
  truchet generate --library -f svg,json -o pattern
  truchet generate tiles/ --seed 7 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			po, output, err := c.pipelineOptions(cmd, &opts)
			if err != nil {
				return err
			}
			if opts.watch && (opts.useLibrary || len(args) == 0) {
				return errors.New(errors.ErrCodeInvalidInput, "--watch needs file or directory arguments")
			}
			if err := checkOutput(output, po.Formats); err != nil {
				return err
			}
			if output == stdoutName {
				prev := statusOut
				statusOut = os.Stderr
				defer func() { statusOut = prev }()
			}

			runner := c.newRunner(cmd.Context(), opts.noCache)
			defer runner.Close()

			if err := c.runGenerate(cmd.Context(), runner, args, opts.useLibrary, output, po); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return c.watchAndGenerate(cmd.Context(), runner, args, output, po)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", `output file, or base name for several formats; "-" for stdout (default "truchet_tiles.svg")`)
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, pdf (comma-separated)")
	f.IntVarP(&opts.gridSize, "grid", "g", opts.gridSize, fmt.Sprintf("grid size (%d-%d cells per side)", placement.MinGridSize, placement.MaxGridSize))
	f.StringVar(&opts.shape, "shape", opts.shape, "distribution: "+joinNames(placement.Shapes))
	f.StringVar(&opts.rotation, "rotation", opts.rotation, "rotation: "+joinNames(placement.Rotations))
	f.Float64Var(&opts.sigma, "sigma", opts.sigma, "spread of the distribution, in (0, 1]")
	f.IntVar(&opts.tileSize, "tile-size", opts.tileSize, "side length of one tile in output units")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed for a reproducible pattern (default: random)")
	f.StringVar(&opts.background, "background", "", "background color")
	f.StringVar(&opts.stroke, "stroke", "", "stroke color for tile outlines")
	f.Float64Var(&opts.strokeWidth, "stroke-width", 0, "stroke width")
	f.BoolVar(&opts.useLibrary, "library", false, "use the tile library instead of file arguments")
	f.BoolVarP(&opts.watch, "watch", "w", false, "regenerate when the tile directories change")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// pipelineOptions merges the config file with explicitly set flags.
func (c *CLI) pipelineOptions(cmd *cobra.Command, opts *generateOpts) (pipeline.Options, string, error) {
	g := c.Config.Generate
	po := pipeline.Options{
		Params:      c.Config.Params(),
		Formats:     g.Formats,
		Background:  g.Background,
		Stroke:      g.Stroke,
		StrokeWidth: g.StrokeWidth,
		NoCache:     opts.noCache,
		Logger:      c.Logger,
	}
	if g.Seed != nil {
		po.Seed, po.FixedSeed = *g.Seed, true
	}
	output := g.Output

	changed := cmd.Flags().Changed
	if changed("grid") {
		po.Params.GridSize = opts.gridSize
	}
	if changed("shape") {
		po.Params.Shape = placement.Shape(opts.shape)
	}
	if changed("rotation") {
		po.Params.Rotation = placement.Rotation(opts.rotation)
	}
	if changed("sigma") {
		po.Params.Sigma = opts.sigma
	}
	if changed("tile-size") {
		po.Params.TileSize = opts.tileSize
	}
	if changed("seed") {
		po.Seed, po.FixedSeed = opts.seed, true
	}
	if changed("format") {
		po.Formats = pipeline.ParseFormats(opts.formats)
	}
	if changed("background") {
		po.Background = opts.background
	}
	if changed("stroke") {
		po.Stroke = opts.stroke
	}
	if changed("stroke-width") {
		po.StrokeWidth = opts.strokeWidth
	}
	if changed("output") {
		output = opts.output
	}

	if err := po.ValidateAndSetDefaults(); err != nil {
		return po, "", err
	}
	return po, output, nil
}

// checkOutput refuses combinations that cannot be written.
func checkOutput(output string, formats []string) error {
	if output != stdoutName {
		return nil
	}
	if len(formats) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "only one format can be written to stdout")
	}
	if formats[0] == pipeline.FormatPDF && term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrCodeInvalidInput, "refusing to write PDF to a terminal; redirect stdout or use -o")
	}
	return nil
}

// runGenerate loads tiles, runs the pipeline once and writes every artifact.
func (c *CLI) runGenerate(ctx context.Context, runner *pipeline.Runner, args []string, useLibrary bool, output string, po pipeline.Options) error {
	prog := newProgress(c.Logger)

	raws, err := c.loadTiles(ctx, args, useLibrary, outputSet(output, po.Formats))
	if err != nil {
		return err
	}

	result, err := runner.Execute(ctx, raws, po)
	if err != nil {
		return err
	}
	if result.Stats.EligibleCount == 0 {
		printWarning("No usable tiles; writing an empty pattern")
	}

	paths, err := writeArtifacts(output, po.Formats, result.Artifacts)
	if err != nil {
		return err
	}

	if output != stdoutName {
		printSuccess("Generated %s pattern", StyleNumber.Render(fmt.Sprintf("%d×%d", result.Plan.GridSize, result.Plan.GridSize)))
		printStats(result.Stats.EligibleCount, result.Stats.Excluded(), result.Stats.CellCount, result.CacheInfo.RenderHit)
		for _, p := range paths {
			printFile(p)
		}
		if !po.FixedSeed {
			printKeyValue("seed", fmt.Sprintf("%d (pass --seed %d to reproduce)", result.Seed, result.Seed))
		}
	}
	prog.done("Generation finished")
	return nil
}

// loadTiles reads tiles from the library or from file arguments. Files in
// exclude are left out.
func (c *CLI) loadTiles(ctx context.Context, args []string, useLibrary bool, exclude ingest.PathSet) ([]tile.RawTile, error) {
	if useLibrary {
		if len(args) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--library does not take file arguments")
		}
		store, err := c.openLibrary(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.List(ctx)
	}

	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no tiles: pass SVG files or directories, or use --library")
	}
	res, err := ingest.LoadExcept(exclude, args...)
	if err != nil {
		return nil, err
	}
	reportSkipped(c, res)
	return res.Tiles, nil
}

// reportSkipped warns about files that were not loaded.
func reportSkipped(c *CLI, res ingest.Result) {
	if res.SkippedNonSVG() {
		printWarning("Some files were not SVGs and have been ignored.")
	}
	for _, s := range res.Skipped {
		c.Logger.Debug("skipped file", "path", s.Path, "reason", errors.UserMessage(s.Err))
	}
}

// watchAndGenerate regenerates after each debounced change until ctx ends.
func (c *CLI) watchAndGenerate(ctx context.Context, runner *pipeline.Runner, args []string, output string, po pipeline.Options) error {
	dirs := watchDirs(args)
	printInfo("Watching %s for changes (Ctrl-C to stop)", strings.Join(dirs, ", "))

	return ingest.Watch(ctx, dirs, outputSet(output, po.Formats), ingest.DefaultDebounce, func() {
		c.Logger.Debug("change detected, regenerating")
		if err := c.runGenerate(ctx, runner, args, false, output, po); err != nil {
			printError("%s", errors.UserMessage(err))
		}
	})
}

// watchDirs maps arguments to the directories that contain them.
func watchDirs(args []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, a := range args {
		dir := a
		if info, err := os.Stat(a); err != nil || !info.IsDir() {
			dir = filepath.Dir(a)
		}
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// writeArtifacts writes each format to its output path and returns the
// paths written. With output "-" the single artifact goes to stdout.
func writeArtifacts(output string, formats []string, artifacts map[string][]byte) ([]string, error) {
	if output == stdoutName {
		_, err := os.Stdout.Write(artifacts[formats[0]])
		return nil, err
	}

	var paths []string
	for _, format := range formats {
		path := outputPath(output, format)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputSet holds the files a run writes, so they are never read back as
// tiles or treated as tile changes.
func outputSet(output string, formats []string) ingest.PathSet {
	if output == stdoutName {
		return nil
	}
	paths := make([]string, len(formats))
	for i, f := range formats {
		paths[i] = outputPath(output, f)
	}
	return ingest.NewPathSet(paths...)
}

// outputPath derives the file for one format. A known format extension on
// output is replaced; anything else is kept and the format appended.
func outputPath(output, format string) string {
	if output == "" {
		output = "truchet_tiles"
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.ToLower(strings.TrimPrefix(ext, "."))] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}

func joinNames[T ~string](names []T) string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return strings.Join(out, ", ")
}
