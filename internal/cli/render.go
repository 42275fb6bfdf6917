package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkqr/inkqr/pkg/pipeline"
	"github.com/inkqr/inkqr/pkg/qr"
	"github.com/inkqr/inkqr/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file path (or base path for multiple formats)
	styleFile   string // TOML style file
	level       string // error correction level
	shape       string // module shape override
	moduleSize  int    // pixels per module override
	border      int    // quiet zone override, in modules
	foreground  string // module color override
	background  string // background color override
	frame       string // frame shape override
	noCache     bool
	cacheURL    string
	refresh     bool
	interactive bool // pick the module shape interactively
}

// renderCommand creates the render command for generating styled QR codes.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [text]",
		Short: "Encode text and render a styled QR code",
		Long: `Encode text and render a styled QR code.

The render command encodes the given text, optionally analyzes module
clusters and applies a centerpiece reserve, and writes the requested output
formats. Styling comes from a TOML file (--style) with individual flags
layered on top.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.interactive {
				shape, err := pickShape()
				if err != nil {
					return err
				}
				if shape == "" {
					return nil // picker dismissed
				}
				opts.shape = shape
			}
			pipelineOpts, err := buildPipelineOptions(args[0], formatsStr, &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), pipelineOpts, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVarP(&opts.styleFile, "style", "s", "", "TOML style file")
	cmd.Flags().StringVarP(&opts.level, "level", "l", "", "error correction level: L, M (default), Q, H")
	cmd.Flags().StringVar(&opts.shape, "shape", "", "module shape: "+strings.Join(render.ShapeNames(), ", "))
	cmd.Flags().IntVar(&opts.moduleSize, "module-size", 0, "pixels per module")
	cmd.Flags().IntVar(&opts.border, "border", -1, "quiet zone width in modules")
	cmd.Flags().StringVar(&opts.foreground, "foreground", "", "module color")
	cmd.Flags().StringVar(&opts.background, "background", "", "background color")
	cmd.Flags().StringVar(&opts.frame, "frame", "", "frame shape: none (default), square, circle, rounded")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.cacheURL, "cache-url", "", "redis cache URL (redis://host:port/db)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache reads")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the module shape interactively")

	return cmd
}

// buildPipelineOptions merges the style file and flag overrides into
// pipeline options.
func buildPipelineOptions(text, formatsStr string, opts *renderOpts) (pipeline.Options, error) {
	style, err := loadStyle(opts.styleFile, func(s *render.StyleConfig) {
		if opts.shape != "" {
			s.Shape = opts.shape
		}
		if opts.moduleSize > 0 {
			s.ModuleSize = float64(opts.moduleSize)
		}
		if opts.border >= 0 {
			s.Border = opts.border
		}
		if opts.foreground != "" {
			s.Foreground = opts.foreground
		}
		if opts.background != "" {
			s.Background = opts.background
		}
		if opts.frame != "" {
			s.Frame.Shape = opts.frame
		}
	})
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		Text:       text,
		ErrorLevel: qr.ErrorLevel(strings.ToUpper(opts.level)),
		Style:      style,
		Formats:    parseFormats(formatsStr),
		Refresh:    opts.refresh,
	}, nil
}

// runRender executes the pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, pipelineOpts pipeline.Options, opts *renderOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache, opts.cacheURL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pipelineOpts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Rendering QR code...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipelineOpts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeArtifacts(result.Artifacts, pipelineOpts.Formats, opts.output); err != nil {
		return err
	}

	printSuccess("Rendered %q", pipelineOpts.Text)
	printStats(result.Stats.ModuleCount, result.Stats.ClusterCount, result.CacheInfo.RenderHit)
	if result.Knockout != nil {
		printDetail("Centerpiece: %d modules reserved, %d cleared",
			result.Knockout.InCenterpiece, result.Knockout.DataModulesCleared)
	}
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// writeArtifacts writes each produced format to its output path. A single
// format goes to output directly (stdout when empty); multiple formats
// derive per-format paths from the base.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) error {
	if len(formats) == 1 {
		return writeArtifact(artifacts[formats[0]], output)
	}

	base := strings.TrimSuffix(output, filepath.Ext(output))
	if base == "" {
		base = "qr"
	}
	for _, format := range formats {
		path := base + "." + format
		if err := writeArtifact(artifacts[format], path); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}
	if path != "" {
		printFile(path)
	}
	return nil
}
