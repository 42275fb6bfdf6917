package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkqr/inkqr/pkg/centerpiece"
	"github.com/inkqr/inkqr/pkg/errors"
	"github.com/inkqr/inkqr/pkg/qr"
)

// validateOpts holds the centerpiece flags for the validate command.
type validateOpts struct {
	level     string
	shape     string
	size      float64
	offsetX   float64
	offsetY   float64
	margin    float64
	placement string
}

// validateCommand creates the validate command for centerpiece safety checks.
func (c *CLI) validateCommand() *cobra.Command {
	opts := validateOpts{size: 0.2}

	cmd := &cobra.Command{
		Use:   "validate [text]",
		Short: "Check a centerpiece configuration against scanability limits",
		Long: `Check a centerpiece configuration against scanability limits.

The validate command encodes the text, simulates the centerpiece knockout,
and reports heuristic findings plus a scanability score. The command exits
with an error when the configuration is assessed as unsafe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.level, "level", "l", "H", "error correction level: L, M, Q, H (default)")
	cmd.Flags().StringVar(&opts.shape, "shape", "circle", "centerpiece shape: rect, circle (default), squircle")
	cmd.Flags().Float64Var(&opts.size, "size", opts.size, "centerpiece size as a fraction of the symbol, (0, 0.5]")
	cmd.Flags().Float64Var(&opts.offsetX, "offset-x", 0, "horizontal offset, [-0.5, 0.5]")
	cmd.Flags().Float64Var(&opts.offsetY, "offset-y", 0, "vertical offset, [-0.5, 0.5]")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "extra clear modules around the reserve")
	cmd.Flags().StringVar(&opts.placement, "placement", "", "placement: center (default), custom, corners, edges")

	return cmd
}

func (c *CLI) runValidate(ctx context.Context, text string, opts *validateOpts) error {
	level, err := qr.ParseErrorLevel(opts.level)
	if err != nil {
		return err
	}

	enc, err := qr.Encode(text, level)
	if err != nil {
		return err
	}
	detector, err := qr.NewDetector(enc.Matrix, enc.Version)
	if err != nil {
		return err
	}
	man, err := centerpiece.NewManipulator(enc.Matrix, detector,
		centerpiece.WithLogger(loggerFromContext(ctx)))
	if err != nil {
		return err
	}

	cfg := centerpiece.Config{
		Enabled:   true,
		Shape:     centerpiece.Shape(opts.shape),
		Size:      opts.size,
		OffsetX:   opts.offsetX,
		OffsetY:   opts.offsetY,
		Margin:    opts.margin,
		Placement: centerpiece.Placement(opts.placement),
	}

	printKeyValue("Text", text)
	printKeyValue("Version", enc.Version.String())
	printKeyValue("Level", string(level))
	printKeyValue("Safe size", fmt.Sprintf("%.3f", centerpiece.SafeReserveSize(enc.Version, level)))
	printNewline()

	validation := man.Validate(cfg, enc.Version, level)
	for _, f := range validation.Findings {
		if f.Severity == centerpiece.SeverityUnsafe {
			printError("%s: %s", f.Code, f.Message)
		} else {
			printWarning("%s: %s", f.Code, f.Message)
		}
	}

	_, scan, err := man.ApplyAndAssess(ctx, cfg, enc.Version, level)
	if err != nil {
		return fmt.Errorf("assess configuration: %w", err)
	}

	printKeyValue("Scanability", fmt.Sprintf("%.2f", scan.Score))
	printKeyValue("Data loss", fmt.Sprintf("%.1f%% of recovery budget", 100*scan.DataLossRatio))

	if !validation.Safe {
		return errors.New(errors.ErrCodeUnsafeReserve,
			"centerpiece configuration is unsafe (size %.2f at level %s)", opts.size, level)
	}
	printSuccess("Configuration is safe")
	return nil
}
