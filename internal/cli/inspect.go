package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/inkqr/inkqr/pkg/pipeline"
	"github.com/inkqr/inkqr/pkg/qr"
)

// inspectCommand creates the inspect command showing matrix structure.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		level    string
		noCache  bool
		cacheURL string
	)

	cmd := &cobra.Command{
		Use:   "inspect [text]",
		Short: "Show the module-type breakdown of an encoded matrix",
		Long: `Show the module-type breakdown of an encoded matrix.

The inspect command encodes the text and classifies every module by its
structural role (finder, timing, alignment, format, data, ...), then prints
a summary table. Use it to understand how much of a symbol is function
patterns versus styleable data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], level, noCache, cacheURL)
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "", "error correction level: L, M (default), Q, H")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cacheURL, "cache-url", "", "redis cache URL")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, text, level string, noCache bool, cacheURL string) error {
	runner, err := c.newRunner(ctx, noCache, cacheURL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	enc, err := runner.Encode(ctx, pipeline.Options{
		Text:       text,
		ErrorLevel: qr.ErrorLevel(level),
		Logger:     loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}

	detector, err := qr.NewDetector(enc.Matrix, enc.Version)
	if err != nil {
		return err
	}

	size := enc.Matrix.Size()
	counts := make(map[qr.ModuleType]int)
	darkCounts := make(map[qr.ModuleType]int)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			t, err := detector.ModuleTypeAt(row, col)
			if err != nil {
				return err
			}
			counts[t]++
			if enc.Matrix.At(row, col) {
				darkCounts[t]++
			}
		}
	}

	printKeyValue("Text", text)
	printKeyValue("Version", enc.Version.String())
	printKeyValue("Level", string(enc.ErrorLevel))
	printKeyValue("Size", fmt.Sprintf("%d×%d (%d modules)", size, size, size*size))
	printKeyValue("Dark", fmt.Sprintf("%d (%.1f%%)", enc.Matrix.CountDark(),
		100*float64(enc.Matrix.CountDark())/float64(size*size)))
	printNewline()

	types := make([]qr.ModuleType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return counts[types[i]] > counts[types[j]] })

	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{
			string(t),
			moduleRole(t),
			fmt.Sprintf("%d", counts[t]),
			fmt.Sprintf("%d", darkCounts[t]),
			fmt.Sprintf("%.1f%%", 100*float64(counts[t])/float64(size*size)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Type", "Role", "Modules", "Dark", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t.Render())
	return nil
}

// moduleRole labels a module type for the breakdown table.
func moduleRole(t qr.ModuleType) string {
	if t.IsFunctionPattern() {
		return "function"
	}
	return "data"
}
