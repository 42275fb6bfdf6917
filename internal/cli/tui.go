package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/inkqr/inkqr/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// shapeDescriptions maps module shape names to one-line summaries shown in
// the shapes table and picker.
var shapeDescriptions = map[string]string{
	render.ShapeNameSquare:    "plain filled squares, maximum contrast",
	render.ShapeNameCircle:    "circular dots, even spacing",
	render.ShapeNameRounded:   "squares with rounded corners",
	render.ShapeNameSquircle:  "superellipse between square and circle",
	render.ShapeNameStar:      "five-pointed stars, decorative",
	render.ShapeNameDiamond:   "45-degree rotated squares",
	render.ShapeNameConnected: "neighbor-aware rounding, fluid look",
}

// shapesCommand creates the shapes command listing available module shapes.
func (c *CLI) shapesCommand() *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List or interactively pick module shapes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				return runShapePicker()
			}
			printShapeTable()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "pick a shape interactively")
	return cmd
}

func printShapeTable() {
	rows := make([][]string, 0, len(render.ShapeNames()))
	for _, name := range render.ShapeNames() {
		rows = append(rows, []string{name, shapeDescriptions[name]})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Shape", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	fmt.Println(t.Render())
	printNewline()
	printNextStep("Try one", appName+" render \"hello\" --shape rounded")
}

func runShapePicker() error {
	shape, err := pickShape()
	if err != nil || shape == "" {
		return err
	}
	printSuccess("Selected shape: %s", shape)
	printNextStep("Render with it", fmt.Sprintf("%s render \"hello\" --shape %s", appName, shape))
	return nil
}

// pickShape runs the interactive shape picker and returns the chosen shape
// name, or "" when the picker was dismissed.
func pickShape() (string, error) {
	final, err := tea.NewProgram(NewShapeListModel(render.ShapeNames())).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(ShapeListModel)
	if !ok {
		return "", nil
	}
	return m.Selected, nil
}

// =============================================================================
// ShapeListModel - Interactive shape selection
// =============================================================================

// ShapeListModel is the bubbletea model for interactive shape selection.
type ShapeListModel struct {
	Shapes   []string
	Cursor   int
	Selected string
}

// NewShapeListModel creates a new shape list model.
func NewShapeListModel(shapes []string) ShapeListModel {
	return ShapeListModel{Shapes: shapes}
}

func (m ShapeListModel) Init() tea.Cmd {
	return nil
}

func (m ShapeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Shapes)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Shapes[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ShapeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Module Shape"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Shapes {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-10s  %s", cursor, name, listDimStyle.Render(shapeDescriptions[name]))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Shapes))))

	return b.String()
}
