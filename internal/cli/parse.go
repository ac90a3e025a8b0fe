package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/diagram"
	"github.com/okrause/tikzcanvas/pkg/tikz"
)

// newParseCmd creates the parse command for inspecting TikZ documents.
func newParseCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Inspect the nodes and connections of a TikZ document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the graph as JSON")
	return cmd
}

func runParse(cmd *cobra.Command, path string, asJSON bool) error {
	logger := loggerFromContext(cmd.Context())
	p := newProgress(logger)

	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, err, "reading %s", path)
	}
	g := tikz.Parse(string(data))
	p.done(fmt.Sprintf("Parsed %s", path))

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(g)
	}

	printGraph(g)
	return nil
}

func printGraph(g *diagram.Graph) {
	m := canvas.DefaultMapper()

	rows := [][]string{}
	for _, n := range g.Nodes() {
		px := m.ToPixels(n.Pos)
		label := strings.ReplaceAll(n.Label, "\n", " / ")
		rows = append(rows, []string{
			n.Name,
			string(n.Shape),
			fmt.Sprintf("(%.2f, %.2f)", n.Pos.X, n.Pos.Y),
			fmt.Sprintf("(%.0f, %.0f)", px.X, px.Y),
			label,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Shape", "Units", "Pixels", "Label").
		Rows(rows...)
	fmt.Println(t)

	for _, c := range g.Connections() {
		line := fmt.Sprintf("%s %s %s", c.From, iconArrow, c.To)
		if c.Dashed {
			line += StyleDim.Render(" (dashed)")
		}
		fmt.Println("  " + line)
	}
	printStats(g.Len(), len(g.Connections()))
}
