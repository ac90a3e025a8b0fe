package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okrause/tikzcanvas/pkg/canvas"
)

// Character cell size of the terminal canvas and the pixel area it shows.
const (
	gridCols   = 76
	gridRows   = 22
	gridWidth  = 800.0
	gridHeight = 600.0
)

var (
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleNode     = lipgloss.NewStyle().Foreground(colorWhite)
	styleEdge     = lipgloss.NewStyle().Foreground(colorDim)
)

func (m editModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("tikzcanvas · " + m.path))
	if m.dirty {
		b.WriteString(StyleWarning.Render(" [modified]"))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab select · arrows/hjkl move · c copy · s save · q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.renderCanvas())
	b.WriteString("\n")

	if m.selected >= 0 && m.selected < len(m.view.Nodes) {
		n := m.view.Nodes[m.selected]
		b.WriteString(fmt.Sprintf("%s %s  %s  px (%.0f, %.0f)\n",
			styleSelected.Render("▸"),
			styleSelected.Render(n.Name),
			StyleDim.Render(string(n.Shape)),
			n.Pos.X, n.Pos.Y))
	}
	b.WriteString(StyleDim.Render(m.status))
	b.WriteString("\n")
	return b.String()
}

// renderCanvas draws the view onto a character grid: edges as dotted lines,
// nodes as bracketed names, the selection highlighted.
func (m editModel) renderCanvas() string {
	type cell struct {
		ch       rune
		selected bool
		node     bool
	}
	grid := make([][]cell, gridRows)
	for r := range grid {
		grid[r] = make([]cell, gridCols)
		for c := range grid[r] {
			grid[r][c] = cell{ch: ' '}
		}
	}

	toCell := func(p canvas.Pixel) (int, int) {
		col := int(p.X / gridWidth * gridCols)
		row := int(p.Y / gridHeight * gridRows)
		return clamp(col, 0, gridCols-1), clamp(row, 0, gridRows-1)
	}

	for _, e := range m.view.Edges {
		c1, r1 := toCell(e.FromPt)
		c2, r2 := toCell(e.ToPt)
		steps := int(math.Max(math.Abs(float64(c2-c1)), math.Abs(float64(r2-r1))))
		for i := 0; i <= steps; i++ {
			t := 0.0
			if steps > 0 {
				t = float64(i) / float64(steps)
			}
			c := c1 + int(math.Round(t*float64(c2-c1)))
			r := r1 + int(math.Round(t*float64(r2-r1)))
			if !grid[r][c].node {
				grid[r][c] = cell{ch: '·'}
			}
		}
	}

	for i, n := range m.view.Nodes {
		col, row := toCell(n.Pos)
		marker := "[" + n.Name + "]"
		start := clamp(col-len(marker)/2, 0, gridCols-len(marker))
		if start < 0 {
			start = 0
		}
		for j, ch := range marker {
			if start+j >= gridCols {
				break
			}
			grid[row][start+j] = cell{ch: ch, selected: i == m.selected, node: true}
		}
	}

	var b strings.Builder
	border := StyleDim.Render("+" + strings.Repeat("-", gridCols) + "+")
	b.WriteString(border)
	b.WriteString("\n")
	for _, rowCells := range grid {
		b.WriteString(StyleDim.Render("|"))
		for _, c := range rowCells {
			s := string(c.ch)
			switch {
			case c.selected:
				b.WriteString(styleSelected.Render(s))
			case c.node:
				b.WriteString(styleNode.Render(s))
			case c.ch == '·':
				b.WriteString(styleEdge.Render(s))
			default:
				b.WriteString(s)
			}
		}
		b.WriteString(StyleDim.Render("|"))
		b.WriteString("\n")
	}
	b.WriteString(border)
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
