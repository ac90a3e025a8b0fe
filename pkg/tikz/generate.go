package tikz

import (
	"fmt"
	"strings"

	"github.com/okrause/tikzcanvas/pkg/diagram"
)

// shapeStyles maps shape classes back to canonical style names for
// generated declarations.
var shapeStyles = map[diagram.ShapeClass]string{
	diagram.ShapeEllipse:            "cloud",
	diagram.ShapeCylinder:           "db",
	diagram.ShapeDashedRectangle:    "k8s",
	diagram.ShapeHighlightRectangle: "api",
	diagram.ShapeRectangle:          "service",
}

// Generate renders a canonical TikZ document from the graph alone.
//
// This is the fallback for graphs that were built programmatically rather
// than parsed: it produces clean declarations but knows nothing about
// original formatting. For parsed graphs prefer [Rewrite], which preserves
// the source.
func Generate(g *diagram.Graph) string {
	var b strings.Builder
	b.WriteString("\\begin{tikzpicture}\n")

	for _, n := range g.Nodes() {
		style := shapeStyles[n.Shape]
		if style == "" {
			style = "service"
		}
		label := strings.ReplaceAll(n.Label, "\n", `\\`)
		fmt.Fprintf(&b, "    \\node[%s] (%s) at (%s) {%s};\n",
			style, n.Name, formatCoords(n.Pos, false), label)
	}

	for _, c := range g.Connections() {
		style := "arrow"
		if c.Dashed {
			style = "arrow, dashed"
		}
		fmt.Fprintf(&b, "    \\draw[%s] (%s) -- (%s);\n", style, c.From, c.To)
	}

	b.WriteString("\\end{tikzpicture}\n")
	return b.String()
}
