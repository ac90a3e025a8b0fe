package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/diagram"
)

// dotPointsPerUnit converts document units to DOT points when pinning node
// positions.
const dotPointsPerUnit = 50.0

// ToDOT converts the graph to Graphviz DOT. Node positions are pinned so
// the neato engine reproduces the document's own layout instead of
// inventing one. The result renders with [SVG] or [PNG].
func ToDOT(g *diagram.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.15,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{
			"label=" + dotQuote(n.Label),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Pos.X*dotPointsPerUnit, n.Pos.Y*dotPointsPerUnit),
		}
		attrs = append(attrs, shapeAttrs(n.Shape)...)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, c := range g.Connections() {
		if c.Dashed {
			fmt.Fprintf(&buf, "  %q -- %q [style=dashed];\n", c.From, c.To)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", c.From, c.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotQuote wraps s in a DOT double-quoted string. Newlines become the
// two-character escape \n so Graphviz line-breaks the label.
func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}

func shapeAttrs(s diagram.ShapeClass) []string {
	switch s {
	case diagram.ShapeEllipse:
		return []string{"shape=ellipse", "style=filled", "fillcolor=lightblue"}
	case diagram.ShapeCylinder:
		return []string{"shape=cylinder", "style=filled", "fillcolor=lightgrey"}
	case diagram.ShapeDashedRectangle:
		return []string{"shape=box", "style=dashed"}
	case diagram.ShapeHighlightRectangle:
		return []string{"shape=box", "style=filled", "fillcolor=lightyellow"}
	default:
		return []string{"shape=box", "style=filled", "fillcolor=white"}
	}
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
