package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/diagram"
)

func testGraph(t *testing.T) *diagram.Graph {
	t.Helper()
	g := diagram.New()
	g.AddNode(diagram.Node{Name: "aws", Label: "AWS\nEC2", Shape: diagram.ShapeEllipse, Pos: diagram.Point{X: -6, Y: 3}})
	g.AddNode(diagram.Node{Name: "db", Label: "Store", Shape: diagram.ShapeCylinder, Pos: diagram.Point{X: 0, Y: 0}})
	g.AddNode(diagram.Node{Name: "k8s", Label: "Cluster", Shape: diagram.ShapeDashedRectangle, Pos: diagram.Point{X: 3, Y: -2}})
	g.AddConnection(diagram.Connection{From: "aws", To: "db"})
	g.AddConnection(diagram.Connection{From: "db", To: "k8s", Dashed: true})
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t))

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`"aws" [label="AWS\nEC2", pos="-300.00,150.00!", shape=ellipse`,
		`"db" [label="Store", pos="0.00,0.00!", shape=cylinder`,
		`"k8s" [`,
		"style=dashed",
		`"aws" -- "db";`,
		`"db" -- "k8s" [style=dashed];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTLabelQuoting(t *testing.T) {
	g := diagram.New()
	g.AddNode(diagram.Node{Name: "q", Label: "say \"hi\"\nthere"})

	dot := ToDOT(g)
	// One backslash per escape: \" for the quote, \n for the break.
	if !strings.Contains(dot, `label="say \"hi\"\nthere"`) {
		t.Errorf("label not escaped for DOT:\n%s", dot)
	}
	if strings.Contains(dot, `\\n`) {
		t.Errorf("newline double-escaped:\n%s", dot)
	}
}

func TestToDOTEmptyGraph(t *testing.T) {
	dot := ToDOT(diagram.New())
	if !strings.Contains(dot, "graph G {") || !strings.Contains(dot, "}") {
		t.Errorf("empty graph DOT malformed:\n%s", dot)
	}
}

func TestCanvasPNG(t *testing.T) {
	view := canvas.DefaultMapper().View(testGraph(t))

	data, err := Canvas(view, 800, 600)
	if err != nil {
		t.Fatalf("Canvas: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("image is %dx%d, want 800x600", b.Dx(), b.Dy())
	}
}

func TestCanvasBadSize(t *testing.T) {
	_, err := Canvas(canvas.View{}, 0, 600)
	if !apperr.Is(err, apperr.CodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}
