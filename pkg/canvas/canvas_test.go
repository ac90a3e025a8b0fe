package canvas

import (
	"math"
	"testing"

	"github.com/okrause/tikzcanvas/pkg/diagram"
)

func TestToPixels(t *testing.T) {
	m := DefaultMapper()

	tests := []struct {
		name string
		unit diagram.Point
		want Pixel
	}{
		{"Origin", diagram.Point{X: 0, Y: 0}, Pixel{X: 400, Y: 300}},
		{"A", diagram.Point{X: -6, Y: 3}, Pixel{X: 100, Y: 150}},
		{"B", diagram.Point{X: -1.3, Y: 3}, Pixel{X: 335, Y: 150}},
		{"YFlip", diagram.Point{X: 0, Y: -2}, Pixel{X: 400, Y: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ToPixels(tt.unit)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("ToPixels(%+v) = %+v, want %+v", tt.unit, got, tt.want)
			}
		})
	}
}

// ToUnits(ToPixels(u)) must equal u within 1e-6, including for sub-pixel
// positions that never align to the grid.
func TestInverseLaw(t *testing.T) {
	m := DefaultMapper()
	units := []diagram.Point{
		{X: 0, Y: 0},
		{X: -6, Y: 3},
		{X: 1.337, Y: -2.718},
		{X: 1234.5678, Y: -9876.5432},
		{X: 0.001, Y: 0.001},
	}

	for _, u := range units {
		got := m.ToUnits(m.ToPixels(u))
		if math.Abs(got.X-u.X) > 1e-6 || math.Abs(got.Y-u.Y) > 1e-6 {
			t.Errorf("round trip of %+v = %+v", u, got)
		}
	}
}

func TestRoundUnit(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.01},
		{-5.0000001, -5},
		{3.14159, 3.14},
		{0, 0},
	}
	for _, tt := range tests {
		if got := RoundUnit(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RoundUnit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func testGraph() *diagram.Graph {
	g := diagram.New()
	g.AddNode(diagram.Node{Name: "a", Styles: []string{"cloud"}, Pos: diagram.Point{X: -6, Y: 3}, Label: "AWS"})
	g.AddNode(diagram.Node{Name: "b", Styles: []string{"cloud"}, Pos: diagram.Point{X: -1.3, Y: 3}, Label: "GCP"})
	g.AddConnection(diagram.Connection{From: "a", To: "b"})
	return g
}

func TestLayout(t *testing.T) {
	g := testGraph()
	pos := DefaultMapper().Layout(g)

	if len(pos) != 2 {
		t.Fatalf("layout entries = %d, want 2", len(pos))
	}
	if p := pos["a"]; p.X != 100 || p.Y != 150 {
		t.Errorf("a = %+v, want (100,150)", p)
	}
	if p := pos["b"]; p.X != 335 || p.Y != 150 {
		t.Errorf("b = %+v, want (335,150)", p)
	}
}

func TestView(t *testing.T) {
	g := testGraph()
	v := DefaultMapper().View(g)

	if len(v.Nodes) != 2 || len(v.Edges) != 1 {
		t.Fatalf("view = %d nodes %d edges, want 2/1", len(v.Nodes), len(v.Edges))
	}
	if v.Nodes[0].Name != "a" || v.Nodes[0].Shape != diagram.ShapeEllipse {
		t.Errorf("first node = %+v", v.Nodes[0])
	}
	e := v.Edges[0]
	if e.FromPt != (Pixel{X: 100, Y: 150}) || e.ToPt != (Pixel{X: 335, Y: 150}) {
		t.Errorf("edge endpoints = %+v", e)
	}
	if v.Node("b") == nil || v.Node("missing") != nil {
		t.Error("View.Node lookup broken")
	}
	// Must work on an unaddressable View too, so callers can chain
	// View(g).Node(...) without binding a variable first.
	if n := DefaultMapper().View(g).Node("a"); n == nil || n.Pos.X != 100 {
		t.Errorf("chained lookup = %+v", n)
	}
}

func TestApplyDrag(t *testing.T) {
	g := testGraph()
	m := DefaultMapper()

	m.ApplyDrag(g, "a", Pixel{X: 150, Y: 150})
	if pos := g.Node("a").Pos; math.Abs(pos.X-(-5)) > 1e-9 || math.Abs(pos.Y-3) > 1e-9 {
		t.Errorf("a moved to %+v, want (-5,3)", pos)
	}

	// Unknown node is a no-op, not a panic.
	m.ApplyDrag(g, "ghost", Pixel{X: 1, Y: 1})

	// Drag bursts are last-write-wins.
	m.ApplyDrag(g, "a", Pixel{X: 200, Y: 100})
	m.ApplyDrag(g, "a", Pixel{X: 150, Y: 150})
	single := testGraph()
	m.ApplyDrag(single, "a", Pixel{X: 150, Y: 150})
	if g.Node("a").Pos != single.Node("a").Pos {
		t.Errorf("burst end = %+v, single drag = %+v", g.Node("a").Pos, single.Node("a").Pos)
	}
}
