package canvas

import "github.com/okrause/tikzcanvas/pkg/diagram"

// =============================================================================
// View - Render Layout for a Canvas
// =============================================================================

// NodeView is a node prepared for canvas display: pixel position plus the
// label and shape class the canvas needs to draw it.
type NodeView struct {
	Name  string             `json:"name"`
	Label string             `json:"label,omitempty"`
	Shape diagram.ShapeClass `json:"shape"`
	Pos   Pixel              `json:"pos"`
}

// EdgeView is a connection with both endpoints resolved to pixel positions.
type EdgeView struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Dashed bool   `json:"dashed,omitempty"`
	FromPt Pixel  `json:"from_pt"`
	ToPt   Pixel  `json:"to_pt"`
}

// View is the complete render layout handed to a canvas.
type View struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges,omitempty"`
}

// Node returns the view entry for the named node, or nil.
func (v View) Node(name string) *NodeView {
	for i := range v.Nodes {
		if v.Nodes[i].Name == name {
			return &v.Nodes[i]
		}
	}
	return nil
}

// =============================================================================
// Layout Engine
// =============================================================================

// Layout maps every node to its pixel position.
func (m Mapper) Layout(g *diagram.Graph) map[string]Pixel {
	out := make(map[string]Pixel, g.Len())
	for _, n := range g.Nodes() {
		out[n.Name] = m.ToPixels(n.Pos)
	}
	return out
}

// View builds the full render layout: positioned nodes in declaration order
// and connections with resolved endpoints.
func (m Mapper) View(g *diagram.Graph) View {
	v := View{Nodes: make([]NodeView, 0, g.Len())}
	for _, n := range g.Nodes() {
		v.Nodes = append(v.Nodes, NodeView{
			Name:  n.Name,
			Label: n.Label,
			Shape: n.Shape,
			Pos:   m.ToPixels(n.Pos),
		})
	}
	for _, c := range g.Connections() {
		v.Edges = append(v.Edges, EdgeView{
			From:   c.From,
			To:     c.To,
			Dashed: c.Dashed,
			FromPt: m.ToPixels(g.Node(c.From).Pos),
			ToPt:   m.ToPixels(g.Node(c.To).Pos),
		})
	}
	return v
}

// ApplyDrag converts a dragged pixel position to document units and writes it
// into the named node. Unknown names are a silent no-op: the canvas should
// only emit drags for nodes it rendered, but a stale event must not corrupt
// the graph.
func (m Mapper) ApplyDrag(g *diagram.Graph, name string, p Pixel) {
	if g.Node(name) == nil {
		return
	}
	g.SetPosition(name, m.ToUnits(p))
}
