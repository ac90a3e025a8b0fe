package diagram

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// Point - Document Unit Coordinates
// =============================================================================

// Point is a position in document units. The y axis points upward, matching
// TikZ coordinates; pkg/canvas flips it when mapping to pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// =============================================================================
// ShapeClass - Derived Rendering Class
// =============================================================================

// ShapeClass is the closed set of rendering classes a node resolves to.
type ShapeClass string

const (
	ShapeRectangle          ShapeClass = "rectangle"
	ShapeEllipse            ShapeClass = "ellipse"
	ShapeCylinder           ShapeClass = "cylinder"
	ShapeDashedRectangle    ShapeClass = "dashedRectangle"
	ShapeHighlightRectangle ShapeClass = "highlightRectangle"
)

// ShapeFor derives the shape class from a node's style tags.
//
// Matching is by fixed priority, not tag order: an ellipse marker beats a
// cylinder marker beats a dashed marker beats a highlight marker. A node
// tagged both "cloud" and "api" is an ellipse.
func ShapeFor(styles []string) ShapeClass {
	joined := strings.Join(styles, ",")
	switch {
	case strings.Contains(joined, "cloud") || strings.Contains(joined, "ellipse"):
		return ShapeEllipse
	case strings.Contains(joined, "cylinder") || strings.Contains(joined, "db"):
		return ShapeCylinder
	case strings.Contains(joined, "k8s") || strings.Contains(joined, "dashed"):
		return ShapeDashedRectangle
	case strings.Contains(joined, "api") || strings.Contains(joined, "gateway"):
		return ShapeHighlightRectangle
	default:
		return ShapeRectangle
	}
}

// =============================================================================
// Node and Connection
// =============================================================================

// Node is a named, positioned, labeled diagram entity.
type Node struct {
	Name   string     `json:"name"`
	Styles []string   `json:"styles,omitempty"` // raw style tags, declaration order
	Pos    Point      `json:"pos"`
	Label  string     `json:"label,omitempty"` // normalized, \n separated lines
	Shape  ShapeClass `json:"shape"`

	// DeclaredPos is the position the node's declaration resolved to when it
	// was parsed. The rewriter compares against it to decide whether a
	// declaration without an absolute coordinate has actually moved and needs
	// one injected. Not serialized.
	DeclaredPos Point `json:"-"`
}

// LabelLines returns the non-empty lines of the display label.
func (n *Node) LabelLines() []string {
	var lines []string
	for _, l := range strings.Split(n.Label, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// Connection is a directed edge between two nodes, identified by name.
// Parallel connections between the same pair are allowed and kept separately.
type Connection struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Dashed bool   `json:"dashed,omitempty"` // de-emphasized rendering variant
}

// =============================================================================
// Graph
// =============================================================================

// Graph owns a diagram's nodes (declaration order) and connections
// (declaration order). The zero value is not usable; use New.
type Graph struct {
	order       []*Node
	index       map[string]*Node
	connections []Connection
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddNode inserts a node. The first declaration of a name wins: adding a
// node whose name is already present is a no-op and returns false.
func (g *Graph) AddNode(n Node) bool {
	if _, ok := g.index[n.Name]; ok {
		return false
	}
	if n.Shape == "" {
		n.Shape = ShapeFor(n.Styles)
	}
	node := &n
	g.index[n.Name] = node
	g.order = append(g.order, node)
	return true
}

// AddConnection appends a connection if both endpoints exist.
// Dangling references are dropped and reported via the false return.
func (g *Graph) AddConnection(c Connection) bool {
	if _, ok := g.index[c.From]; !ok {
		return false
	}
	if _, ok := g.index[c.To]; !ok {
		return false
	}
	g.connections = append(g.connections, c)
	return true
}

// Node returns the named node, or nil.
func (g *Graph) Node(name string) *Node {
	return g.index[name]
}

// Nodes returns the nodes in declaration order. The slice is shared with the
// graph; callers must not reorder it.
func (g *Graph) Nodes() []*Node {
	return g.order
}

// Connections returns the connections in declaration order.
func (g *Graph) Connections() []Connection {
	return g.connections
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// SetPosition updates the named node's position in place.
// Unknown names are ignored.
func (g *Graph) SetPosition(name string, p Point) {
	if n, ok := g.index[name]; ok {
		n.Pos = p
	}
}

// =============================================================================
// Serialization
// =============================================================================

// graphJSON is the wire shape of a Graph.
type graphJSON struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections,omitempty"`
}

// MarshalJSON serializes the graph with nodes in declaration order.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := graphJSON{Nodes: make([]Node, len(g.order)), Connections: g.connections}
	for i, n := range g.order {
		out.Nodes[i] = *n
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the graph, re-applying first-wins and
// drop-on-dangling rules so a decoded graph holds the same invariants as a
// parsed one.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var in graphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*g = *New()
	for _, n := range in.Nodes {
		g.AddNode(n)
	}
	for _, c := range in.Connections {
		g.AddConnection(c)
	}
	return nil
}
