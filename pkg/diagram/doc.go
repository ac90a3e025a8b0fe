// Package diagram defines the in-memory model for a parsed TikZ diagram:
// named, positioned nodes and the directed connections between them.
//
// A [Graph] is built by pkg/tikz from source text and is the unit of state
// the canvas and rewriter operate on. Nodes keep declaration order, carry
// their raw style tags, a normalized display label and a derived [ShapeClass]
// used for rendering. Connections reference nodes by name; a connection whose
// endpoints are not both present in the graph is never admitted, so every
// connection in a Graph is resolvable by construction.
//
// Positions are in document units (the coordinate system written inside TikZ
// source, y increasing upward). Conversion to canvas pixels lives in
// pkg/canvas.
package diagram
