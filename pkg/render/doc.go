// Package render turns diagrams into images.
//
// Two exporters are provided. The DOT path converts the graph to Graphviz
// DOT with pinned node positions and renders it through the graphviz
// engine, producing SVG or PNG that respects the document's own layout.
// The canvas path draws the editor's pixel-space projection directly with
// a 2D drawing context, producing a PNG that matches what the editor shows
// on screen.
package render
