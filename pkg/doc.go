// Package pkg provides the core libraries for the tikzcanvas diagram editor.
//
// # Overview
//
// tikzcanvas keeps a TikZ document and its diagram in sync: edits to the
// source text re-parse into a node/connection graph, and drags on the
// canvas rewrite the source surgically, leaving untouched lines intact.
// The pkg directory is organized into these areas:
//
//  1. [tikz] - Source translation (parse, surgical rewrite, generate)
//  2. [diagram] - The node/connection graph model
//  3. [canvas] - Unit/pixel coordinate mapping and view projection
//  4. [editor] - Stateful editing sessions tying the above together
//  5. [store] - Diagram and user persistence (SQLite, in-memory)
//  6. [render] - Image output (graphviz SVG/PNG, canvas-style PNG)
//
// Supporting packages: [apperr] (typed errors), [auth] (tokens and
// password hashing), [config] (TOML configuration), [io] (JSON
// import/export), [observability] (instrumentation hooks), and
// [buildinfo] (version metadata).
//
// # Architecture
//
// The two directions of the sync loop:
//
//	TikZ source text
//	     ↓ tikz.Parse
//	diagram.Graph
//	     ↓ canvas.Mapper.View
//	pixel-space View (for the UI)
//
//	drag (pixel position)
//	     ↓ canvas.Mapper.ToUnits + diagram.Graph.SetPosition
//	updated Graph
//	     ↓ tikz.Rewrite
//	TikZ source text (only moved declarations change)
//
// # Quick Start
//
// Parse a document, move a node, and write the result back:
//
//	import (
//	    "github.com/okrause/tikzcanvas/pkg/canvas"
//	    "github.com/okrause/tikzcanvas/pkg/editor"
//	)
//
//	sess := editor.New(canvas.DefaultMapper())
//	view := sess.SetText(source)
//	updated, err := sess.DragNode("api", canvas.Pixel{X: 250, Y: 150})
package pkg
