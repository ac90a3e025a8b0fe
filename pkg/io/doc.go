// Package io provides JSON import and export for diagram graphs.
//
// # Overview
//
// This package serializes diagrams to and from a simple JSON format. The
// format is designed for:
//
//   - Integration with external tools that produce or consume graph data
//   - Building diagrams programmatically without writing TikZ by hand
//   - Round-trip preservation: import, edit, export, and re-import identically
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"name": "aws", "pos": {"x": -6, "y": 3}, "label": "AWS", "shape": "ellipse"},
//	    {"name": "db", "pos": {"x": 0, "y": 0}, "label": "Store", "shape": "cylinder"}
//	  ],
//	  "connections": [
//	    {"from": "aws", "to": "db"}
//	  ]
//	}
//
// A graph imported from JSON carries no source text; use the tikz package's
// Generate to produce a canonical document for it.
package io
