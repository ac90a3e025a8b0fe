package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/diagram"
)

// WriteJSON encodes a graph as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(g *diagram.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "encode graph")
	}
	return nil
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *diagram.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// ReadJSON decodes a JSON graph from r.
//
// The graph invariants apply on import: duplicate node names keep the first
// occurrence, connections with missing endpoints are dropped, and nodes
// without an explicit shape derive one from their styles.
func ReadJSON(r io.Reader) (*diagram.Graph, error) {
	var g diagram.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "decode graph")
	}
	return &g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded graph.
func ImportJSON(path string) (*diagram.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
