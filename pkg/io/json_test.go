package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/diagram"
)

func sample() *diagram.Graph {
	g := diagram.New()
	g.AddNode(diagram.Node{Name: "aws", Label: "AWS", Shape: diagram.ShapeEllipse, Pos: diagram.Point{X: -6, Y: 3}})
	g.AddNode(diagram.Node{Name: "db", Label: "Store", Shape: diagram.ShapeCylinder})
	g.AddConnection(diagram.Connection{From: "aws", To: "db", Dashed: true})
	return g
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	g, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if g.Len() != 2 || len(g.Connections()) != 1 {
		t.Fatalf("round trip: %d nodes, %d connections", g.Len(), len(g.Connections()))
	}
	aws := g.Node("aws")
	if aws.Pos.X != -6 || aws.Shape != diagram.ShapeEllipse {
		t.Errorf("aws = %+v", aws)
	}
	if !g.Connections()[0].Dashed {
		t.Error("dashed flag lost")
	}
}

func TestReadJSONInvariants(t *testing.T) {
	in := `{
	  "nodes": [
	    {"name": "a", "pos": {"x": 0, "y": 0}, "label": "first"},
	    {"name": "a", "pos": {"x": 5, "y": 5}, "label": "second"},
	    {"name": "b", "pos": {"x": 1, "y": 1}, "styles": ["db"]}
	  ],
	  "connections": [
	    {"from": "a", "to": "b"},
	    {"from": "a", "to": "ghost"}
	  ]
	}`

	g, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("nodes = %d, want 2", g.Len())
	}
	if g.Node("a").Label != "first" {
		t.Errorf("duplicate name kept %q", g.Node("a").Label)
	}
	if g.Node("b").Shape != diagram.ShapeCylinder {
		t.Errorf("b.Shape = %q, want cylinder from styles", g.Node("b").Shape)
	}
	if len(g.Connections()) != 1 {
		t.Errorf("dangling connection kept: %+v", g.Connections())
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{nope"))
	if !apperr.Is(err, apperr.CodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(sample(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	g, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if g.Len() != 2 {
		t.Errorf("nodes = %d", g.Len())
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); !apperr.Is(err, apperr.CodeInvalidInput) {
		t.Errorf("missing file: err = %v", err)
	}
}
