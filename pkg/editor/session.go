// Package editor coordinates the two representations of a diagram: the
// TikZ source text and the parsed graph laid out on the canvas.
//
// A [Session] owns both and keeps them consistent. Text edits flow
// text -> graph through a full re-parse; canvas drags flow graph -> text
// through a surgical coordinate rewrite that leaves every other byte of the
// source alone. The source text is always the document of record.
package editor

import (
	"context"
	"math"
	"sync"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/diagram"
	"github.com/okrause/tikzcanvas/pkg/store"
	"github.com/okrause/tikzcanvas/pkg/tikz"
)

// Session is a single open diagram. Safe for concurrent use; overlapping
// drags resolve last-write-wins.
type Session struct {
	mu     sync.Mutex
	mapper canvas.Mapper
	snap   float64 // unit grid for drag snapping, 0 disables

	source string
	graph  *diagram.Graph

	diagramID string
	title     string
}

// New returns an empty session using the given coordinate mapper.
func New(m canvas.Mapper) *Session {
	return &Session{
		mapper: m,
		graph:  diagram.New(),
	}
}

// SetSnap sets the drag snapping grid in document units. Zero disables
// snapping.
func (s *Session) SetSnap(units float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = units
}

// SetTitle sets the title used when the session is saved.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// Title returns the session's save title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// SetText replaces the source text and re-parses it into a fresh graph.
// The previous graph is discarded wholesale, so a text edit wins over any
// in-flight canvas state.
func (s *Session) SetText(source string) canvas.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.source = source
	s.graph = tikz.Parse(source)
	return s.mapper.View(s.graph)
}

// Text returns the current source text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// View returns the current canvas projection of the graph.
func (s *Session) View() canvas.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapper.View(s.graph)
}

// DragNode moves the named node to the given pixel position and writes the
// new coordinates back into the source text. The graph is not re-parsed:
// only the moved node's coordinate substring changes, at 2-decimal
// precision, and the updated text is returned.
func (s *Session) DragNode(name string, p canvas.Pixel) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph.Node(name) == nil {
		return "", apperr.New(apperr.CodeNodeNotFound, "node %s not on the canvas", name)
	}

	pos := s.mapper.ToUnits(p)
	if s.snap > 0 {
		pos.X = math.Round(pos.X/s.snap) * s.snap
		pos.Y = math.Round(pos.Y/s.snap) * s.snap
	}
	s.graph.SetPosition(name, pos)
	s.source = tikz.Rewrite(s.source, s.graph)
	return s.source, nil
}

// Open loads a stored diagram into the session, replacing its contents.
func (s *Session) Open(ctx context.Context, st store.Store, ownerID, id string) error {
	d, err := st.Diagram(ctx, ownerID, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = d.Source
	s.graph = tikz.Parse(d.Source)
	s.diagramID = d.ID
	s.title = d.Title
	return nil
}

// Save persists the session's source text. A session opened from the store
// updates its diagram; an unsaved session creates one and remembers its ID.
func (s *Session) Save(ctx context.Context, st store.Store, ownerID string) (*store.Diagram, error) {
	s.mu.Lock()
	title := s.title
	if title == "" {
		title = "untitled"
	}
	d := &store.Diagram{
		ID:      s.diagramID,
		OwnerID: ownerID,
		Title:   title,
		Source:  s.source,
	}
	s.mu.Unlock()

	var err error
	if d.ID == "" {
		err = st.CreateDiagram(ctx, d)
	} else {
		err = st.UpdateDiagram(ctx, d)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.diagramID = d.ID
	s.mu.Unlock()
	return d, nil
}
