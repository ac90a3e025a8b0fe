package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/editor"
)

const editDoc = `\node[cloud] (a) at (-6,3) {AWS};
\node[cloud] (b) at (-1.3,3) {GCP};
\draw[arrow] (a) -- (b);
`

func newTestEditModel(t *testing.T) editModel {
	t.Helper()
	sess := editor.New(canvas.DefaultMapper())
	sess.SetText(editDoc)
	return newEditModel(sess, "test.tex")
}

func key(k tea.KeyType) tea.Msg { return tea.KeyMsg(tea.Key{Type: k}) }
func runeKey(r rune) tea.Msg    { return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune{r}}) }

func TestEditModelTabCycles(t *testing.T) {
	m := newTestEditModel(t)
	if m.selected != 0 {
		t.Fatalf("initial selection = %d", m.selected)
	}

	next, _ := m.Update(key(tea.KeyTab))
	m = next.(editModel)
	if m.selected != 1 {
		t.Errorf("after tab: selected = %d, want 1", m.selected)
	}

	next, _ = m.Update(key(tea.KeyTab))
	m = next.(editModel)
	if m.selected != 0 {
		t.Errorf("tab did not wrap: selected = %d", m.selected)
	}
}

func TestEditModelDragRewritesSource(t *testing.T) {
	m := newTestEditModel(t)

	// Node a starts at pixel (100,150); one step right is (125,150),
	// which is unit (-5.5,3).
	next, _ := m.Update(key(tea.KeyRight))
	m = next.(editModel)

	if !m.dirty {
		t.Error("drag did not mark the model dirty")
	}
	if !strings.Contains(m.session.Text(), "(a) at (-5.50,3.00)") {
		t.Errorf("source not rewritten:\n%s", m.session.Text())
	}
	if p := m.view.Node("a").Pos; p.X != 125 || p.Y != 150 {
		t.Errorf("view position = %+v, want (125,150)", p)
	}
	// The untouched node keeps its original declaration.
	if !strings.Contains(m.session.Text(), "(b) at (-1.3,3)") {
		t.Errorf("b's declaration disturbed:\n%s", m.session.Text())
	}
}

func TestEditModelQuit(t *testing.T) {
	m := newTestEditModel(t)
	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q did not quit")
	}
}

func TestEditModelViewRenders(t *testing.T) {
	m := newTestEditModel(t)
	out := m.View()

	for _, want := range []string{"[a]", "[b]", "test.tex"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
