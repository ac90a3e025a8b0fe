package cli

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/okrause/tikzcanvas/pkg/apperr"
	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/editor"
)

// dragStep is how far one keypress moves a node, in canvas pixels. 25px is
// half a document unit at the default scale.
const dragStep = 25.0

// newEditCmd creates the edit command: an interactive canvas in the
// terminal where nodes can be dragged with the keyboard while the source
// text is rewritten underneath.
func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a TikZ document interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(args[0])
		},
	}
	return cmd
}

func runEdit(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, err, "reading %s", path)
	}

	sess := editor.New(canvas.DefaultMapper())
	sess.SetText(string(data))

	m := newEditModel(sess, path)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return apperr.Wrap(apperr.CodeInternal, err, "running editor")
	}

	if em, ok := final.(editModel); ok && em.dirty {
		printInfo("unsaved changes discarded (press s to save next time)")
	}
	return nil
}

// editModel is the bubbletea model for the canvas editor.
type editModel struct {
	session *editor.Session
	path    string

	view     canvas.View
	selected int // index into view.Nodes, -1 when the diagram is empty
	status   string
	dirty    bool
}

func newEditModel(sess *editor.Session, path string) editModel {
	m := editModel{
		session: sess,
		path:    path,
		view:    sess.View(),
		status:  "ready",
	}
	if len(m.view.Nodes) == 0 {
		m.selected = -1
	}
	return m
}

func (m editModel) Init() tea.Cmd {
	return nil
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		if len(m.view.Nodes) > 0 {
			m.selected = (m.selected + 1) % len(m.view.Nodes)
		}
	case "shift+tab":
		if n := len(m.view.Nodes); n > 0 {
			m.selected = (m.selected + n - 1) % n
		}

	case "up", "k":
		m = m.drag(0, -dragStep)
	case "down", "j":
		m = m.drag(0, dragStep)
	case "left", "h":
		m = m.drag(-dragStep, 0)
	case "right", "l":
		m = m.drag(dragStep, 0)

	case "c":
		if err := clipboard.WriteAll(m.session.Text()); err != nil {
			m.status = "clipboard: " + err.Error()
		} else {
			m.status = "source copied to clipboard"
		}

	case "s":
		if err := os.WriteFile(m.path, []byte(m.session.Text()), 0o644); err != nil {
			m.status = "save: " + err.Error()
		} else {
			m.status = "saved " + m.path
			m.dirty = false
		}
	}

	return m, nil
}

// drag moves the selected node by a pixel delta and refreshes the view
// from the rewritten source.
func (m editModel) drag(dx, dy float64) editModel {
	if m.selected < 0 || m.selected >= len(m.view.Nodes) {
		return m
	}
	n := m.view.Nodes[m.selected]

	if _, err := m.session.DragNode(n.Name, canvas.Pixel{X: n.Pos.X + dx, Y: n.Pos.Y + dy}); err != nil {
		m.status = apperr.UserMessage(err)
		return m
	}

	m.view = m.session.View()
	m.dirty = true
	moved := m.view.Node(n.Name)
	m.status = fmt.Sprintf("%s moved to (%.0f, %.0f)", n.Name, moved.Pos.X, moved.Pos.Y)
	return m
}
