package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"jdis/internal/jdis/styles"
)

// model is the interactive listing viewer. Toggling a setting decodes the
// buffer again.
type model struct {
	viewport viewport.Model
	name     string
	code     []byte
	opts     options
	content  string
	count    int
	err      error
	width    int
	height   int
}

func newModel(name string, code []byte, opts options) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(22)

	m := model{
		viewport: vp,
		name:     name,
		code:     code,
		opts:     opts,
		width:    80,
		height:   24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(max(msg.Height-2, 1))
		}

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKey applies the viewer's own keys. Anything else goes to the
// viewport for scrolling.
func (m *model) handleKey(key string) (tea.Cmd, bool) {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit, true
	case "g":
		m.opts.mode = m.opts.otherMode()
	case "a":
		m.opts.absolute = !m.opts.absolute
	case "m":
		m.opts.machineCode = !m.opts.machineCode
	case "n":
		m.opts.annotate = !m.opts.annotate
	case "l":
		m.opts.showAddress = !m.opts.showAddress
	default:
		return nil, false
	}
	m.updateContent()
	return nil, true
}

func (m *model) updateContent() {
	l, err := disassemble(m.code, m.opts)
	lines := renderLines(l, m.opts)
	if err != nil {
		lines = append(lines, "", styles.Error.Render(err.Error()))
	}
	m.count = len(l.stream)
	m.err = err
	m.content = strings.Join(lines, "\n")
	m.viewport.SetContent(m.content)
}

func (m model) header() string {
	parts := []string{
		m.name,
		modeName(m.opts.mode),
		fmt.Sprintf("$%x", m.opts.origin()),
		fmt.Sprintf("%d instructions", m.count),
	}
	for _, s := range []struct {
		on   bool
		name string
	}{
		{m.opts.absolute, "absolute"},
		{m.opts.machineCode, "machine code"},
		{m.opts.annotate, "annotated"},
	} {
		if s.on {
			parts = append(parts, styles.Setting.Render(s.name))
		}
	}
	return styles.Header.Render(strings.Join(parts, "  "))
}

func (m model) View() string {
	menu := " G: GPU/DSP • A: absolute • M: machine code • N: annotate • L: addresses • Q: quit "
	return m.header() + "\n" + m.viewport.View() + "\n" + styles.MenuBar.Width(m.width).Render(menu)
}
