package scan

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/qr"
	"stocktree/internal/theme"
)

// CloseMsg signals the parent to leave the scan view.
type CloseMsg struct{}

// TargetMsg carries a parsed code for the parent to navigate to.
type TargetMsg struct {
	Target qr.Target
}

// Model accepts a decoded QR payload. The decode itself happens
// outside the terminal (a hardware scanner typing into stdin, or a
// pasted payload); this view only parses and routes it.
type Model struct {
	input  textinput.Model
	errMsg string
	width  int
	height int
}

// New creates a new scan model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "scan or paste a code..."
	ti.Prompt = "> "
	ti.Width = width - 4

	return Model{
		input: ti,
		width: width, height: height,
	}
}

// Focus puts the cursor in the payload input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	m.errMsg = ""
	return m.input.Focus()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return CloseMsg{} }

		case "enter":
			payload := m.input.Value()
			target, err := qr.Parse(payload)
			if err != nil {
				m.errMsg = "Not a recognized code. Expected a part ID or \"id;name\"."
				m.input.Reset()
				return m, nil
			}
			return m, func() tea.Msg { return TargetMsg{Target: target} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the scan screen.
func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	b.WriteString(title.Render("Scan"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render(m.errMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter go | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
}
