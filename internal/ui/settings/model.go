package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/credential"
	"stocktree/internal/inventree"
	"stocktree/internal/theme"
)

// CloseMsg signals the parent to leave the settings view.
type CloseMsg struct{}

// SavedMsg tells the parent that new connection settings were stored
// and a client should be rebuilt.
type SavedMsg struct {
	BaseURL string
	Token   string
}

type savedResultMsg struct {
	baseURL string
	token   string
	err     error
}

type testResultMsg struct {
	err error
}

type settingsMode int

const (
	modeForm settingsMode = iota
	modeIdle
)

// Model edits the API connection settings. The server URL and token
// are stored in the system keyring, never on disk in the clear.
type Model struct {
	mode    settingsMode
	form    *huh.Form
	baseURL string
	token   string

	testing   bool
	statusMsg string
	statusErr bool
	width     int
	height    int
}

// New creates a new settings model, preloading any stored credentials.
func New(width, height int) Model {
	m := Model{
		mode:  modeIdle,
		width: width, height: height,
	}
	if v, err := credential.Get(credential.KeyAPIURL); err == nil {
		m.baseURL = v
	}
	if v, err := credential.Get(credential.KeyToken); err == nil {
		m.token = v
	}
	return m
}

// Start opens the edit form.
func (m *Model) Start() tea.Cmd {
	m.statusMsg = ""
	m.statusErr = false
	m.form = m.buildForm()
	m.mode = modeForm
	return m.form.Init()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case savedResultMsg:
		if msg.err != nil {
			m.mode = modeIdle
			m.statusMsg = fmt.Sprintf("Could not store credentials: %v", msg.err)
			m.statusErr = true
			return m, nil
		}
		m.baseURL = msg.baseURL
		m.token = msg.token
		m.mode = modeIdle
		m.testing = true
		m.statusMsg = "Saved. Testing connection..."
		m.statusErr = false
		return m, tea.Batch(
			m.testConnection(msg.baseURL, msg.token),
			func() tea.Msg {
				return SavedMsg{BaseURL: msg.baseURL, Token: msg.token}
			},
		)

	case testResultMsg:
		m.testing = false
		switch {
		case msg.err == nil:
			m.statusMsg = "Connection OK"
			m.statusErr = false
		case errors.Is(msg.err, inventree.ErrUnauthorized):
			m.statusMsg = "Connection failed: token rejected"
			m.statusErr = true
		default:
			m.statusMsg = fmt.Sprintf("Connection failed: %v", msg.err)
			m.statusErr = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeForm {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return CloseMsg{} }
		case "e", "enter":
			return m, m.Start()
		}
		return m, nil
	}

	if m.mode == modeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Server URL").
				Placeholder("https://inventree.example.com").
				Value(&m.baseURL).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("server URL is required")
					}
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("must start with http:// or https://")
					}
					return nil
				}),
			huh.NewInput().
				Title("API token").
				EchoMode(huh.EchoModePassword).
				Value(&m.token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("token is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.save()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeIdle
		return m, nil
	}
	return m, cmd
}

// View renders the settings screen.
func (m Model) View() string {
	if m.mode == modeForm && m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	b.WriteString(title.Render("Settings"))
	b.WriteString("\n\n")

	url := m.baseURL
	if url == "" {
		url = theme.EmptyStyle.Render("not set")
	}
	b.WriteString(fmt.Sprintf("Server URL:  %s\n", url))

	tok := theme.EmptyStyle.Render("not set")
	if m.token != "" {
		tok = strings.Repeat("•", 8)
	}
	b.WriteString(fmt.Sprintf("API token:   %s\n", tok))

	if m.statusMsg != "" {
		b.WriteString("\n")
		style := lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true)
		if m.statusErr {
			style = theme.ErrorStyle
		}
		b.WriteString(style.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter edit | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) save() tea.Cmd {
	baseURL := strings.TrimSpace(m.baseURL)
	token := strings.TrimSpace(m.token)
	return func() tea.Msg {
		if err := credential.Set(credential.KeyAPIURL, baseURL); err != nil {
			return savedResultMsg{err: err}
		}
		if err := credential.Set(credential.KeyToken, token); err != nil {
			return savedResultMsg{err: err}
		}
		return savedResultMsg{baseURL: baseURL, token: token}
	}
}

// testConnection verifies the stored settings with a cheap request.
func (m Model) testConnection(baseURL, token string) tea.Cmd {
	return func() tea.Msg {
		c := inventree.NewClient(baseURL, token)
		_, err := c.Categories(context.Background())
		return testResultMsg{err: err}
	}
}
