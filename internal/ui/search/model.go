package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/inventree"
	"stocktree/internal/keys"
	"stocktree/internal/model"
	"stocktree/internal/theme"
)

// defaultPageSize is the fallback when no page size is configured.
const defaultPageSize = 20

// CloseMsg signals the parent to leave the search view.
type CloseMsg struct{}

// PartSelectedMsg signals the parent to open a part's detail view.
type PartSelectedMsg struct {
	PartID int
}

type resultsMsg struct {
	query  string
	page   inventree.PartPage
	append bool
	err    error
}

// Model is the free-text part search view.
type Model struct {
	client   *inventree.Client
	keys     *keys.KeyMap
	pageSize int

	input       textinput.Model
	typing      bool
	query       string
	results     []model.Part
	hasMore     bool
	offset      int
	selectedIdx int
	searched    bool

	loading   bool
	statusMsg string
	width     int
	height    int
}

// New creates a new search model.
func New(c *inventree.Client, k *keys.KeyMap, pageSize, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "search parts..."
	ti.Prompt = "/ "
	ti.Width = width - 4

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return Model{
		client:   c,
		keys:     k,
		pageSize: pageSize,
		input:    ti,
		typing:   true,
		width:    width, height: height,
	}
}

// SetClient swaps the API client after connection settings change.
func (m *Model) SetClient(c *inventree.Client) {
	m.client = c
	m.results = nil
	m.searched = false
}

// Focus puts the cursor in the query input.
func (m *Model) Focus() tea.Cmd {
	m.typing = true
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

	case resultsMsg:
		// Results for an abandoned query are dropped.
		if msg.query != m.query {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		if msg.append {
			m.results = append(m.results, msg.page.Parts...)
		} else {
			m.results = msg.page.Parts
			m.selectedIdx = 0
		}
		m.hasMore = msg.page.HasMore
		m.offset = len(m.results)
		m.searched = true
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.handleTypingKey(msg)
		}
		return m.handleResultsKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleTypingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		if m.client == nil {
			m.statusMsg = "No API connection configured. Press 'c' for settings."
			return m, nil
		}
		m.typing = false
		m.input.Blur()
		m.query = query
		m.statusMsg = ""
		m.loading = true
		m.offset = 0
		return m, m.search(query, 0, false)

	case "esc":
		return m, func() tea.Msg { return CloseMsg{} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.typing = true
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Search):
		m.typing = true
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Down):
		if len(m.results) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.results)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.results) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.results) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.results) == 0 {
			return m, nil
		}
		id := m.results[m.selectedIdx].ID
		return m, func() tea.Msg { return PartSelectedMsg{PartID: id} }

	case key.Matches(msg, m.keys.LoadMore):
		if m.hasMore && !m.loading {
			m.loading = true
			return m, m.search(m.query, m.offset, true)
		}
		return m, nil
	}
	return m, nil
}

// View renders the search screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(theme.EmptyStyle.Render("Searching..."))
	case m.searched && len(m.results) == 0:
		b.WriteString(theme.EmptyStyle.Render("No results found"))
	default:
		for i, p := range m.results {
			qty := theme.StockStyle(p.InStock).Render(fmt.Sprintf("%g", p.InStock))
			label := fmt.Sprintf("%s  %s", p.Name, qty)
			if !m.typing && i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
		if m.hasMore {
			b.WriteString("\n")
			b.WriteString(theme.EmptyStyle.Render("m: load more"))
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	if m.typing {
		b.WriteString(theme.HelpStyle.Render("enter search | esc back"))
	} else {
		b.WriteString(theme.HelpStyle.Render("enter open | / new search | m load more | esc edit query"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 4
}

func (m Model) search(query string, offset int, appendPage bool) tea.Cmd {
	c := m.client
	limit := m.pageSize
	return func() tea.Msg {
		page, err := c.Parts(context.Background(), inventree.PartQuery{
			Search: query,
			Limit:  limit,
			Offset: offset,
		})
		return resultsMsg{query: query, page: page, append: appendPage, err: err}
	}
}
