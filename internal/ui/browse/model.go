package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/inventree"
	"stocktree/internal/keys"
	"stocktree/internal/model"
	"stocktree/internal/theme"
)

// defaultPageSize is the fallback when no page size is configured.
const defaultPageSize = 20

// CloseMsg signals the parent to leave the browse view.
type CloseMsg struct{}

// PartSelectedMsg signals the parent to open a part's detail view.
type PartSelectedMsg struct {
	PartID int
}

type categoriesLoadedMsg struct {
	categories []model.Category
	err        error
}

type partsLoadedMsg struct {
	page   inventree.PartPage
	append bool
	err    error
}

// crumb is one step of the category descent.
type crumb struct {
	category model.Category
	idx      int
}

// Model is the category browser. Each level shows the subcategories of
// the current category followed by the parts filed directly under it,
// as one combined cursor list.
type Model struct {
	client   *inventree.Client
	keys     *keys.KeyMap
	pageSize int

	trail       []crumb
	categories  []model.Category
	parts       []model.Part
	hasMore     bool
	offset      int
	selectedIdx int

	loading   bool
	statusMsg string
	width     int
	height    int
}

// New creates a new browse model. The client may be nil when the API
// connection is not configured yet.
func New(c *inventree.Client, k *keys.KeyMap, pageSize, width, height int) Model {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return Model{
		client:   c,
		keys:     k,
		pageSize: pageSize,
		loading:  c != nil,
		width:    width, height: height,
	}
}

// SetClient swaps the API client after connection settings change.
func (m *Model) SetClient(c *inventree.Client) {
	m.client = c
	m.trail = nil
	m.categories = nil
	m.parts = nil
	m.selectedIdx = 0
	m.loading = c != nil
}

// Init starts loading the top-level categories.
func (m Model) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return m.loadLevel(0)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case categoriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.categories = msg.categories
		if m.selectedIdx >= m.rowCount() {
			m.selectedIdx = 0
		}
		return m, nil

	case partsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		if msg.append {
			m.parts = append(m.parts, msg.page.Parts...)
		} else {
			m.parts = msg.page.Parts
		}
		m.hasMore = msg.page.HasMore
		m.offset = len(m.parts)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.ascend()

	case key.Matches(msg, m.keys.Down):
		if n := m.rowCount(); n > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n := m.rowCount(); n > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = n - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		return m.open()

	case key.Matches(msg, m.keys.Refresh):
		if m.client == nil {
			return m, nil
		}
		m.statusMsg = ""
		return m, m.loadLevel(m.currentCategoryID())

	case key.Matches(msg, m.keys.LoadMore):
		if m.hasMore && !m.loading && m.client != nil {
			m.loading = true
			return m, m.loadParts(m.currentCategoryID(), m.offset, true)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) rowCount() int {
	return len(m.categories) + len(m.parts)
}

func (m Model) currentCategoryID() int {
	if len(m.trail) == 0 {
		return 0
	}
	return m.trail[len(m.trail)-1].category.ID
}

// open descends into the selected category or opens the selected part.
func (m Model) open() (Model, tea.Cmd) {
	if m.client == nil || m.loading {
		return m, nil
	}

	if m.selectedIdx < len(m.categories) {
		cat := m.categories[m.selectedIdx]
		m.trail = append(m.trail, crumb{category: cat, idx: m.selectedIdx})
		m.statusMsg = ""
		m.selectedIdx = 0
		return m, m.loadLevel(cat.ID)
	}

	partIdx := m.selectedIdx - len(m.categories)
	if partIdx >= len(m.parts) {
		return m, nil
	}
	id := m.parts[partIdx].ID
	return m, func() tea.Msg { return PartSelectedMsg{PartID: id} }
}

// ascend steps back up one level, or closes the view from the top.
func (m Model) ascend() (Model, tea.Cmd) {
	if len(m.trail) == 0 {
		return m, func() tea.Msg { return CloseMsg{} }
	}

	last := m.trail[len(m.trail)-1]
	m.trail = m.trail[:len(m.trail)-1]
	m.selectedIdx = last.idx
	m.statusMsg = ""
	return m, m.loadLevel(m.currentCategoryID())
}

// loadLevel loads both the subcategories and the parts of one category.
// The receiver is a pointer so the loading flag survives.
func (m *Model) loadLevel(categoryID int) tea.Cmd {
	m.loading = true
	m.categories = nil
	m.parts = nil
	m.hasMore = false
	m.offset = 0

	cmds := []tea.Cmd{m.loadCategories(categoryID)}
	if categoryID > 0 {
		cmds = append(cmds, m.loadParts(categoryID, 0, false))
	}
	return tea.Batch(cmds...)
}

// View renders the browse screen.
func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	b.WriteString(title.Render(m.breadcrumb()))
	b.WriteString("\n\n")

	switch {
	case m.client == nil:
		b.WriteString(theme.EmptyStyle.Render("No API connection configured.\nPress 'c' to open settings."))
	case m.loading:
		b.WriteString(theme.EmptyStyle.Render("Loading..."))
	case m.rowCount() == 0:
		b.WriteString(theme.EmptyStyle.Render("Nothing here."))
	default:
		b.WriteString(m.renderRows())
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter open | m load more | r refresh | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) breadcrumb() string {
	parts := []string{"Categories"}
	for _, c := range m.trail {
		parts = append(parts, c.category.Name)
	}
	return strings.Join(parts, " › ")
}

func (m Model) renderRows() string {
	var b strings.Builder
	for i, c := range m.categories {
		label := "▸ " + c.Name
		if c.PartCount > 0 {
			label = fmt.Sprintf("▸ %s (%d parts)", c.Name, c.PartCount)
		}
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	for i, p := range m.parts {
		qty := theme.StockStyle(p.InStock).Render(fmt.Sprintf("%g", p.InStock))
		label := fmt.Sprintf("%s  %s", p.Name, qty)
		if i+len(m.categories) == m.selectedIdx {
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
	return b.String()
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) loadCategories(parentID int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var (
			cats []model.Category
			err  error
		)
		if parentID == 0 {
			cats, err = c.Categories(context.Background())
		} else {
			cats, err = c.Subcategories(context.Background(), parentID)
		}
		return categoriesLoadedMsg{categories: cats, err: err}
	}
}

func (m Model) loadParts(categoryID, offset int, appendPage bool) tea.Cmd {
	c := m.client
	limit := m.pageSize
	return func() tea.Msg {
		page, err := c.Parts(context.Background(), inventree.PartQuery{
			Category: categoryID,
			Limit:    limit,
			Offset:   offset,
		})
		return partsLoadedMsg{page: page, append: appendPage, err: err}
	}
}
