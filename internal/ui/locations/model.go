package locations

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

// CloseMsg signals the parent to leave the locations view.
type CloseMsg struct{}

// StockSelectedMsg signals the parent to open the part behind a stock
// record.
type StockSelectedMsg struct {
	PartID      int
	StockItemID int
}

type locationsLoadedMsg struct {
	locations []model.StorageLocation
	err       error
}

type stockLoadedMsg struct {
	page   inventree.StockPage
	names  map[int]model.Part
	append bool
	err    error
}

type crumb struct {
	location model.StorageLocation
	idx      int
}

// Model walks the storage location tree. Each level shows the child
// locations followed by the stock held directly at the current
// location, with part names resolved best-effort.
type Model struct {
	client   *inventree.Client
	keys     *keys.KeyMap
	pageSize int

	trail       []crumb
	locations   []model.StorageLocation
	stock       []model.StockItem
	partNames   map[int]model.Part
	hasMore     bool
	offset      int
	selectedIdx int

	loading   bool
	statusMsg string
	width     int
	height    int
}

// New creates a new locations model.
func New(c *inventree.Client, k *keys.KeyMap, pageSize, width, height int) Model {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return Model{
		client:    c,
		keys:      k,
		pageSize:  pageSize,
		partNames: make(map[int]model.Part),
		loading:   c != nil,
		width:     width, height: height,
	}
}

// SetClient swaps the API client after connection settings change.
func (m *Model) SetClient(c *inventree.Client) {
	m.client = c
	m.trail = nil
	m.locations = nil
	m.stock = nil
	m.partNames = make(map[int]model.Part)
	m.selectedIdx = 0
	m.loading = c != nil
}

// OpenLocation jumps straight to one location, used by scanned
// location codes. The trail is reset to that location.
func (m *Model) OpenLocation(id int, name string) tea.Cmd {
	if m.client == nil {
		return nil
	}
	m.trail = []crumb{{location: model.StorageLocation{ID: id, Name: name}}}
	m.selectedIdx = 0
	m.statusMsg = ""
	return m.loadLevel(id)
}

// Init starts loading the top-level locations.
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

	case locationsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.locations = msg.locations
		if m.selectedIdx >= m.rowCount() {
			m.selectedIdx = 0
		}
		return m, nil

	case stockLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		if msg.append {
			m.stock = append(m.stock, msg.page.Items...)
		} else {
			m.stock = msg.page.Items
		}
		for id, p := range msg.names {
			m.partNames[id] = p
		}
		m.hasMore = msg.page.HasMore
		m.offset = len(m.stock)
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
		return m, m.loadLevel(m.currentLocationID())

	case key.Matches(msg, m.keys.LoadMore):
		if m.hasMore && !m.loading && m.client != nil {
			m.loading = true
			return m, m.loadStock(m.currentLocationID(), m.offset, true)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) rowCount() int {
	return len(m.locations) + len(m.stock)
}

func (m Model) currentLocationID() int {
	if len(m.trail) == 0 {
		return 0
	}
	return m.trail[len(m.trail)-1].location.ID
}

func (m Model) open() (Model, tea.Cmd) {
	if m.client == nil || m.loading {
		return m, nil
	}

	if m.selectedIdx < len(m.locations) {
		loc := m.locations[m.selectedIdx]
		m.trail = append(m.trail, crumb{location: loc, idx: m.selectedIdx})
		m.statusMsg = ""
		m.selectedIdx = 0
		return m, m.loadLevel(loc.ID)
	}

	stockIdx := m.selectedIdx - len(m.locations)
	if stockIdx >= len(m.stock) {
		return m, nil
	}
	item := m.stock[stockIdx]
	return m, func() tea.Msg {
		return StockSelectedMsg{PartID: item.PartID, StockItemID: item.ID}
	}
}

func (m Model) ascend() (Model, tea.Cmd) {
	if len(m.trail) == 0 {
		return m, func() tea.Msg { return CloseMsg{} }
	}

	last := m.trail[len(m.trail)-1]
	m.trail = m.trail[:len(m.trail)-1]
	m.selectedIdx = last.idx
	m.statusMsg = ""
	return m, m.loadLevel(m.currentLocationID())
}

// loadLevel loads the child locations and the stock of one location.
// The receiver is a pointer so the loading flag survives.
func (m *Model) loadLevel(locationID int) tea.Cmd {
	m.loading = true
	m.locations = nil
	m.stock = nil
	m.hasMore = false
	m.offset = 0

	cmds := []tea.Cmd{m.loadLocations(locationID)}
	if locationID > 0 {
		cmds = append(cmds, m.loadStock(locationID, 0, false))
	}
	return tea.Batch(cmds...)
}

// View renders the locations screen.
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
		b.WriteString(theme.EmptyStyle.Render("Nothing stored here."))
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
	parts := []string{"Locations"}
	for _, c := range m.trail {
		parts = append(parts, c.location.Name)
	}
	return strings.Join(parts, " › ")
}

func (m Model) renderRows() string {
	var b strings.Builder
	for i, loc := range m.locations {
		label := "▸ " + loc.Name
		if loc.ItemCount > 0 {
			label = fmt.Sprintf("▸ %s (%d items)", loc.Name, loc.ItemCount)
		}
		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}
	for i, item := range m.stock {
		name := model.UnknownPartName
		if p, ok := m.partNames[item.PartID]; ok {
			name = p.Name
		}
		qty := theme.StockStyle(item.Quantity).Render(fmt.Sprintf("%g", item.Quantity))
		label := fmt.Sprintf("%s  %s", name, qty)
		if i+len(m.locations) == m.selectedIdx {
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

func (m Model) loadLocations(parentID int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var (
			locs []model.StorageLocation
			err  error
		)
		if parentID == 0 {
			locs, err = c.Locations(context.Background())
		} else {
			locs, err = c.Sublocations(context.Background(), parentID)
		}
		return locationsLoadedMsg{locations: locs, err: err}
	}
}

// loadStock fetches one stock page and resolves the part names on it
// in the same command, so rows render with names on arrival.
func (m Model) loadStock(locationID, offset int, appendPage bool) tea.Cmd {
	c := m.client
	limit := m.pageSize
	return func() tea.Msg {
		ctx := context.Background()
		page, err := c.Stock(ctx, inventree.StockQuery{
			Location: locationID,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			return stockLoadedMsg{err: err}
		}

		ids := make([]int, 0, len(page.Items))
		for _, item := range page.Items {
			ids = append(ids, item.PartID)
		}
		names := c.FetchParts(ctx, ids)
		return stockLoadedMsg{page: page, names: names, append: appendPage}
	}
}
