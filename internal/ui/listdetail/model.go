package listdetail

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/aggregate"
	"stocktree/internal/keys"
	"stocktree/internal/model"
	"stocktree/internal/store"
	"stocktree/internal/theme"
)

// CloseMsg signals the parent to leave the list detail view.
type CloseMsg struct{}

// PartSelectedMsg signals the parent to open a part from a list row.
type PartSelectedMsg struct {
	PartID      int
	StockItemID int
}

type listLoadedMsg struct {
	list model.List
	err  error
}

// aggregatedMsg carries one aggregation result, tagged with the
// sequence number of the pass that produced it.
type aggregatedMsg struct {
	seq  uint64
	rows []model.MergedPart
}

type itemsRemovedMsg struct {
	list model.List
	err  error
}

// Lookups bundles the two remote lookup sides the aggregator needs.
type Lookups struct {
	Parts aggregate.PartLookup
	Stock aggregate.StockLookup
}

// Model is the aggregated view of one saved list.
type Model struct {
	store       store.Store
	lookups     *Lookups
	keys        *keys.KeyMap
	listID      string
	list        model.List
	rows        []model.MergedPart
	selectedIdx int

	// seq counts aggregation passes; results from passes older than
	// the latest are dropped on arrival.
	seq uint64

	selecting bool
	marked    map[int]bool

	loading   bool
	statusMsg string
	width     int
	height    int
}

// New creates a new list detail model.
func New(s store.Store, lk *Lookups, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:   s,
		lookups: lk,
		keys:    k,
		marked:  make(map[int]bool),
		width:   width, height: height,
	}
}

// SetLookups swaps the remote lookup sides, typically after the API
// connection settings change.
func (m *Model) SetLookups(lk *Lookups) {
	m.lookups = lk
}

// Open resets the view onto a list and starts loading it.
func (m *Model) Open(listID string) tea.Cmd {
	m.listID = listID
	m.list = model.List{}
	m.rows = nil
	m.selectedIdx = 0
	m.selecting = false
	m.marked = make(map[int]bool)
	m.statusMsg = ""
	m.loading = true
	return m.loadList()
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

	case listLoadedMsg:
		if msg.err != nil {
			m.loading = false
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.list = msg.list
		return m, m.aggregateList()

	case aggregatedMsg:
		// A newer pass has started since this one; its result is stale.
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.rows = msg.rows
		if m.selectedIdx >= len(m.rows) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.rows) - 1
		}
		return m, nil

	case itemsRemovedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.list = msg.list
		m.selecting = false
		m.marked = make(map[int]bool)
		m.statusMsg = "Items removed"
		m.loading = true
		return m, m.aggregateList()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if m.selecting {
			m.selecting = false
			m.marked = make(map[int]bool)
			return m, nil
		}
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.rows) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.rows)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.rows) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.rows) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.statusMsg = ""
		return m, m.loadList()

	case key.Matches(msg, m.keys.Mark):
		if len(m.rows) == 0 {
			return m, nil
		}
		m.selecting = true
		m.marked[m.selectedIdx] = !m.marked[m.selectedIdx]
		if !m.marked[m.selectedIdx] {
			delete(m.marked, m.selectedIdx)
		}
		return m, nil

	case key.Matches(msg, m.keys.Remove):
		if !m.selecting || len(m.marked) == 0 {
			return m, nil
		}
		return m, m.removeMarked()

	case key.Matches(msg, m.keys.Select):
		if m.selecting || len(m.rows) == 0 {
			return m, nil
		}
		row := m.rows[m.selectedIdx]
		return m, func() tea.Msg {
			return PartSelectedMsg{
				PartID:      row.Part.ID,
				StockItemID: row.StockItemID,
			}
		}
	}
	return m, nil
}

// View renders the aggregated list.
func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	b.WriteString(title.Render(m.list.Name))
	if m.selecting {
		b.WriteString(theme.MarkedStyle.Render(fmt.Sprintf("  [%d marked]", len(m.marked))))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(theme.EmptyStyle.Render("Loading..."))
	case len(m.rows) == 0:
		b.WriteString(theme.EmptyStyle.Render("This list is empty. Add parts from the part view."))
	default:
		for i, row := range m.rows {
			b.WriteString(m.renderRow(i, row))
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	if m.selecting {
		b.WriteString(theme.HelpStyle.Render("space toggle | x remove marked | esc cancel"))
	} else {
		b.WriteString(theme.HelpStyle.Render("enter open | space select | r refresh | esc back"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) renderRow(i int, row model.MergedPart) string {
	mark := "  "
	if m.marked[i] {
		mark = theme.MarkedStyle.Render("✓ ")
	}

	label := fmt.Sprintf("%s @ %s", row.Part.Name, row.StockName)
	qty := theme.StockStyle(row.AvailableStock).Render(fmt.Sprintf("%g", row.AvailableStock))

	line := fmt.Sprintf("%s  %s", label, qty)
	if row.Incomplete() {
		line += "  " + theme.ErrorStyle.Render("incomplete data")
	}

	if i == m.selectedIdx {
		return mark + theme.SelectedItemStyle.Render(line)
	}
	return mark + theme.ListItemStyle.Render(line)
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) loadList() tea.Cmd {
	s := m.store
	id := m.listID
	return func() tea.Msg {
		l, err := s.ListByID(context.Background(), id)
		return listLoadedMsg{list: l, err: err}
	}
}

// aggregateList starts a new aggregation pass over the current list.
// The receiver is a pointer so the bumped sequence number survives.
func (m *Model) aggregateList() tea.Cmd {
	m.seq++
	seq := m.seq
	list := m.list
	lk := m.lookups
	return func() tea.Msg {
		if lk == nil {
			return aggregatedMsg{seq: seq, rows: placeholderRows(list)}
		}
		rows := aggregate.Resolve(context.Background(), list, lk.Parts, lk.Stock)
		return aggregatedMsg{seq: seq, rows: rows}
	}
}

// placeholderRows renders a list entirely offline, every row flagged
// incomplete, when no API connection is configured.
func placeholderRows(list model.List) []model.MergedPart {
	rows := make([]model.MergedPart, 0, len(list.Items))
	for _, item := range list.Items {
		rows = append(rows, model.MergedPart{
			Part:         model.Part{ID: item.PartID, Name: model.UnknownPartName},
			StockItemID:  item.StockItemID,
			StockName:    model.UnknownLocation,
			PartMissing:  true,
			StockMissing: true,
		})
	}
	return rows
}

func (m Model) removeMarked() tea.Cmd {
	s := m.store
	id := m.listID
	selected := make([]model.ListItem, 0, len(m.marked))
	for i := range m.marked {
		if i < len(m.list.Items) {
			selected = append(selected, m.list.Items[i])
		}
	}
	return func() tea.Msg {
		l, err := s.RemoveItems(context.Background(), id, selected)
		return itemsRemovedMsg{list: l, err: err}
	}
}
