package myparts

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/aggregate"
	"stocktree/internal/keys"
	"stocktree/internal/model"
	"stocktree/internal/store"
	"stocktree/internal/theme"
)

// CloseMsg signals the parent to leave the my parts view.
type CloseMsg struct{}

// PartSelectedMsg signals the parent to open a picked part.
type PartSelectedMsg struct {
	PartID      int
	StockItemID int
}

type selectionLoadedMsg struct {
	selection []model.SelectedPart
	err       error
}

type resolvedMsg struct {
	seq  uint64
	rows []model.MergedPart
}

type entryRemovedMsg struct{ err error }
type clearedMsg struct{ err error }

// Lookups bundles the remote lookup sides used to resolve the
// selection for display.
type Lookups struct {
	Parts aggregate.PartLookup
	Stock aggregate.StockLookup
}

// Model shows the flat personal parts selection, resolved best-effort
// against remote data.
type Model struct {
	store   store.Store
	lookups *Lookups
	keys    *keys.KeyMap

	selection   []model.SelectedPart
	rows        []model.MergedPart
	selectedIdx int
	seq         uint64

	confirmForm  *huh.Form
	confirmClear bool
	confirming   bool

	loading   bool
	statusMsg string
	width     int
	height    int
}

// New creates a new my parts model.
func New(s store.Store, lk *Lookups, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:   s,
		lookups: lk,
		keys:    k,
		width:   width, height: height,
	}
}

// SetLookups swaps the remote lookup sides after settings change.
func (m *Model) SetLookups(lk *Lookups) {
	m.lookups = lk
}

// Init loads the selection from the store.
func (m Model) Init() tea.Cmd {
	return m.loadSelection()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case selectionLoadedMsg:
		if msg.err != nil {
			m.loading = false
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.selection = msg.selection
		m.loading = true
		return m, m.resolve()

	case resolvedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.rows = msg.rows
		if m.selectedIdx >= len(m.rows) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.rows) - 1
		}
		return m, nil

	case entryRemovedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Removed"
		return m, m.loadSelection()

	case clearedMsg:
		m.confirming = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Selection cleared"
		return m, m.loadSelection()

	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.handleKey(msg)
	}

	if m.confirming {
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
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

	case key.Matches(msg, m.keys.Select):
		if len(m.rows) == 0 {
			return m, nil
		}
		row := m.rows[m.selectedIdx]
		return m, func() tea.Msg {
			return PartSelectedMsg{PartID: row.Part.ID, StockItemID: row.StockItemID}
		}

	case key.Matches(msg, m.keys.Refresh):
		m.statusMsg = ""
		return m, m.loadSelection()

	case key.Matches(msg, m.keys.Delete):
		if len(m.rows) == 0 {
			return m, nil
		}
		return m, m.removeEntry(m.rows[m.selectedIdx].Part.ID)

	case key.Matches(msg, m.keys.Remove):
		if len(m.rows) == 0 {
			return m, nil
		}
		m.confirmClear = false
		m.confirmForm = m.buildConfirmForm()
		m.confirming = true
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildConfirmForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clear all picked parts?").
				Affirmative("Yes, clear").
				Negative("Cancel").
				Value(&m.confirmClear),
		),
	).WithWidth(m.width - 4).WithHeight(m.height - 4)
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.confirmClear {
			return m, m.clearAll()
		}
		m.confirming = false
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.confirming = false
		return m, nil
	}
	return m, cmd
}

// View renders the my parts screen.
func (m Model) View() string {
	if m.confirming && m.confirmForm != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	b.WriteString(title.Render("My Parts"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(theme.EmptyStyle.Render("Loading..."))
	case len(m.rows) == 0:
		b.WriteString(theme.EmptyStyle.Render("No picked parts. Press 'p' on a part to pick it."))
	default:
		for i, row := range m.rows {
			label := fmt.Sprintf("%s @ %s", row.Part.Name, row.StockName)
			qty := theme.StockStyle(row.AvailableStock).Render(fmt.Sprintf("%g", row.AvailableStock))
			line := fmt.Sprintf("%s  %s", label, qty)
			if row.Incomplete() {
				line += "  " + theme.ErrorStyle.Render("incomplete data")
			}
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter open | d remove | x clear all | r refresh | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) loadSelection() tea.Cmd {
	m.loading = true
	s := m.store
	return func() tea.Msg {
		sel, err := s.SelectedParts(context.Background())
		return selectionLoadedMsg{selection: sel, err: err}
	}
}

// resolve renders the selection through the same merge the list detail
// uses, treating the selection as an anonymous list.
func (m *Model) resolve() tea.Cmd {
	m.seq++
	seq := m.seq
	lk := m.lookups
	items := make([]model.ListItem, 0, len(m.selection))
	for _, sp := range m.selection {
		items = append(items, model.ListItem{PartID: sp.PartID, StockItemID: sp.StockItemID})
	}
	list := model.List{Items: items}
	return func() tea.Msg {
		if lk == nil {
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
			return resolvedMsg{seq: seq, rows: rows}
		}
		rows := aggregate.Resolve(context.Background(), list, lk.Parts, lk.Stock)
		return resolvedMsg{seq: seq, rows: rows}
	}
}

func (m Model) removeEntry(partID int) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.RemoveSelectedPart(context.Background(), partID)
		return entryRemovedMsg{err: err}
	}
}

func (m Model) clearAll() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.ClearSelectedParts(context.Background())
		return clearedMsg{err: err}
	}
}
