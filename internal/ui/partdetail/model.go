package partdetail

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/inventree"
	"stocktree/internal/keys"
	"stocktree/internal/model"
	"stocktree/internal/store"
	"stocktree/internal/theme"
)

// defaultPageSize is the fallback when no page size is configured.
const defaultPageSize = 20

// CloseMsg signals the parent to leave the part detail view.
type CloseMsg struct{}

type partLoadedMsg struct {
	part model.Part
	err  error
}

type stockLoadedMsg struct {
	page      inventree.StockPage
	append    bool
	preselect int
	err       error
}

type stockRemovedMsg struct{ err error }

type addedToListMsg struct {
	listName string
	err      error
}

type pickedMsg struct{ err error }

type listsLoadedMsg struct {
	lists []model.List
}

type detailMode int

const (
	modeView detailMode = iota
	modeAdjust
	modePickList
)

// Model shows one part with its stock records and the actions on them.
type Model struct {
	client   *inventree.Client
	store    store.Store
	keys     *keys.KeyMap
	pageSize int

	mode   detailMode
	partID int
	part   model.Part

	stock       []model.StockItem
	hasMore     bool
	offset      int
	selectedIdx int

	adjustForm *huh.Form
	adjustQty  string

	pickForm   *huh.Form
	pickListID string
	lists      []model.List

	loading   bool
	statusMsg string
	width     int
	height    int
}

// New creates a new part detail model.
func New(c *inventree.Client, s store.Store, k *keys.KeyMap, pageSize, width, height int) Model {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return Model{
		client:   c,
		store:    s,
		keys:     k,
		pageSize: pageSize,
		width:    width, height: height,
	}
}

// SetClient swaps the API client after connection settings change.
func (m *Model) SetClient(c *inventree.Client) {
	m.client = c
}

// Open resets the view onto a part and starts loading it. A non-zero
// stockItemID preselects that stock row once loaded.
func (m *Model) Open(partID, stockItemID int) tea.Cmd {
	m.mode = modeView
	m.partID = partID
	m.part = model.Part{}
	m.stock = nil
	m.selectedIdx = 0
	m.offset = 0
	m.statusMsg = ""
	if m.client == nil {
		return nil
	}
	m.loading = true
	return tea.Batch(
		m.loadPart(partID),
		m.loadStock(partID, 0, false, stockItemID),
	)
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

	case partLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.part = msg.part
		return m, nil

	case stockLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		if msg.append {
			m.stock = append(m.stock, msg.page.Items...)
		} else {
			m.stock = msg.page.Items
			m.selectedIdx = 0
		}
		if msg.preselect > 0 {
			for i, item := range m.stock {
				if item.ID == msg.preselect {
					m.selectedIdx = i
					break
				}
			}
		}
		m.hasMore = msg.page.HasMore
		m.offset = len(m.stock)
		return m, nil

	case stockRemovedMsg:
		m.mode = modeView
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Stock updated"
		m.loading = true
		return m, tea.Batch(
			m.loadPart(m.partID),
			m.loadStock(m.partID, 0, false, 0),
		)

	case addedToListMsg:
		m.mode = modeView
		if msg.err != nil {
			m.statusMsg = alertText(msg.err)
		} else {
			m.statusMsg = fmt.Sprintf("Added to %s", msg.listName)
		}
		return m, nil

	case pickedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Added to my parts"
		}
		return m, nil

	case listsLoadedMsg:
		m.lists = msg.lists
		if len(m.lists) == 0 {
			m.statusMsg = "No lists yet. Create one from My Lists first."
			return m, nil
		}
		m.pickListID = m.lists[0].ID
		m.pickForm = m.buildPickForm()
		m.mode = modePickList
		return m, m.pickForm.Init()

	case tea.KeyMsg:
		switch m.mode {
		case modeAdjust:
			return m.updateAdjustForm(msg)
		case modePickList:
			return m.updatePickForm(msg)
		}
		return m.handleViewKey(msg)
	}

	switch m.mode {
	case modeAdjust:
		return m.updateAdjustForm(msg)
	case modePickList:
		return m.updatePickForm(msg)
	}
	return m, nil
}

func alertText(err error) string {
	if errors.Is(err, store.ErrDuplicateItem) {
		return "This part is already on that list."
	}
	return fmt.Sprintf("Error: %v", err)
}

func (m Model) handleViewKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.stock) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.stock)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.stock) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.stock) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.client == nil {
			return m, nil
		}
		m.statusMsg = ""
		m.loading = true
		return m, tea.Batch(
			m.loadPart(m.partID),
			m.loadStock(m.partID, 0, false, 0),
		)

	case key.Matches(msg, m.keys.LoadMore):
		if m.hasMore && m.client != nil {
			return m, m.loadStock(m.partID, m.offset, true, 0)
		}
		return m, nil

	case key.Matches(msg, m.keys.Adjust):
		if len(m.stock) == 0 || m.client == nil {
			return m, nil
		}
		m.adjustQty = ""
		m.statusMsg = ""
		m.adjustForm = m.buildAdjustForm()
		m.mode = modeAdjust
		return m, m.adjustForm.Init()

	case key.Matches(msg, m.keys.AddToList):
		if len(m.stock) == 0 {
			return m, nil
		}
		m.statusMsg = ""
		return m, m.loadLists()

	case key.Matches(msg, m.keys.Pick):
		m.statusMsg = ""
		return m, m.pickPart()
	}
	return m, nil
}

// buildAdjustForm asks for the quantity to remove from the selected
// stock record. Input above the available quantity is clamped, so the
// validation only rejects values that do not parse.
func (m Model) buildAdjustForm() *huh.Form {
	item := m.stock[m.selectedIdx]
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Remove from %s (available: %g)", item.LocationName, item.Quantity)).
				Placeholder("quantity").
				Value(&m.adjustQty).
				Validate(func(s string) error {
					if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
						return fmt.Errorf("enter a number")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildPickForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(m.lists))
	for _, l := range m.lists {
		opts = append(opts, huh.NewOption(l.Name, l.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Add to list").
				Options(opts...).
				Value(&m.pickListID),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateAdjustForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.adjustForm == nil {
		return m, nil
	}
	mdl, cmd := m.adjustForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.adjustForm = f
	}
	if m.adjustForm.State == huh.StateCompleted {
		return m, m.removeStock()
	}
	if m.adjustForm.State == huh.StateAborted {
		m.mode = modeView
		return m, nil
	}
	return m, cmd
}

func (m Model) updatePickForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.pickForm == nil {
		return m, nil
	}
	mdl, cmd := m.pickForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.pickForm = f
	}
	if m.pickForm.State == huh.StateCompleted {
		return m, m.addToList(m.pickListID)
	}
	if m.pickForm.State == huh.StateAborted {
		m.mode = modeView
		return m, nil
	}
	return m, cmd
}

// View renders the part detail screen.
func (m Model) View() string {
	switch m.mode {
	case modeAdjust:
		return m.viewForm(m.adjustForm)
	case modePickList:
		return m.viewForm(m.pickForm)
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	name := m.part.Name
	if name == "" {
		name = fmt.Sprintf("Part #%d", m.partID)
	}
	b.WriteString(title.Render(name))
	b.WriteString("\n")

	if m.part.Description != "" {
		b.WriteString(theme.EmptyStyle.Render(m.part.Description))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("In stock: %s",
		theme.StockStyle(m.part.InStock).Render(fmt.Sprintf("%g", m.part.InStock))))
	b.WriteString("\n\n")

	switch {
	case m.client == nil:
		b.WriteString(theme.EmptyStyle.Render("No API connection configured.\nPress 'c' to open settings."))
	case m.loading:
		b.WriteString(theme.EmptyStyle.Render("Loading..."))
	case len(m.stock) == 0:
		b.WriteString(theme.EmptyStyle.Render("No stock records for this part."))
	default:
		for i, item := range m.stock {
			qty := theme.StockStyle(item.Quantity).Render(fmt.Sprintf("%g", item.Quantity))
			label := fmt.Sprintf("%s  %s", item.LocationName, qty)
			if item.Serial != model.UnknownSerial {
				label += fmt.Sprintf("  sn:%s", item.Serial)
			}
			if i == m.selectedIdx {
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
	b.WriteString(theme.HelpStyle.Render("a adjust | l add to list | p my parts | r refresh | esc back"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
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

func (m Model) loadPart(id int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.Part(context.Background(), id)
		return partLoadedMsg{part: p, err: err}
	}
}

// loadStock fetches one stock page. A non-zero preselect moves the
// cursor to that record once the page arrives.
func (m Model) loadStock(partID, offset int, appendPage bool, preselect int) tea.Cmd {
	c := m.client
	limit := m.pageSize
	return func() tea.Msg {
		page, err := c.Stock(context.Background(), inventree.StockQuery{
			Part:   partID,
			Limit:  limit,
			Offset: offset,
		})
		return stockLoadedMsg{page: page, append: appendPage, preselect: preselect, err: err}
	}
}

func (m Model) removeStock() tea.Cmd {
	c := m.client
	item := m.stock[m.selectedIdx]
	requested, _ := strconv.ParseFloat(strings.TrimSpace(m.adjustQty), 64)
	return func() tea.Msg {
		qty := inventree.ClampRemoval(requested, item.Quantity)
		err := c.RemoveStock(context.Background(), item.ID, qty)
		return stockRemovedMsg{err: err}
	}
}

func (m Model) loadLists() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		lists, err := s.Lists(context.Background())
		if err != nil {
			return listsLoadedMsg{}
		}
		return listsLoadedMsg{lists: lists}
	}
}

func (m Model) addToList(listID string) tea.Cmd {
	s := m.store
	item := model.ListItem{PartID: m.partID}
	if len(m.stock) > 0 {
		item.StockItemID = m.stock[m.selectedIdx].ID
	}
	name := ""
	for _, l := range m.lists {
		if l.ID == listID {
			name = l.Name
		}
	}
	return func() tea.Msg {
		_, err := s.AddListItem(context.Background(), listID, item)
		return addedToListMsg{listName: name, err: err}
	}
}

func (m Model) pickPart() tea.Cmd {
	s := m.store
	p := model.SelectedPart{PartID: m.partID, Timestamp: time.Now().UnixMilli()}
	if len(m.stock) > 0 {
		p.StockItemID = m.stock[m.selectedIdx].ID
	}
	return func() tea.Msg {
		err := s.AddSelectedPart(context.Background(), p)
		return pickedMsg{err: err}
	}
}
