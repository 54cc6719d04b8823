package listindex

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"stocktree/internal/keys"
	"stocktree/internal/model"
	"stocktree/internal/store"
	"stocktree/internal/theme"
)

// CloseMsg signals the parent to leave the lists view.
type CloseMsg struct{}

// ListSelectedMsg signals the parent to open one list.
type ListSelectedMsg struct {
	ListID string
}

type listMode int

const (
	modeBrowse listMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name    string
	confirm bool
}

type listsLoadedMsg struct {
	lists []model.List
}

type listSavedMsg struct{ err error }
type listDeletedMsg struct{ err error }

// Model is the Bubble Tea model for the user's saved lists.
type Model struct {
	mode        listMode
	store       store.Store
	keys        *keys.KeyMap
	lists       []model.List
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new lists model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeBrowse,
		store: s,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads the lists from the store.
func (m Model) Init() tea.Cmd {
	return m.loadLists()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case listsLoadedMsg:
		m.lists = msg.lists
		if m.selectedIdx >= len(m.lists) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.lists) - 1
		}
		return m, nil

	case listSavedMsg:
		if msg.err != nil {
			m.statusMsg = alertText(msg.err)
		} else {
			m.statusMsg = "List saved"
		}
		m.mode = modeBrowse
		return m, m.loadLists()

	case listDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "List deleted"
		}
		m.mode = modeBrowse
		return m, m.loadLists()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

// alertText maps the store's validation errors to the blocking alert
// wording shown to the user.
func alertText(err error) string {
	switch {
	case errors.Is(err, store.ErrEmptyName):
		return "Please enter a list name."
	case errors.Is(err, store.ErrDuplicateName):
		return "A list with this name already exists."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeBrowse:
		return m.handleBrowseKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.lists) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.lists)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.lists) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.lists) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.lists) == 0 {
			return m, nil
		}
		id := m.lists[m.selectedIdx].ID
		return m, func() tea.Msg { return ListSelectedMsg{ListID: id} }

	case key.Matches(msg, m.keys.NewList):
		m.isNew = true
		m.editingID = ""
		m.fb.name = ""
		m.statusMsg = ""
		m.form = m.buildForm("New list")
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "e":
		if len(m.lists) == 0 {
			return m, nil
		}
		l := m.lists[m.selectedIdx]
		m.isNew = false
		m.editingID = l.ID
		m.fb.name = l.Name
		m.statusMsg = ""
		m.form = m.buildForm("Rename list")
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		if len(m.lists) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("List name").
				Value(&m.fb.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return store.ErrEmptyName
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.lists) {
		name = m.lists[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete list %q?", name)).
				Description("The parts on it are not affected.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
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
		return m, m.saveList()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeBrowse
		return m, nil
	}
	return m, cmd
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
		if m.fb.confirm {
			l := m.lists[m.selectedIdx]
			return m, m.deleteList(l.ID)
		}
		m.mode = modeBrowse
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeBrowse
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the lists screen.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	}

	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	b.WriteString(title.Render("My Lists"))
	b.WriteString("\n\n")

	if len(m.lists) == 0 {
		b.WriteString(theme.EmptyStyle.Render("No lists yet. Press 'n' to create one."))
	} else {
		for i, l := range m.lists {
			label := fmt.Sprintf("%s (%d items)", l.Name, len(l.Items))
			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("n new | e rename | d delete | enter open | esc back"))

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

func (m Model) loadLists() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		lists, err := s.Lists(context.Background())
		if err != nil {
			return listsLoadedMsg{lists: nil}
		}
		return listsLoadedMsg{lists: lists}
	}
}

func (m Model) saveList() tea.Cmd {
	s := m.store
	name := m.fb.name
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		var err error
		if isNew {
			_, err = s.CreateList(context.Background(), name)
		} else {
			_, err = s.RenameList(context.Background(), editID, name)
		}
		return listSavedMsg{err: err}
	}
}

func (m Model) deleteList(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteList(context.Background(), id)
		return listDeletedMsg{err: err}
	}
}
