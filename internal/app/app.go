package app

import (
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"stocktree/internal/credential"
	"stocktree/internal/inventree"
	"stocktree/internal/keys"
	"stocktree/internal/model"
	"stocktree/internal/qr"
	"stocktree/internal/store"
	"stocktree/internal/ui"
	"stocktree/internal/ui/browse"
	"stocktree/internal/ui/helpview"
	"stocktree/internal/ui/listdetail"
	"stocktree/internal/ui/listindex"
	"stocktree/internal/ui/locations"
	"stocktree/internal/ui/myparts"
	"stocktree/internal/ui/partdetail"
	"stocktree/internal/ui/scan"
	"stocktree/internal/ui/search"
	"stocktree/internal/ui/settings"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBrowse ViewState = iota
	ViewLocations
	ViewSearch
	ViewPartDetail
	ViewLists
	ViewListDetail
	ViewMyParts
	ViewScan
	ViewSettings
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the API client, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *store.SQLiteStore
	client       *inventree.Client
	keys         *keys.KeyMap

	browseView   browse.Model
	locationView locations.Model
	searchView   search.Model
	partView     partdetail.Model
	listsView    listindex.Model
	listView     listdetail.Model
	mypartsView  myparts.Model
	scanView     scan.Model
	settingsView settings.Model
	helpView     helpview.Model

	ready bool
}

// New creates a new root application model with the given store and
// configuration. The API client is built from stored credentials when
// both are present.
func New(s *store.SQLiteStore, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()
	client := loadClient()
	pageSize := cfg.Display.PageSize

	return Model{
		currentView:  ViewBrowse,
		store:        s,
		client:       client,
		keys:         k,
		browseView:   browse.New(client, k, pageSize, 80, 24),
		locationView: locations.New(client, k, pageSize, 80, 24),
		searchView:   search.New(client, k, pageSize, 80, 24),
		partView:     partdetail.New(client, s, k, pageSize, 80, 24),
		listsView:    listindex.New(s, k, 80, 24),
		listView:     listdetail.New(s, lookupsFor(client), k, 80, 24),
		mypartsView:  myparts.New(s, mylookupsFor(client), k, 80, 24),
		scanView:     scan.New(80, 24),
		settingsView: settings.New(80, 24),
		helpView:     helpview.New(k, 80, 24),
	}
}

// loadClient builds an API client from the keyring. Returns nil when
// either credential is missing so the views can show setup guidance.
func loadClient() *inventree.Client {
	baseURL, err := credential.Get(credential.KeyAPIURL)
	if err != nil || baseURL == "" {
		return nil
	}
	token, err := credential.Get(credential.KeyToken)
	if err != nil || token == "" {
		return nil
	}
	return inventree.NewClient(baseURL, token)
}

func lookupsFor(c *inventree.Client) *listdetail.Lookups {
	if c == nil {
		return nil
	}
	return &listdetail.Lookups{Parts: c, Stock: c}
}

func mylookupsFor(c *inventree.Client) *myparts.Lookups {
	if c == nil {
		return nil
	}
	return &myparts.Lookups{Parts: c, Stock: c}
}

// Init returns the initial command for the default view.
func (m Model) Init() tea.Cmd {
	return m.browseView.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.browseView.SetSize(w, h)
		m.locationView.SetSize(w, h)
		m.searchView.SetSize(w, h)
		m.partView.SetSize(w, h)
		m.listsView.SetSize(w, h)
		m.listView.SetSize(w, h)
		m.mypartsView.SetSize(w, h)
		m.scanView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case browse.PartSelectedMsg:
		return m.openPart(msg.PartID, 0)

	case search.PartSelectedMsg:
		return m.openPart(msg.PartID, 0)

	case locations.StockSelectedMsg:
		return m.openPart(msg.PartID, msg.StockItemID)

	case listdetail.PartSelectedMsg:
		return m.openPart(msg.PartID, msg.StockItemID)

	case myparts.PartSelectedMsg:
		return m.openPart(msg.PartID, msg.StockItemID)

	case listindex.ListSelectedMsg:
		m.previousView = m.currentView
		m.currentView = ViewListDetail
		return m, m.listView.Open(msg.ListID)

	case scan.TargetMsg:
		return m.openScanTarget(msg.Target)

	case settings.SavedMsg:
		m.client = inventree.NewClient(msg.BaseURL, msg.Token)
		m.browseView.SetClient(m.client)
		m.locationView.SetClient(m.client)
		m.searchView.SetClient(m.client)
		m.partView.SetClient(m.client)
		m.listView.SetLookups(lookupsFor(m.client))
		m.mypartsView.SetLookups(mylookupsFor(m.client))
		return m, nil

	case browse.CloseMsg, locations.CloseMsg, search.CloseMsg,
		listindex.CloseMsg, myparts.CloseMsg, scan.CloseMsg,
		settings.CloseMsg:
		m.currentView = ViewBrowse
		return m, nil

	case listdetail.CloseMsg:
		m.currentView = ViewLists
		return m, m.listsView.Init()

	case partdetail.CloseMsg:
		m.currentView = m.previousView
		if m.currentView == ViewPartDetail {
			m.currentView = ViewBrowse
		}
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleGlobalKey(msg); handled {
			return model, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes the keys that switch top-level views. Keys
// are not intercepted while a text input or form has focus.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true

	case "q":
		if m.currentView == ViewBrowse {
			return m, tea.Quit, true
		}

	case "?":
		if m.typingView() {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "1":
		if m.navView() && m.currentView != ViewBrowse {
			m.currentView = ViewBrowse
			return m, m.browseView.Init(), true
		}

	case "2":
		if m.navView() && m.currentView != ViewLocations {
			m.currentView = ViewLocations
			return m, m.locationView.Init(), true
		}

	case "3":
		if m.navView() && m.currentView != ViewLists {
			m.currentView = ViewLists
			return m, m.listsView.Init(), true
		}

	case "4":
		if m.navView() && m.currentView != ViewMyParts {
			m.currentView = ViewMyParts
			return m, m.mypartsView.Init(), true
		}

	case "/":
		if m.navView() && m.currentView != ViewSearch {
			m.previousView = m.currentView
			m.currentView = ViewSearch
			return m, m.searchView.Focus(), true
		}

	case "s":
		if m.navView() && m.currentView != ViewScan {
			m.previousView = m.currentView
			m.currentView = ViewScan
			return m, m.scanView.Focus(), true
		}

	case "c":
		if m.navView() && m.currentView != ViewSettings {
			m.previousView = m.currentView
			m.currentView = ViewSettings
			return m, nil, true
		}
	}
	return m, nil, false
}

// navView reports whether the current view is a plain navigation list,
// where single letters are safe to treat as global shortcuts.
func (m Model) navView() bool {
	switch m.currentView {
	case ViewBrowse, ViewLocations, ViewLists, ViewListDetail, ViewMyParts:
		return true
	}
	return false
}

// typingView reports whether the current view may have a focused text
// input.
func (m Model) typingView() bool {
	switch m.currentView {
	case ViewSearch, ViewScan, ViewSettings:
		return true
	}
	return false
}

func (m Model) openPart(partID, stockItemID int) (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewPartDetail
	return m, m.partView.Open(partID, stockItemID)
}

// openScanTarget routes a parsed code to the matching view.
func (m Model) openScanTarget(t qr.Target) (tea.Model, tea.Cmd) {
	switch t.Kind {
	case qr.KindPart:
		return m.openPart(t.ID, 0)
	case qr.KindLocation:
		m.previousView = m.currentView
		m.currentView = ViewLocations
		return m, m.locationView.OpenLocation(t.ID, t.Name)
	}
	return m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBrowse:
		m.browseView, cmd = m.browseView.Update(msg)
	case ViewLocations:
		m.locationView, cmd = m.locationView.Update(msg)
	case ViewSearch:
		m.searchView, cmd = m.searchView.Update(msg)
	case ViewPartDetail:
		m.partView, cmd = m.partView.Update(msg)
	case ViewLists:
		m.listsView, cmd = m.listsView.Update(msg)
	case ViewListDetail:
		m.listView, cmd = m.listView.Update(msg)
	case ViewMyParts:
		m.mypartsView, cmd = m.mypartsView.Update(msg)
	case ViewScan:
		m.scanView, cmd = m.scanView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("StockTree", m.connectionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBrowse:
		return m.browseView.View()
	case ViewLocations:
		return m.locationView.View()
	case ViewSearch:
		return m.searchView.View()
	case ViewPartDetail:
		return m.partView.View()
	case ViewLists:
		return m.listsView.View()
	case ViewListDetail:
		return m.listView.View()
	case ViewMyParts:
		return m.mypartsView.View()
	case ViewScan:
		return m.scanView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// connectionStatus returns a short string for the header's right side.
func (m Model) connectionStatus() string {
	if m.client == nil {
		return "not connected"
	}
	if u, err := url.Parse(m.client.BaseURL()); err == nil && u.Host != "" {
		return u.Host
	}
	return m.client.BaseURL()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help"
	case ViewSearch:
		return "enter search | esc back"
	case ViewScan:
		return "enter go | esc back"
	case ViewSettings:
		return "enter edit | esc back"
	case ViewPartDetail:
		return "a adjust | l add to list | p my parts | esc back"
	case ViewLists:
		return "n new | e rename | d delete | enter open | esc back"
	case ViewListDetail:
		return "space select | x remove | r refresh | esc back"
	case ViewMyParts:
		return "d remove | x clear | r refresh | esc back"
	default:
		return "q quit | ? help | / search | s scan | c settings | 1-4 views"
	}
}
