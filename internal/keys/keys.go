package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Screens
	Categories key.Binding
	Locations  key.Binding
	Search     key.Binding
	Lists      key.Binding
	MyParts    key.Binding
	Scan       key.Binding
	Settings   key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// List management
	NewList key.Binding
	Delete  key.Binding

	// Selection mode in list detail
	Mark   key.Binding
	Remove key.Binding

	// Pagination
	LoadMore key.Binding

	// Part actions
	Adjust    key.Binding
	AddToList key.Binding
	Pick      key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Categories: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "categories"),
		),
		Locations: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "locations"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Lists: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "my lists"),
		),
		MyParts: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "my parts"),
		),
		Scan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "scan code"),
		),
		Settings: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "settings"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		NewList: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new list"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark for removal"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove marked"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),
		Adjust: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "adjust quantity"),
		),
		AddToList: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "add to list"),
		),
		Pick: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "add to my parts"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Categories, k.Locations, k.Search, k.Lists, k.MyParts},
		{k.Scan, k.Settings, k.Help, k.Refresh, k.LoadMore},
		{k.NewList, k.Delete, k.Mark, k.Remove},
		{k.Adjust, k.AddToList, k.Pick},
	}
}
