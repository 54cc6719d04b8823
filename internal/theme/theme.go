package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#00C49A", Light: "#00A481"}
	ColorMint    = lipgloss.AdaptiveColor{Dark: "#A1E8C5", Light: "#2F855A"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorGreen).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps detail and overlay content areas.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorGreen).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorGreen)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle marks incomplete or failed rows, like the red
// "incomplete data" label on aggregated list entries.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed)

// EmptyStyle renders centered guidance text for empty states.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// MarkedStyle highlights rows toggled in selection mode.
var MarkedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// StockStyle returns a color-coded style for an available quantity:
// green when stocked, red when out of stock.
func StockStyle(quantity float64) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if quantity > 0 {
		return base.Foreground(ColorGreen)
	}
	return base.Foreground(ColorRed)
}
