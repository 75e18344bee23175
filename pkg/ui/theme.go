package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile, computed once at
// package init.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns hex for ANSI256+ terminals and ANSI white otherwise.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the colors and pre-built styles of every screen.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	Playing lipgloss.AdaptiveColor
	Played  lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	Base      lipgloss.Style
	Header    lipgloss.Style
	Selected  lipgloss.Style
	Row       lipgloss.Style
	Disabled  lipgloss.Style
	MutedText lipgloss.Style
	Badge     lipgloss.Style
	Shortcut  lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	SoftKey   lipgloss.Style
	Status    lipgloss.Style
	ErrorText lipgloss.Style
	Menu      lipgloss.Style
	MenuTitle lipgloss.Style
	Progress  lipgloss.Style
}

// DefaultTheme returns the standard adaptive theme. Accent colors follow
// the Firefox OS orange the app grew up with.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#C0440B", Dark: "#FF9F43"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#8C8FA6"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#F3E1D6", Dark: "#3A2F2A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},

		Playing: lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},
		Played:  lipgloss.AdaptiveColor{Light: "#888888", Dark: "#555A70"},
		Error:   lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E1E"}).
		Bold(true).
		Padding(0, 1)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Foreground(t.Primary).
		Bold(true)
	t.Row = t.Base
	t.Disabled = r.NewStyle().Foreground(t.Played)
	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.Badge = r.NewStyle().Foreground(t.Secondary)
	t.Shortcut = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.Tab = r.NewStyle().Foreground(t.Subtext).Padding(0, 1)
	t.ActiveTab = r.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	t.SoftKey = r.NewStyle().Foreground(t.Subtext).Bold(true)
	t.Status = r.NewStyle().Foreground(t.Secondary).Italic(true)
	t.ErrorText = r.NewStyle().Foreground(t.Error)

	t.Menu = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
	t.MenuTitle = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Progress = r.NewStyle().Foreground(ThemeFg("#50FA7B"))

	return t
}
