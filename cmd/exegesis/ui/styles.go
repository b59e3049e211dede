// Package ui provides the terminal study viewer for the exegesis CLI.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: stone neutrals with an amber accent.
var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1c1917") // stone-900
	LightPrimary    = lipgloss.Color("#1c1917")
	LightAccent     = lipgloss.Color("#b45309") // amber-700
	LightMuted      = lipgloss.Color("#78716c") // stone-500
	LightBorder     = lipgloss.Color("#d6d3d1") // stone-300

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f5f5f4") // stone-100
	DarkPrimary    = lipgloss.Color("#fbbf24") // amber-400
	DarkAccent     = lipgloss.Color("#fbbf24")
	DarkMuted      = lipgloss.Color("#a8a29e") // stone-400
	DarkBorder     = lipgloss.Color("#44403c") // stone-700

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme reads COLORFGBG ("fg;bg") and EXEGESIS_DARK_MODE=1.
// Defaults to light.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil {
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return DarkTheme()
			}
		}
	}
	if os.Getenv("EXEGESIS_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Header    lipgloss.Style
	Subtitle  lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	TabBar    lipgloss.Style
	Footer    lipgloss.Style
	Content   lipgloss.Style
	Error     lipgloss.Style
	Spinner   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 2),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Underline(true).
			Padding(0, 1),

		TabBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true).
			Padding(1, 2),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// glamourStyle picks the glamour standard style matching the theme.
func (s Styles) glamourStyle() string {
	if s.Theme.IsDark {
		return "dark"
	}
	return "light"
}
