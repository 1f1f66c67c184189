// Package ui centralizes terminal color handling for the CLI. A Theme maps
// semantic color roles to ANSI escape codes; the active theme is selected
// once at startup and read through the Color* accessors.
package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for UI output. Each field contains an ANSI
// escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Primary is the main accent color for important elements.
	Primary string
	// Secondary is used for less prominent elements.
	Secondary string
	// Success indicates positive outcomes or completed operations.
	Success string
	// Warning is used for caution messages or non-critical issues.
	Warning string
	// Error indicates failures or critical issues.
	Error string
	// Info is used for informational messages.
	Info string
	// Bold is the escape code for bold text.
	Bold string
	// Underline is the escape code for underlined text.
	Underline string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",  // Bright blue
		Secondary: "\033[38;5;245m", // Grey
		Success:   "\033[38;5;82m",  // Bright green
		Warning:   "\033[38;5;220m", // Yellow
		Error:     "\033[38;5;196m", // Red
		Info:      "\033[38;5;141m", // Purple
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output. Used when NO_COLOR is set or
	// --no-color is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// InitTheme selects the active theme. Color output is disabled when noColor
// is true or the NO_COLOR environment variable is set.
func InitTheme(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" {
		SetTheme(NoColorTheme)
		return
	}
	SetTheme(DarkTheme)
}

// SetTheme replaces the active theme.
func SetTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// ActiveTheme returns a copy of the active theme.
func ActiveTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// Color accessors for the active theme.

func ColorBlue() string      { return ActiveTheme().Primary }
func ColorCyan() string      { return ActiveTheme().Info }
func ColorGreen() string     { return ActiveTheme().Success }
func ColorYellow() string    { return ActiveTheme().Warning }
func ColorRed() string       { return ActiveTheme().Error }
func ColorGrey() string      { return ActiveTheme().Secondary }
func ColorBold() string      { return ActiveTheme().Bold }
func ColorUnderline() string { return ActiveTheme().Underline }
func ColorReset() string     { return ActiveTheme().Reset }

// Lipgloss styles for block elements that benefit from real layout
// (banners, boxed results) rather than raw escape codes.
var (
	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))
)

// RenderBanner renders the application banner box.
func RenderBanner(text string) string {
	if ActiveTheme().Name == "none" {
		return text
	}
	return bannerStyle.Render(text)
}

// RenderResult renders a final result value.
func RenderResult(text string) string {
	if ActiveTheme().Name == "none" {
		return text
	}
	return resultStyle.Render(text)
}
