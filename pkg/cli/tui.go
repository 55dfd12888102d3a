package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal sections.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default azure-blue theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#3c9ee6"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Body   lipgloss.Style
	Border lipgloss.Style
	Help   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Body:   lipgloss.NewStyle(),
		Border: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Primary).Padding(0, 1),
		Help:   lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Banner is a titled block of explanatory text, printed between the steps of
// an interactive walkthrough.
type Banner struct {
	Styles Styles
	Title  string
	Body   string
}

// Render renders the banner. A width of zero lets the content decide.
func (b Banner) Render(width int) string {
	var parts []string
	parts = append(parts, b.Styles.Title.Render(b.Title))
	if body := strings.TrimRight(b.Body, "\n"); body != "" {
		parts = append(parts, "", b.Styles.Body.Render(body))
	}
	box := b.Styles.Border
	if width > 4 {
		box = box.Width(width - 2)
	}
	return box.Render(strings.Join(parts, "\n"))
}

// Hint renders a dimmed one-line prompt such as "Press Enter to continue".
func (s Styles) Hint(text string) string {
	return s.Help.Render(text)
}
