package recognition

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultWidth is the column transcripts are wrapped at.
const DefaultWidth = 70

// Fill wraps text at word boundaries to width columns. Runs of whitespace
// collapse into single spaces. A width of zero or less uses DefaultWidth.
func Fill(text string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	text = strings.Join(strings.Fields(text), " ")
	return ansi.Wordwrap(text, width, "")
}
