package speakerverify

import (
	"strconv"
	"strings"
)

// Render formats a result. The long form prints the decision and the score
// on separate lines: "Result: Accept\nScore: 0.87". The short form is
// "Accept, 0.87".
func Render(r *Result, long bool) string {
	score := formatScore(r.Score)
	if long {
		return "Result: " + string(r.Decision) + "\nScore: " + score
	}
	return string(r.Decision) + ", " + score
}

// formatScore prints the shortest representation, keeping a fractional
// part so whole scores read "1.0" rather than "1".
func formatScore(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
