package outwriter

import (
	"os"

	"golang.org/x/term"
)

// maxDescriptionWidth returns the widest description the text table shows,
// based on the terminal width unless override is set.
func maxDescriptionWidth(override int) int {
	termWidth := override
	if termWidth <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = 80
		} else {
			termWidth = detected
		}
	}

	// #, date, side, code, anchor and offset columns with borders
	available := termWidth - 60
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncate shortens s to maxWidth runes, ending in "...".
func truncate(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}
