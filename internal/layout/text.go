package layout

import (
	"strings"
	"unicode/utf8"
)

// wrapText wraps words into lines that don't exceed maxWidth characters.
// Words are never broken: a single word longer than maxWidth gets its own line.
// maxWidth <= 0 disables wrapping.
func wrapText(words []string, maxWidth int) []string {
	if len(words) == 0 {
		return []string{}
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	var currentLine strings.Builder
	currentLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case currentLen == 0:
			currentLine.WriteString(word)
			currentLen = wordLen
		case currentLen+1+wordLen <= maxWidth:
			currentLine.WriteString(" " + word)
			currentLen += 1 + wordLen
		default:
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
			currentLen = wordLen
		}
	}

	if currentLen > 0 {
		lines = append(lines, currentLine.String())
	}
	return lines
}

// labelLines returns the text lines of a label: the wrapped description,
// followed by the date when showDate is set.
func labelLines(description, date string, wrapWidth int, showDate bool) []string {
	lines := wrapText(strings.Fields(description), wrapWidth)
	if showDate {
		lines = append(lines, date)
	}
	if len(lines) == 0 {
		lines = []string{date}
	}
	return lines
}

// measureLines returns the width of the widest line and the total height,
// including linePadding between lines.
func measureLines(m Measurer, lines []string, fontSize, linePadding float64) (width, height, lineHeight float64) {
	for i, line := range lines {
		b := m.Measure(line, fontSize)
		if b.Width > width {
			width = b.Width
		}
		lineHeight = b.Height
		height += b.Height
		if i > 0 {
			height += linePadding
		}
	}
	return width, height, lineHeight
}
