package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorAccent).
	Padding(1, 2)

// overlayCard centers card on top of base, keeping the base visible around it.
// Without a known terminal size the card is appended below the base instead.
func overlayCard(base, card string, width, height int) string {
	boxed := cardStyle.Render(card)
	if width <= 0 || height <= 0 {
		return base + "\n\n" + boxed
	}
	top := fitLines(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, boxed), width, height)
	bottom := fitLines(base, width, height)
	out := make([]string, height)
	for i := range out {
		start, end, ok := inkBounds(top[i], width)
		if !ok {
			out[i] = bottom[i]
			continue
		}
		left := ansi.Truncate(bottom[i], start, "")
		mid := ansi.Truncate(skipColumns(top[i], start), end-start, "")
		right := skipColumns(bottom[i], end)
		out[i] = padRight(left+mid+right, width)
	}
	return strings.Join(out, "\n")
}

// inkBounds finds the first and last non-blank columns of a rendered line.
func inkBounds(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	if trimmed == "" {
		return 0, 0, false
	}
	start = len(plain) - len(strings.TrimLeft(plain, " "))
	end = ansi.StringWidth(trimmed)
	return start, end, start < end
}

func fitLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return lines
}

func skipColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return strings.TrimPrefix(s, ansi.Truncate(s, cols, ""))
}

func padRight(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	if w := ansi.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// clip shortens a plain cell to width columns with an ellipsis.
func clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
