package ui

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes SGR sequences.
func stripANSI(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

// repeatToWidth repeats the fill string until reaching the requested display width.
func repeatToWidth(fill string, width int) string {
	if width <= 0 {
		return ""
	}
	if strings.TrimSpace(fill) == "" {
		fill = " "
	}
	var b strings.Builder
	for runewidth.StringWidth(b.String()) < width {
		b.WriteString(fill)
	}
	return runewidth.Truncate(b.String(), width, "")
}

// padANSIToWidth pads s with spaces to targetWidth, ignoring escape sequences
// when measuring.
func padANSIToWidth(s string, targetWidth int) string {
	visible := lipgloss.Width(s)
	if visible >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-visible)
}

// fitANSI pads or truncates s to exactly width cells. Styling is dropped
// from lines that have to be cut.
func fitANSI(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return padANSIToWidth(s, width)
	}
	return runewidth.FillRight(runewidth.Truncate(stripANSI(s), width, "…"), width)
}

// panelWithTitle draws lines inside a border of the given outer width. The
// title is set into the top edge and label, when present, into the bottom
// edge near the right corner.
func panelWithTitle(title, label string, lines []string, width int, th Theme, noColor bool) []string {
	if width < 4 {
		width = 4
	}
	inner := width - 2
	border := borderForStyle(th.BorderStyle)
	edge := th.style(th.Border, noColor).Render
	titleStyle := th.style(th.Accent, noColor).Bold(true)
	labelStyle := th.style(th.Muted, noColor)

	out := make([]string, 0, len(lines)+2)
	out = append(out, edge(border.TopLeft)+insetEdge(border.Top, title, inner, 1, edge, titleStyle)+edge(border.TopRight))
	for _, l := range lines {
		out = append(out, edge(border.Left)+fitANSI(l, inner)+edge(border.Right))
	}
	bottom := repeatToWidth(border.Bottom, inner)
	if label != "" {
		lead := inner - runewidth.StringWidth(label) - 3
		if lead < 1 {
			lead = 1
		}
		bottom = insetEdge(border.Bottom, label, inner, lead, edge, labelStyle)
	} else {
		bottom = edge(bottom)
	}
	out = append(out, edge(border.BottomLeft)+bottom+edge(border.BottomRight))
	return out
}

// insetEdge draws a horizontal border of width cells with text set into it
// after lead fill cells.
func insetEdge(fill, text string, width, lead int, edge func(...string) string, textStyle lipgloss.Style) string {
	if text == "" || width < lead+3 {
		return edge(repeatToWidth(fill, width))
	}
	text = runewidth.Truncate(" "+text+" ", width-lead, "")
	tail := width - lead - runewidth.StringWidth(text)
	return edge(repeatToWidth(fill, lead)) + textStyle.Render(text) + edge(repeatToWidth(fill, tail))
}
