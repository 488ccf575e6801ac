package ui

import (
	"fmt"
	"strings"

	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/quickbar/internal/suggest"
	"github.com/oakwood-commons/quickbar/pkg/palette"
)

const (
	defaultPaletteWidth = 64
	minPaletteWidth     = 24
	defaultMaxVisible   = 12
)

// overlay is the palette box as placed on screen. It is computed once per
// frame and shared by drawing and pointer hit-testing so the two never
// disagree.
type overlay struct {
	x, y  int
	width int
	lines []string
	// rows maps an absolute screen row to the item drawn on it.
	rows map[int]string
}

// hit classifies a pointer position.
func (o overlay) hit(x, y int) (palette.Surface, string) {
	if x < o.x || x >= o.x+o.width || y < o.y || y >= o.y+len(o.lines) {
		return palette.SurfaceBackdrop, ""
	}
	if id, ok := o.rows[y]; ok {
		return palette.SurfaceItem, id
	}
	return palette.SurfacePanel, ""
}

// visibleRange returns the half-open range of result indexes to draw so that
// the cursor stays in view.
func visibleRange(cursor, total, limit int) (int, int) {
	if limit <= 0 || total <= limit {
		return 0, total
	}
	start := 0
	if cursor >= limit {
		start = cursor - limit + 1
	}
	return start, start + limit
}

func (m *Model) paletteWidth() int {
	w := m.cfg.Palette.Width
	if w <= 0 {
		w = defaultPaletteWidth
	}
	if m.width > 0 && w > m.width-4 {
		w = m.width - 4
	}
	if w < minPaletteWidth {
		w = minPaletteWidth
	}
	return w
}

func (m *Model) maxVisible() int {
	if m.cfg.Palette.MaxVisible > 0 {
		return m.cfg.Palette.MaxVisible
	}
	return defaultMaxVisible
}

// layout renders the open palette. It returns a zero overlay when closed.
func (m *Model) layout() overlay {
	if !m.engine.IsOpen() {
		return overlay{}
	}
	width := m.paletteWidth()
	inner := width - 2
	muted := m.theme.style(m.theme.Muted, m.noColor)

	body := []string{m.inputLine(inner), muted.Render(repeatToWidth("─", inner))}
	rowAt := map[int]string{}

	total := len(m.engine.FilteredIDs())
	cursor, _ := m.engine.Cursor()
	start, end := visibleRange(cursor, total, m.maxVisible())

	groups := m.engine.Groups()
	if len(groups) == 0 {
		body = append(body, m.emptyLines()...)
	}
	heading := m.theme.style(m.theme.Accent, m.noColor).Bold(true)
	for _, g := range groups {
		headed := false
		for _, e := range g.Entries {
			if e.Index < start || e.Index >= end {
				continue
			}
			if !headed {
				body = append(body, " "+heading.Render(g.Title))
				headed = true
			}
			rowAt[len(body)] = e.Item.ID
			body = append(body, m.itemLine(e, inner))
		}
	}

	label := ""
	if total > 0 {
		label = fmt.Sprintf("%d/%d", cursor+1, total)
	}
	lines := panelWithTitle("Commands", label, body, width, m.theme, m.noColor)

	o := overlay{width: width, lines: lines, rows: make(map[int]string, len(rowAt))}
	if m.width > width {
		o.x = (m.width - width) / 2
	}
	o.y = 2
	if m.height >= 20 {
		o.y = m.height / 6
	}
	for i, id := range rowAt {
		// +1 for the top border.
		o.rows[o.y+1+i] = id
	}
	return o
}

func (m *Model) inputLine(inner int) string {
	prompt := m.theme.style(m.theme.Accent, m.noColor).Render("› ")
	return fitANSI(prompt+m.input.View(), inner)
}

func (m *Model) emptyLines() []string {
	muted := m.theme.style(m.theme.Muted, m.noColor)
	query := m.engine.Query()
	if query == "" {
		return []string{" " + muted.Render("No actions available")}
	}
	lines := []string{" " + muted.Render(fmt.Sprintf("No results for %q", query))}
	if hint := suggest.Phrase(suggest.Labels(query, m.engine.Registry(), 2)); hint != "" {
		lines = append(lines, " "+muted.Render(hint))
	}
	return lines
}

// itemLine draws one result row: marker, label, description and the
// right-aligned shortcut hint.
func (m *Model) itemLine(e palette.Entry, inner int) string {
	const markerWidth = 2
	short := e.Item.Shortcut
	avail := inner - markerWidth
	if short != "" {
		avail -= runewidth.StringWidth(short) + 1
	}
	if avail < 4 {
		short = ""
		avail = inner - markerWidth
	}

	label := runewidth.Truncate(e.Item.Label, avail, "…")
	rest := avail - runewidth.StringWidth(label)
	desc := ""
	if e.Item.Description != "" && rest > 3 {
		desc = runewidth.Truncate("  "+e.Item.Description, rest, "…")
	}
	gap := strings.Repeat(" ", rest-runewidth.StringWidth(desc))

	if e.Selected {
		row := "› " + label + desc + gap
		if short != "" {
			row += " " + short
		}
		return m.theme.selectedStyle(m.noColor).Render(row)
	}
	text := m.theme.style(m.theme.Text, m.noColor)
	muted := m.theme.style(m.theme.Muted, m.noColor)
	row := "  " + text.Render(label) + muted.Render(desc) + gap
	if short != "" {
		row += " " + muted.Render(short)
	}
	return row
}
