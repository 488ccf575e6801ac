package ui

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys feeds simulated key presses into m. Each entry mixes
// Vim-like tokens such as "<C-k>", "<Down>" or "<CR>" with literal text, so
// "<C-k>users<CR>" opens the palette, types a query and confirms. A leading
// backslash makes the whole entry literal.
func ApplyStartupKeys(m *Model, keys []string) {
	if m == nil {
		return
	}
	for _, msg := range startupKeyMsgs(keys) {
		m.Update(msg)
	}
}

func startupKeyMsgs(keys []string) []tea.KeyPressMsg {
	var msgs []tea.KeyPressMsg
	literal := func(text string) {
		for _, r := range text {
			msgs = append(msgs, tea.KeyPressMsg{Code: r, Text: string(r)})
		}
	}
	for _, raw := range keys {
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, `\`) {
			literal(strings.TrimPrefix(raw, `\`))
			continue
		}
		for _, seg := range parseTokenSegments(raw) {
			if !seg.isVimKey {
				literal(seg.text)
				continue
			}
			if msg, ok := keyMsgFromToken(seg.text); ok {
				msgs = append(msgs, msg)
			} else {
				literal(seg.text)
			}
		}
	}
	return msgs
}

// tokenSegment is either a <...> key token or a run of literal text.
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits "<C-k>us<Down>" into "<C-k>", "us", "<Down>".
// An unterminated "<" is literal.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for remaining != "" {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isVimKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var namedKeys = map[string]tea.KeyPressMsg{
	"esc":       {Code: tea.KeyEscape},
	"escape":    {Code: tea.KeyEscape},
	"c-[":       {Code: tea.KeyEscape},
	"cr":        {Code: tea.KeyEnter},
	"enter":     {Code: tea.KeyEnter},
	"return":    {Code: tea.KeyEnter},
	"tab":       {Code: tea.KeyTab},
	"s-tab":     {Code: tea.KeyTab, Mod: tea.ModShift},
	"space":     {Code: tea.KeySpace, Text: " "},
	"bs":        {Code: tea.KeyBackspace},
	"backspace": {Code: tea.KeyBackspace},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"home":      {Code: tea.KeyHome},
	"end":       {Code: tea.KeyEnd},
}

// keyMsgFromToken parses a single <...> token. Besides the named keys it
// accepts <C-x> for any single character x.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return tea.KeyPressMsg{}, false
	}
	inner := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">"))
	if msg, ok := namedKeys[inner]; ok {
		return msg, true
	}
	if rest, ok := strings.CutPrefix(inner, "c-"); ok && utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}, true
	}
	return tea.KeyPressMsg{}, false
}
