package ui

import (
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/quickbar/pkg/palette"
)

// KeyMode selects the extra navigation aliases layered on top of the fixed
// arrow/enter/escape protocol.
type KeyMode string

const (
	// KeyModeVim adds ctrl+j and tab (next) and shift+tab (previous).
	KeyModeVim KeyMode = "vim"
	// KeyModeEmacs adds ctrl+n/ctrl+p and ctrl+g to dismiss.
	KeyModeEmacs KeyMode = "emacs"
	// KeyModeFunction adds no aliases.
	KeyModeFunction KeyMode = "function"
)

// DefaultKeyMode is the keymap used when none is configured.
const DefaultKeyMode = KeyModeVim

// ValidKeyModes lists all valid key modes for validation.
var ValidKeyModes = []KeyMode{KeyModeVim, KeyModeEmacs, KeyModeFunction}

// IsValidKeyMode checks if a key mode string is valid.
func IsValidKeyMode(mode string) bool {
	return slices.Contains(ValidKeyModes, KeyMode(mode))
}

var modeAliases = map[KeyMode]map[palette.Key][]string{
	KeyModeVim: {
		palette.KeyDown: {"ctrl+j", "tab"},
		palette.KeyUp:   {"shift+tab"},
	},
	KeyModeEmacs: {
		palette.KeyDown:   {"ctrl+n"},
		palette.KeyUp:     {"ctrl+p"},
		palette.KeyEscape: {"ctrl+g"},
	},
}

// KeyMap is the host's key table. It implements help.KeyMap.
type KeyMap struct {
	Mode    KeyMode
	Open    key.Binding
	Next    key.Binding
	Prev    key.Binding
	Confirm key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// NewKeyMap builds the key table for mode with shortcut opening the palette.
// Aliases equal to the shortcut or to ctrl+c are dropped so that neither can
// be shadowed.
func NewKeyMap(mode KeyMode, shortcut string) KeyMap {
	if !IsValidKeyMode(string(mode)) {
		mode = DefaultKeyMode
	}
	shortcut = strings.ToLower(strings.TrimSpace(shortcut))
	reserved := []string{shortcut, "ctrl+c"}
	with := func(k palette.Key, base ...string) []string {
		keys := slices.Clone(base)
		for _, alias := range modeAliases[mode][k] {
			if !slices.Contains(reserved, alias) {
				keys = append(keys, alias)
			}
		}
		return keys
	}
	return KeyMap{
		Mode:    mode,
		Open:    key.NewBinding(key.WithKeys(shortcut), key.WithHelp(shortcut, "commands")),
		Next:    key.NewBinding(key.WithKeys(with(palette.KeyDown, "down")...), key.WithHelp("↓", "next")),
		Prev:    key.NewBinding(key.WithKeys(with(palette.KeyUp, "up")...), key.WithHelp("↑", "previous")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Dismiss: key.NewBinding(key.WithKeys(with(palette.KeyEscape, "esc")...), key.WithHelp("esc", "close")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// paletteKey translates a key press into the palette protocol.
func (k KeyMap) paletteKey(msg tea.KeyPressMsg) palette.Key {
	switch {
	case key.Matches(msg, k.Next):
		return palette.KeyDown
	case key.Matches(msg, k.Prev):
		return palette.KeyUp
	case key.Matches(msg, k.Confirm):
		return palette.KeyEnter
	case key.Matches(msg, k.Dismiss):
		return palette.KeyEscape
	}
	return palette.KeyNone
}

// ShortHelp is shown in the page footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Help, k.Quit}
}

// FullHelp lists every binding, grouped into columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Help, k.Quit},
		{k.Next, k.Prev, k.Confirm, k.Dismiss},
	}
}

// Describe lists the bindings as "keys: action" pairs for reference output.
func (k KeyMap) Describe() [][2]string {
	var out [][2]string
	for _, col := range k.FullHelp() {
		for _, b := range col {
			out = append(out, [2]string{strings.Join(b.Keys(), ", "), b.Help().Desc})
		}
	}
	return out
}
