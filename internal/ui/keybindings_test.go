package ui

import (
	"slices"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/quickbar/pkg/palette"
)

func TestIsValidKeyMode(t *testing.T) {
	for _, mode := range []string{"vim", "emacs", "function"} {
		if !IsValidKeyMode(mode) {
			t.Errorf("IsValidKeyMode(%q) = false", mode)
		}
	}
	if IsValidKeyMode("nano") {
		t.Error("IsValidKeyMode(nano) = true")
	}
}

func TestNewKeyMapAliases(t *testing.T) {
	tests := []struct {
		name     string
		mode     KeyMode
		shortcut string
		next     []string
		prev     []string
		dismiss  []string
	}{
		{"vim", KeyModeVim, "ctrl+k", []string{"down", "ctrl+j", "tab"}, []string{"up", "shift+tab"}, []string{"esc"}},
		{"emacs", KeyModeEmacs, "ctrl+k", []string{"down", "ctrl+n"}, []string{"up", "ctrl+p"}, []string{"esc", "ctrl+g"}},
		{"function", KeyModeFunction, "ctrl+k", []string{"down"}, []string{"up"}, []string{"esc"}},
		{"shortcut wins over alias", KeyModeVim, "Tab", []string{"down", "ctrl+j"}, []string{"up", "shift+tab"}, []string{"esc"}},
		{"unknown mode falls back to vim", KeyMode("nano"), "ctrl+k", []string{"down", "ctrl+j", "tab"}, []string{"up", "shift+tab"}, []string{"esc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeyMap(tt.mode, tt.shortcut)
			if got := k.Next.Keys(); !slices.Equal(got, tt.next) {
				t.Errorf("next = %v, want %v", got, tt.next)
			}
			if got := k.Prev.Keys(); !slices.Equal(got, tt.prev) {
				t.Errorf("prev = %v, want %v", got, tt.prev)
			}
			if got := k.Dismiss.Keys(); !slices.Equal(got, tt.dismiss) {
				t.Errorf("dismiss = %v, want %v", got, tt.dismiss)
			}
		})
	}
}

func TestPaletteKey(t *testing.T) {
	k := NewKeyMap(KeyModeVim, "ctrl+k")
	tests := []struct {
		msg  tea.KeyPressMsg
		want palette.Key
	}{
		{tea.KeyPressMsg{Code: tea.KeyDown}, palette.KeyDown},
		{tea.KeyPressMsg{Code: tea.KeyTab}, palette.KeyDown},
		{tea.KeyPressMsg{Code: 'j', Mod: tea.ModCtrl}, palette.KeyDown},
		{tea.KeyPressMsg{Code: tea.KeyUp}, palette.KeyUp},
		{tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}, palette.KeyUp},
		{tea.KeyPressMsg{Code: tea.KeyEnter}, palette.KeyEnter},
		{tea.KeyPressMsg{Code: tea.KeyEscape}, palette.KeyEscape},
		{tea.KeyPressMsg{Code: 'j', Text: "j"}, palette.KeyNone},
	}
	for _, tt := range tests {
		if got := k.paletteKey(tt.msg); got != tt.want {
			t.Errorf("paletteKey(%s) = %s, want %s", tt.msg.String(), got, tt.want)
		}
	}
}

func TestKeyMapDescribe(t *testing.T) {
	rows := NewKeyMap(KeyModeEmacs, "ctrl+k").Describe()
	if len(rows) != 7 {
		t.Fatalf("expected 7 rows, got %d", len(rows))
	}
	if rows[0] != [2]string{"ctrl+k", "commands"} {
		t.Errorf("first row = %v", rows[0])
	}
	if rows[6] != [2]string{"esc, ctrl+g", "close"} {
		t.Errorf("dismiss row = %v", rows[6])
	}
}
