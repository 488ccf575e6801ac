// Package actions turns the callbacks named in registry files into Go
// functions: built-ins selected with "run:" and CEL expressions given with
// "expr:". Both act on the terminal host through the Host interface.
package actions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/oakwood-commons/quickbar/internal/suggest"
)

// Host is the part of the terminal host that callbacks can observe and change.
type Host interface {
	Route() string
	Recent() []string
	Theme() string

	ToggleTheme()
	ClearRecent()
	CopyText(text string) error
	Quit()
	SetStatus(msg string)
	SetError(err error)
}

// Builtin is a named callback available to "run:" entries.
type Builtin struct {
	Name        string
	Description string
	fn          func(Host)
}

var builtins = []Builtin{
	{
		Name:        "toggle-theme",
		Description: "Switch to the next configured color theme",
		fn:          func(h Host) { h.ToggleTheme() },
	},
	{
		Name:        "clear-recent",
		Description: "Forget the recently used actions",
		fn: func(h Host) {
			h.ClearRecent()
			h.SetStatus("recent list cleared")
		},
	},
	{
		Name:        "show-route",
		Description: "Show the current route in the status line",
		fn:          func(h Host) { h.SetStatus("route: " + h.Route()) },
	},
	{
		Name:        "copy-route",
		Description: "Copy the current route to the system clipboard",
		fn: func(h Host) {
			route := h.Route()
			if err := h.CopyText(route); err != nil {
				h.SetError(fmt.Errorf("copy route: %w", err))
				return
			}
			h.SetStatus("copied " + route)
		},
	},
	{
		Name:        "quit",
		Description: "Exit quickbar",
		fn:          func(h Host) { h.Quit() },
	},
}

// Builtins returns the built-in callbacks in documentation order.
func Builtins() []Builtin {
	return slices.Clone(builtins)
}

// BuiltinNames returns the names accepted by "run:".
func BuiltinNames() []string {
	names := make([]string, len(builtins))
	for i, b := range builtins {
		names[i] = b.Name
	}
	return names
}

func lookupBuiltin(name string) (Builtin, error) {
	for _, b := range builtins {
		if b.Name == name {
			return b, nil
		}
	}
	msg := fmt.Sprintf("unknown callback %q (available: %s)", name, strings.Join(BuiltinNames(), ", "))
	if hint := suggest.Phrase(suggest.Similar(name, BuiltinNames(), 1)); hint != "" {
		msg += "; " + hint
	}
	return Builtin{}, fmt.Errorf("%s", msg)
}
