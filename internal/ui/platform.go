package ui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// copyToClipboardFn is the active clipboard implementation. Tests replace it
// via StubPlatformActions to prevent side effects.
var copyToClipboardFn = copyToClipboardImpl

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubPlatformActions replaces the clipboard with a no-op and returns a
// restore function.
func StubPlatformActions() (restore func()) {
	orig := copyToClipboardFn
	copyToClipboardFn = func(string) error { return nil }
	return func() {
		copyToClipboardFn = orig
	}
}

// clipboardCommands lists, per GOOS, the commands tried in order.
var clipboardCommands = map[string][][]string{
	"darwin":  {{"pbcopy"}},
	"linux":   {{"xclip", "-selection", "clipboard"}, {"xsel", "--clipboard", "--input"}, {"wl-copy"}},
	"windows": {{"clip"}},
}

func copyToClipboardImpl(text string) error {
	candidates, ok := clipboardCommands[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	var argv []string
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			argv = c
			break
		}
	}
	if argv == nil {
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c[0]
		}
		return fmt.Errorf("no clipboard command found (tried %s)", strings.Join(names, ", "))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
