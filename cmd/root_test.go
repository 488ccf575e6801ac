package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func resetRootCmdState() {
	configFile = ""
	registryPath = ""
	themeName = ""
	keyMode = ""
	debug = false
	logFile = ""
	noColor = false
	renderSnapshot = false
	startKeys = nil
	snapshotWidth = 0
	snapshotHeight = 0

	resetFlags(rootCmd.PersistentFlags())
	resetFlags(rootCmd.Flags())
	for _, sub := range rootCmd.Commands() {
		resetFlags(sub.Flags())
	}
	listQuery = ""
	listOutput = "table"
	docsHTML = false
	docsOut = ""
}

// executeCLI runs the root command with args, isolated from the user's
// config, and returns what it printed.
func executeCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetRootCmdState()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := Execute()
	return out.String(), err
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCLI(t, args...)
	require.NoError(t, err, "output: %s", out)
	return out
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out := runCLI(t, "version")
	assert.True(t, strings.HasPrefix(out, "quickbar "), "got %q", out)
	assert.Contains(t, out, "commit")
}

func TestRootFlagVersion(t *testing.T) {
	out := runCLI(t, "--version")
	assert.Equal(t, cliVersionString()+"\n", out)
}

func TestCLI_SnapshotFiltersPalette(t *testing.T) {
	out := runCLI(t, "--snapshot", "--no-color", "--width", "80", "--height", "20", "--press", "<C-k>", "--press", "ord")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 20)
	assert.Contains(t, out, "Orders")
	assert.Contains(t, out, "1/1")
	assert.NotContains(t, out, "Payments", "other items are filtered out of the palette")
}

func TestCLI_SnapshotConfirmNavigates(t *testing.T) {
	out := runCLI(t, "--snapshot", "--no-color", "--width", "80", "--height", "20", "--press", "<C-k>ord<CR>")
	assert.Contains(t, out, "/orders")
	assert.NotContains(t, out, "1/1", "the palette closes after running an action")
}

func TestCLI_SnapshotUsesRegistryFlag(t *testing.T) {
	path := writeTemp(t, "actions.json", `{"actions":[{"id":"nav.reports","label":"Reports","path":"/reports"}]}`)
	out := runCLI(t, "--snapshot", "--no-color", "--width", "80", "--height", "20", "--registry", path, "--press", "<C-k>")
	assert.Contains(t, out, "Reports")
	assert.Contains(t, out, "1/1")
}

func TestCLI_UnknownThemeIsRejected(t *testing.T) {
	_, err := executeCLI(t, "--snapshot", "--theme", "neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "neon"`)
	assert.Contains(t, err.Error(), "available themes: [dark light mono]")
}

func TestCLI_InvalidKeymapIsRejected(t *testing.T) {
	_, err := executeCLI(t, "--snapshot", "--keymap", "nano")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "palette.keymap")
}

func TestCLI_ConfigFileOverridesDefaults(t *testing.T) {
	cfg := writeTemp(t, "config.yaml", "app:\n  name: Shop Admin\n  start_route: /orders\n")
	out := runCLI(t, "--snapshot", "--no-color", "--width", "80", "--height", "20", "--config-file", cfg)
	assert.Contains(t, out, "Shop Admin")
	assert.Contains(t, out, "/orders")
}

func TestListTable(t *testing.T) {
	out := runCLI(t, "list", "-q", "user")
	assert.Equal(t, "Navigation\n  Users  Manage user accounts and roles  g u  → /users\n", out)
}

func TestListTableAlignsColumns(t *testing.T) {
	out := runCLI(t, "list", "--query", "theme")
	assert.Contains(t, out, "Actions\n")
	assert.Contains(t, out, "Toggle Theme")
	assert.Contains(t, out, "run toggle-theme")
}

func TestListNoResults(t *testing.T) {
	out := runCLI(t, "list", "-q", "prodcts")
	assert.True(t, strings.HasPrefix(out, "No actions match \"prodcts\".\n"), "got %q", out)
	assert.Contains(t, out, "Products")
}

func TestListJSON(t *testing.T) {
	out := runCLI(t, "list", "-o", "json")
	var groups []listGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, "navigation", groups[0].Category)
	assert.Equal(t, "action", groups[1].Category)
	assert.Len(t, groups[0].Items, 10)
	assert.Equal(t, "nav.dashboard", groups[0].Items[0].ID)
	assert.Equal(t, "→ /", groups[0].Items[0].Target)
}

func TestListJSONEmptyIsArray(t *testing.T) {
	out := runCLI(t, "list", "-q", "zzzz", "-o", "json")
	assert.Equal(t, "[]\n", out)
}

func TestListYAML(t *testing.T) {
	out := runCLI(t, "list", "-q", "orders", "-o", "yaml")
	var groups []listGroup
	require.NoError(t, yaml.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Items, 1)
	assert.Equal(t, "nav.orders", groups[0].Items[0].ID)
	assert.Equal(t, "g o", groups[0].Items[0].Shortcut)
}

func TestListTOML(t *testing.T) {
	out := runCLI(t, "list", "-q", "quit", "-o", "toml")
	assert.Contains(t, out, "[[groups]]")
	assert.Contains(t, out, "act.quit")
}

func TestListInvalidOutput(t *testing.T) {
	_, err := executeCLI(t, "list", "-o", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid output "csv"`)
}

func TestValidateCommand(t *testing.T) {
	good := writeTemp(t, "good.yaml", `actions:
  - id: nav.home
    label: Home
    path: /
  - id: act.theme
    label: Theme
    run: toggle-theme
`)
	out := runCLI(t, "validate", good)
	assert.Equal(t, good+": ok (2 actions)\n", out)
}

func TestValidateCommandReportsEveryBadFile(t *testing.T) {
	good := writeTemp(t, "good.yaml", "actions:\n  - id: a\n    label: A\n    path: /a\n")
	noLabel := writeTemp(t, "nolabel.yaml", "actions:\n  - id: a\n    path: /a\n")
	unknownRun := writeTemp(t, "run.yaml", "actions:\n  - id: a\n    label: A\n    run: launch-rockets\n")

	out, err := executeCLI(t, "validate", good, noLabel, unknownRun)
	require.Error(t, err)
	assert.Contains(t, out, good+": ok (1 actions)")
	assert.Contains(t, err.Error(), "missing label")
	assert.Contains(t, err.Error(), "launch-rockets")
}

func TestValidateRequiresFile(t *testing.T) {
	_, err := executeCLI(t, "validate")
	require.Error(t, err)
}

func TestDocsMarkdown(t *testing.T) {
	out := runCLI(t, "docs")
	assert.True(t, strings.HasPrefix(out, "# Admin Console command reference\n"), "got %q", out)
	assert.Contains(t, out, "## Navigation")
	assert.Contains(t, out, "## Keys")
	assert.Contains(t, out, "ctrl+k")
}

func TestDocsHTMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.html")
	out := runCLI(t, "docs", "--html", "--out", path)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Admin Console command reference</title>")
	assert.Contains(t, string(data), "<h2")
}

func TestSubcommandsRejectArgs(t *testing.T) {
	for _, c := range []*cobra.Command{listCmd, docsCmd, versionCmd} {
		t.Run(c.Name(), func(t *testing.T) {
			_, err := executeCLI(t, c.Name(), "extra")
			require.Error(t, err)
		})
	}
}

func TestResolveSnapshotSize(t *testing.T) {
	orig := termGetSize
	defer func() { termGetSize = orig }()
	termGetSize = func(int) (int, int, error) { return 0, 0, fmt.Errorf("not a terminal") }

	t.Setenv("COLUMNS", "")
	t.Setenv("LINES", "")
	assert.Equal(t, snapshotSize{Width: 120, Height: 40}, resolveSnapshotSize(120, 40))
	assert.Equal(t, snapshotSize{Width: defaultFallbackTermWidth, Height: defaultFallbackTermHeight}, resolveSnapshotSize(0, 0))

	t.Setenv("COLUMNS", "90")
	t.Setenv("LINES", "25")
	assert.Equal(t, snapshotSize{Width: 90, Height: 25}, resolveSnapshotSize(0, 0))
	assert.Equal(t, snapshotSize{Width: 70, Height: 25}, resolveSnapshotSize(70, 0))

	termGetSize = func(int) (int, int, error) { return 132, 43, nil }
	assert.Equal(t, snapshotSize{Width: 132, Height: 43}, resolveSnapshotSize(0, 0))
}

func TestTerminalDeviceNames(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in  string
		out string
	}{
		"windows": {in: "CONIN$", out: "CONOUT$"},
		"linux":   {in: "/dev/tty", out: "/dev/tty"},
		"darwin":  {in: "/dev/tty", out: "/dev/tty"},
		"freebsd": {in: "/dev/tty", out: "/dev/tty"},
	}

	for goos, expected := range tests {
		t.Run(goos, func(t *testing.T) {
			t.Parallel()

			in, out := terminalDeviceNames(goos)
			require.Equal(t, expected.in, in)
			require.Equal(t, expected.out, out)
		})
	}
}

func TestGetProgramOptions_PipedUsesTTYAndCleansUp(t *testing.T) {
	origIsPiped := stdinIsPiped
	origOpenTTY := openTerminalIOFn
	stdinIsPiped = func() bool { return true }

	inFile, err := os.CreateTemp(t.TempDir(), "tty-in-*")
	require.NoError(t, err)
	outFile, err := os.CreateTemp(t.TempDir(), "tty-out-*")
	require.NoError(t, err)

	openTerminalIOFn = func() (*os.File, *os.File, error) {
		return inFile, outFile, nil
	}
	defer func() {
		stdinIsPiped = origIsPiped
		openTerminalIOFn = origOpenTTY
	}()

	opts, cleanup := getProgramOptions()
	require.NotNil(t, cleanup)
	require.GreaterOrEqual(t, len(opts), 1)

	// Both handles are closed, so a second close fails.
	cleanup()
	require.Error(t, inFile.Close())
	require.Error(t, outFile.Close())
}

func TestGetProgramOptions_NotPipedUsesDefaults(t *testing.T) {
	origIsPiped := stdinIsPiped
	origOpenTTY := openTerminalIOFn
	stdinIsPiped = func() bool { return false }
	openTerminalIOFn = func() (*os.File, *os.File, error) {
		return nil, nil, fmt.Errorf("should not be called")
	}
	defer func() {
		stdinIsPiped = origIsPiped
		openTerminalIOFn = origOpenTTY
	}()

	opts, cleanup := getProgramOptions()
	require.NotNil(t, cleanup)
	require.Nil(t, opts)
	require.NotPanics(t, cleanup)
}

func TestGetProgramOptions_NoTTYKeepsStdin(t *testing.T) {
	origIsPiped := stdinIsPiped
	origOpenTTY := openTerminalIOFn
	stdinIsPiped = func() bool { return true }
	openTerminalIOFn = func() (*os.File, *os.File, error) {
		return nil, nil, fmt.Errorf("no controlling terminal")
	}
	defer func() {
		stdinIsPiped = origIsPiped
		openTerminalIOFn = origOpenTTY
	}()

	opts, cleanup := getProgramOptions()
	require.Nil(t, opts)
	require.NotPanics(t, cleanup)
}

type fakeResizeTicker struct {
	ch <-chan time.Time
}

func (f *fakeResizeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeResizeTicker) Stop()               {}

func makePipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	return r, w
}

func TestWithTTYResizeWatcherSkipsUnchangedSize(t *testing.T) {
	origTermGetSize := termGetSize
	origTicker := newResizeTicker
	origSend := sendWindowSize
	termCalls := atomic.Int32{}

	termGetSize = func(_ int) (int, int, error) {
		switch termCalls.Add(1) {
		case 1, 2:
			return 80, 24, nil
		default:
			return 81, 24, nil
		}
	}

	ticks := make(chan time.Time, 3)
	newResizeTicker = func(time.Duration) resizeTicker {
		return &fakeResizeTicker{ch: ticks}
	}

	msgs := make(chan tea.WindowSizeMsg, 3)
	sendWindowSize = func(_ *tea.Program, msg tea.WindowSizeMsg) {
		msgs <- msg
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		termGetSize = origTermGetSize
		newResizeTicker = origTicker
		sendWindowSize = origSend
	}()

	_, out := makePipe(t)
	opt := withTTYResizeWatcher(ctx, out)
	var p tea.Program
	opt(&p)

	ticks <- time.Now()
	ticks <- time.Now()
	ticks <- time.Now()

	recv := func() tea.WindowSizeMsg {
		select {
		case m := <-msgs:
			return m
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for resize message")
			return tea.WindowSizeMsg{}
		}
	}

	assert.Equal(t, tea.WindowSizeMsg{Width: 80, Height: 24}, recv())
	assert.Equal(t, tea.WindowSizeMsg{Width: 81, Height: 24}, recv(), "the unchanged second size is skipped")
	select {
	case m := <-msgs:
		t.Fatalf("unexpected extra resize message: %+v", m)
	case <-time.After(50 * time.Millisecond):
	}
}
