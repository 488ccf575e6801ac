// Package cmd implements the quickbar command line: the interactive host,
// snapshot rendering and the non-interactive list, validate, docs and
// version commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/quickbar/internal/ui"
	"github.com/oakwood-commons/quickbar/pkg/logger"
	"github.com/oakwood-commons/quickbar/pkg/settings"
)

var (
	configFile     string
	registryPath   string
	themeName      string
	keyMode        string // empty = use config
	debug          bool
	logFile        string
	noColor        bool
	renderSnapshot bool
	startKeys      []string
	snapshotWidth  int
	snapshotHeight int
)

var rootCtx = context.Background()

const rootLong = `quickbar opens a command palette over a small admin console.

Press the palette shortcut (ctrl+k by default), type to filter, move with the
arrow keys and press enter to run the selected action. Actions come from a
registry file (YAML, JSON or TOML) or the built-in console registry.`

var rootCmd = &cobra.Command{
	Use:           settings.CliBinaryName,
	Short:         "A keyboard-driven command palette for a terminal admin console",
	Long:          rootLong,
	Example:       "\n  quickbar\n  quickbar --registry actions.yaml --keymap emacs\n  quickbar --snapshot --press \"<C-k>ord\" --width 80 --height 20\n  quickbar list --query user -o json\n",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		run := settings.NewCliParams()
		run.MinLogLevel = settings.LogLevel(debug)
		run.LogFile = logFile
		run.RegistryPath = registryPath
		run.NoColor = noColor || os.Getenv("NO_COLOR") != ""
		run.Interactive = !cmd.HasParent() && !renderSnapshot

		// The interactive host owns the terminal, so logs only go to a file there.
		var out io.Writer
		switch {
		case logFile != "":
			w, _, err := logger.OpenFile(logFile)
			if err != nil {
				return err
			}
			out = w
		case run.Interactive:
			out = io.Discard
		}
		lgr := logger.Setup(logger.Options{Level: run.MinLogLevel, Output: out})
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), run)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfigState()
		if err != nil {
			return err
		}
		m, err := buildHost(rootCtx, cfg)
		if err != nil {
			return err
		}

		if renderSnapshot {
			size := resolveSnapshotSize(snapshotWidth, snapshotHeight)
			view := ui.RenderSnapshot(m, ui.SnapshotConfig{Width: size.Width, Height: size.Height, Keys: startKeys})
			fmt.Fprintln(cmd.OutOrStdout(), view)
			return nil
		}

		opts, cleanup := getProgramOptions()
		defer cleanup()
		return ui.Run(m, startKeys, opts...)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print quickbar version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

// cliVersionString builds the version line for `quickbar version` and --version.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/quickbar/config.yaml)")
	pf.StringVar(&registryPath, "registry", "", "action registry file (YAML, JSON or TOML); the built-in console registry when empty")
	pf.StringVar(&themeName, "theme", "", "theme name (default from config)")
	pf.StringVar(&keyMode, "keymap", "", "palette keymap: vim (default), emacs, or function")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.BoolVar(&debug, "debug", false, "log at debug level")
	pf.StringVar(&logFile, "log-file", "", "write JSON logs to this file")

	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single frame and exit (dev/test); honors --width/--height")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "simulate keys on startup. Use <Key> for special keys (e.g. <C-k>, <Down>, <CR>, <Esc>); literal text types normally")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "snapshot width in columns (default: terminal width)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "snapshot height in rows (default: terminal height)")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd, listCmd, validateCmd, docsCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
