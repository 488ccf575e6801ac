package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/quickbar/internal/docs"
)

var (
	docsHTML bool
	docsOut  string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate a Markdown (or HTML) reference of the registry and key bindings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfigState()
		if err != nil {
			return err
		}
		m, err := buildHost(rootCtx, cfg)
		if err != nil {
			return err
		}

		var keys []docs.KeyHelp
		for _, row := range m.Keys().Describe() {
			keys = append(keys, docs.KeyHelp{Keys: row[0], Action: row[1]})
		}
		title := cfg.App.Name + " command reference"
		out := docs.Markdown(m.Engine().Registry(), docs.Options{
			Title:    title,
			Shortcut: cfg.Palette.Shortcut,
			Keymap:   cfg.Palette.Keymap,
			Keys:     keys,
		})
		if docsHTML {
			out = docs.HTML(out, title)
		}

		if docsOut != "" {
			if err := os.WriteFile(docsOut, out, 0o644); err != nil {
				return fmt.Errorf("write docs: %w", err)
			}
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() { //nolint:gochecknoinits
	docsCmd.Flags().BoolVar(&docsHTML, "html", false, "render HTML instead of Markdown")
	docsCmd.Flags().StringVar(&docsOut, "out", "", "write to this file instead of stdout")
}
