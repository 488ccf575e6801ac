package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	runewidth "github.com/mattn/go-runewidth"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/quickbar/internal/suggest"
	"github.com/oakwood-commons/quickbar/pkg/palette"
	"github.com/oakwood-commons/quickbar/pkg/registry"
)

var (
	listQuery  string
	listOutput string
)

type listItem struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Label       string `json:"label" yaml:"label" toml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Shortcut    string `json:"shortcut,omitempty" yaml:"shortcut,omitempty" toml:"shortcut,omitempty"`
	Target      string `json:"target" yaml:"target" toml:"target"`
}

type listGroup struct {
	Category string     `json:"category" yaml:"category" toml:"category"`
	Title    string     `json:"title" yaml:"title" toml:"title"`
	Items    []listItem `json:"items" yaml:"items" toml:"items"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the actions matching a query, grouped as the palette shows them",
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
		eng := m.Engine()
		groups := queryGroups(eng, listQuery)
		return printGroups(cmd.OutOrStdout(), groups, listQuery, eng.Registry(), listOutput)
	},
}

func init() { //nolint:gochecknoinits
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "filter text (case-insensitive substring of label or description)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table|yaml|json|toml")
}

// queryGroups runs one palette session with query and collects its groups.
func queryGroups(eng *palette.Engine, query string) []listGroup {
	eng.Open()
	defer eng.Dismiss()
	eng.SetQuery(query)

	groups := []listGroup{}
	for _, g := range eng.Groups() {
		lg := listGroup{Category: string(g.Category), Title: g.Title}
		for _, e := range g.Entries {
			lg.Items = append(lg.Items, listItem{
				ID:          e.Item.ID,
				Label:       e.Item.Label,
				Description: e.Item.Description,
				Shortcut:    e.Item.Shortcut,
				Target:      registry.Describe(e.Item.Target),
			})
		}
		groups = append(groups, lg)
	}
	return groups
}

func printGroups(w io.Writer, groups []listGroup, query string, reg *registry.Registry, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		if len(groups) == 0 {
			fmt.Fprintf(w, "No actions match %q.\n", query)
			if hint := suggest.Phrase(suggest.Labels(query, reg, 3)); hint != "" {
				fmt.Fprintln(w, hint)
			}
			return nil
		}
		_, err := io.WriteString(w, renderGroupTable(groups))
		return err
	case "json":
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(groups)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "toml":
		data, err := toml.Marshal(struct {
			Groups []listGroup `toml:"groups"`
		}{groups})
		if err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("invalid output %q (expected table|yaml|json|toml)", format)
	}
}

// renderGroupTable lays the groups out in aligned columns:
// label, description, shortcut and what the action does.
func renderGroupTable(groups []listGroup) string {
	var labelW, descW, shortW int
	for _, g := range groups {
		for _, it := range g.Items {
			labelW = max(labelW, runewidth.StringWidth(it.Label))
			descW = max(descW, runewidth.StringWidth(it.Description))
			shortW = max(shortW, runewidth.StringWidth(it.Shortcut))
		}
	}

	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(g.Title + "\n")
		for _, it := range g.Items {
			row := "  " + runewidth.FillRight(it.Label, labelW) +
				"  " + runewidth.FillRight(it.Description, descW) +
				"  " + runewidth.FillRight(it.Shortcut, shortW) +
				"  " + it.Target
			b.WriteString(strings.TrimRight(row, " ") + "\n")
		}
	}
	return b.String()
}
