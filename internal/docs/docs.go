// Package docs renders a reference page for a registry: every action grouped
// by category, the built-in callbacks and the palette keys. The page is
// Markdown and can be converted to a standalone HTML document.
package docs

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/quickbar/internal/actions"
	"github.com/oakwood-commons/quickbar/pkg/registry"
)

// KeyHelp is one row of the keyboard table.
type KeyHelp struct {
	Keys   string
	Action string
}

// Options controls the generated page.
type Options struct {
	Title    string
	Shortcut string
	Keymap   string
	Keys     []KeyHelp
}

// Markdown renders the reference page.
func Markdown(reg *registry.Registry, opts Options) []byte {
	title := opts.Title
	if title == "" {
		title = "Command palette reference"
	}
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", title)
	if opts.Shortcut != "" {
		fmt.Fprintf(&b, "Open the palette with `%s`", opts.Shortcut)
		if opts.Keymap != "" {
			fmt.Fprintf(&b, " (keymap: `%s`)", opts.Keymap)
		}
		b.WriteString(". Typing filters actions whose label or description contains the query, ignoring case.\n\n")
	}

	for _, cat := range registry.Categories() {
		items := reg.ByCategory(cat)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", cat.Title())
		b.WriteString("| Action | Description | Shortcut | Does |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, it := range items {
			desc := it.Description
			if len(it.Keywords) > 0 {
				desc = strings.TrimSpace(desc + " _(" + strings.Join(it.Keywords, ", ") + ")_")
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cell(it.Label), cell(desc), code(it.Shortcut), code(registry.Describe(it.Target)))
		}
		b.WriteString("\n")
	}
	if reg.Len() == 0 {
		b.WriteString("_The registry is empty._\n\n")
	}

	b.WriteString("## Built-in callbacks\n\n")
	b.WriteString("Registry files reference these with `run:`.\n\n")
	b.WriteString("| Name | Description |\n|---|---|\n")
	for _, bi := range actions.Builtins() {
		fmt.Fprintf(&b, "| `%s` | %s |\n", bi.Name, cell(bi.Description))
	}
	b.WriteString("\n")

	if len(opts.Keys) > 0 {
		b.WriteString("## Keys\n\n| Keys | Action |\n|---|---|\n")
		for _, k := range opts.Keys {
			fmt.Fprintf(&b, "| %s | %s |\n", code(k.Keys), cell(k.Action))
		}
		b.WriteString("\n")
	}
	return b.Bytes()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + cell(s) + "`"
}

// HTML converts Markdown output into a standalone HTML page.
func HTML(md []byte, title string) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	body := markdown.Render(doc, renderer)

	var out bytes.Buffer
	writeHeader(&out, title)
	out.Write(body)
	writeFooter(&out)
	return out.Bytes()
}

func writeHeader(w *bytes.Buffer, title string) {
	fmt.Fprintf(w, `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>%s</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 900px; margin: 40px auto; padding: 0 20px; line-height: 1.6; color: #333; }
    h1 { color: #2563eb; border-bottom: 2px solid #2563eb; padding-bottom: 10px; }
    h2 { color: #1e40af; margin-top: 30px; }
    code { background: #f1f5f9; padding: 2px 6px; border-radius: 3px; font-family: Monaco, Menlo, monospace; font-size: 0.9em; }
    table { width: 100%%; border-collapse: collapse; }
    th, td { padding: 6px 8px; border-bottom: 1px solid #e2e8f0; text-align: left; }
  </style>
</head>
<body>
`, html.EscapeString(title))
}

func writeFooter(w *bytes.Buffer) {
	w.WriteString(`</body>
</html>
`)
}
