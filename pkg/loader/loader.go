// Package loader reads action registry files (YAML, JSON or TOML) and turns
// them into a registry.Registry.
//
// A registry file holds a single top-level "actions" list:
//
//	actions:
//	  - id: nav.users
//	    label: Users
//	    description: Manage user accounts
//	    path: /users
//	  - id: act.theme
//	    label: Toggle Theme
//	    run: toggle-theme
//
// Each entry carries exactly one of path (navigation), run (a named callback)
// or expr (a CEL expression). Callbacks are resolved by a Binder supplied by
// the caller so this package stays free of host behavior.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/quickbar/pkg/registry"
)

// Format is a registry file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ErrEmptyInput is returned for files with no content.
var ErrEmptyInput = errors.New("empty input")

// Entry is one action as written in a registry file.
type Entry struct {
	ID          string   `yaml:"id" json:"id" toml:"id"`
	Label       string   `yaml:"label" json:"label" toml:"label"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Category    string   `yaml:"category,omitempty" json:"category,omitempty" toml:"category,omitempty"`
	Shortcut    string   `yaml:"shortcut,omitempty" json:"shortcut,omitempty" toml:"shortcut,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty" json:"keywords,omitempty" toml:"keywords,omitempty"`
	Path        string   `yaml:"path,omitempty" json:"path,omitempty" toml:"path,omitempty"`
	Run         string   `yaml:"run,omitempty" json:"run,omitempty" toml:"run,omitempty"`
	Expr        string   `yaml:"expr,omitempty" json:"expr,omitempty" toml:"expr,omitempty"`

	// Line is the 1-based source line for YAML input, 0 otherwise.
	Line int `yaml:"-" json:"-" toml:"-"`
	// Index is the position of the entry in the actions list.
	Index int `yaml:"-" json:"-" toml:"-"`
}

// File is a decoded registry file.
type File struct {
	Actions []Entry `yaml:"actions" json:"actions" toml:"actions"`
}

// Binder resolves run and expr entries into callback targets.
type Binder interface {
	Bind(e Entry) (registry.Target, error)
}

// BinderFunc adapts a function to Binder.
type BinderFunc func(e Entry) (registry.Target, error)

func (f BinderFunc) Bind(e Entry) (registry.Target, error) { return f(e) }

// Where describes the entry's location for error messages.
func (e Entry) Where() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d", e.Line)
	}
	return fmt.Sprintf("actions[%d]", e.Index)
}

// Kind returns which of path, run or expr the entry uses, or "" when the
// entry sets none or more than one.
func (e Entry) Kind() string {
	kind := ""
	for _, c := range []struct{ name, val string }{{"path", e.Path}, {"run", e.Run}, {"expr", e.Expr}} {
		if strings.TrimSpace(c.val) == "" {
			continue
		}
		if kind != "" {
			return ""
		}
		kind = c.name
	}
	return kind
}

// ResolveCategory returns the declared category, or navigation for path
// entries and action for callbacks when none is declared.
func (e Entry) ResolveCategory() (registry.Category, error) {
	if strings.TrimSpace(e.Category) == "" {
		if e.Path != "" {
			return registry.CategoryNavigation, nil
		}
		return registry.CategoryAction, nil
	}
	return registry.ParseCategory(e.Category)
}

// Validate checks the entry without binding callbacks.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%s: %w: missing id", e.Where(), registry.ErrInvalidItem)
	}
	if strings.TrimSpace(e.Label) == "" {
		return fmt.Errorf("%s: %s: %w: missing label", e.Where(), e.ID, registry.ErrInvalidItem)
	}
	if e.Kind() == "" {
		return fmt.Errorf("%s: %s: %w: exactly one of path, run or expr is required", e.Where(), e.ID, registry.ErrInvalidItem)
	}
	if _, err := e.ResolveCategory(); err != nil {
		return fmt.Errorf("%s: %s: %w", e.Where(), e.ID, err)
	}
	return nil
}

// DetectFormat picks the encoding from the file extension, falling back to
// sniffing the content. YAML is the default.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	trimmed := strings.TrimSpace(string(data))
	// TOML [[actions]] headers look like JSON arrays, so check TOML first.
	if isLikelyTOML(trimmed) {
		return FormatTOML
	}
	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFile reads and decodes the registry file at path.
func ParseFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read registry: %w", err)
	}
	f, err := Parse(data, DetectFormat(path, data))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes data in the given format. Unknown fields are rejected.
func Parse(data []byte, format Format) (File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return File{}, ErrEmptyInput
	}
	var (
		f   File
		err error
	)
	switch format {
	case FormatJSON:
		f, err = parseJSON(data)
	case FormatTOML:
		f, err = parseTOML(data)
	case FormatYAML, "":
		f, err = parseYAML(data)
	default:
		return File{}, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return File{}, err
	}
	for i := range f.Actions {
		f.Actions[i].Index = i
	}
	return f, nil
}

func parseJSON(data []byte) (File, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return f, nil
}

func parseTOML(data []byte) (File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("invalid TOML: %w", err)
	}
	return f, nil
}

// parseYAML decodes strictly, then walks the node tree a second time to
// record the source line of every entry.
func parseYAML(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("invalid YAML: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return File{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if seq := actionsNode(&root); seq != nil {
		for i, n := range seq.Content {
			if i < len(f.Actions) {
				f.Actions[i].Line = n.Line
			}
		}
	}
	return f, nil
}

func actionsNode(root *yaml.Node) *yaml.Node {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "actions" && doc.Content[i+1].Kind == yaml.SequenceNode {
			return doc.Content[i+1]
		}
	}
	return nil
}

// Build validates every entry, binds callbacks through b and constructs the
// registry. b may be nil when the file only contains path entries.
func Build(f File, b Binder) (*registry.Registry, error) {
	items := make([]registry.ActionItem, 0, len(f.Actions))
	for _, e := range f.Actions {
		it, err := e.toItem(b)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	reg, err := registry.New(items...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	return reg, nil
}

func (e Entry) toItem(b Binder) (registry.ActionItem, error) {
	if err := e.Validate(); err != nil {
		return registry.ActionItem{}, err
	}
	cat, _ := e.ResolveCategory()
	it := registry.ActionItem{
		ID:          e.ID,
		Label:       e.Label,
		Description: e.Description,
		Category:    cat,
		Shortcut:    e.Shortcut,
		Keywords:    e.Keywords,
	}
	if e.Kind() == "path" {
		it.Target = registry.NavigateTo(e.Path)
		return it, nil
	}
	if b == nil {
		return registry.ActionItem{}, fmt.Errorf("%s: %s: no callback binder configured for %s", e.Where(), e.ID, e.Kind())
	}
	target, err := b.Bind(e)
	if err != nil {
		return registry.ActionItem{}, fmt.Errorf("%s: %s: %w", e.Where(), e.ID, err)
	}
	it.Target = target
	return it, nil
}

// LoadFile parses the file at path and builds a registry from it.
func LoadFile(path string, b Binder) (*registry.Registry, error) {
	f, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	reg, err := Build(f, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

var (
	// Section headers: [server], [[actions]], ["table name"], [a.b].
	// JSON arrays like [1, 2, 3] do not match.
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// key = value, as opposed to YAML's key: value.
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML reports whether input has TOML section headers or mostly
// key = value lines.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
