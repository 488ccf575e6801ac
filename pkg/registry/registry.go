// Package registry holds the immutable, ordered set of actions a command
// palette can launch.
//
// A Registry is built once from host-supplied ActionItems and never changes
// afterwards. Entries are validated at construction so that the palette can
// dispatch any item it finds without further checks.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Category is the group tag of an ActionItem. The set is closed.
type Category string

const (
	CategoryNavigation Category = "navigation"
	CategoryAction     Category = "action"
	CategoryRecent     Category = "recent"
)

// categoryOrder defines the display order of groups in the palette.
var categoryOrder = []Category{
	CategoryNavigation,
	CategoryAction,
	CategoryRecent,
}

// Categories returns the fixed display order of categories.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c.rank() >= 0
}

// Title returns the group heading shown above the category's items.
func (c Category) Title() string {
	switch c {
	case CategoryNavigation:
		return "Navigation"
	case CategoryAction:
		return "Actions"
	case CategoryRecent:
		return "Recent"
	default:
		return string(c)
	}
}

func (c Category) rank() int {
	for i, known := range categoryOrder {
		if known == c {
			return i
		}
	}
	return -1
}

// ParseCategory converts a config string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown category %q (expected navigation|action|recent)", ErrInvalidItem, s)
	}
	return c, nil
}

var (
	// ErrInvalidItem marks an ActionItem that violates the registry contract.
	ErrInvalidItem = errors.New("invalid action item")
	// ErrDuplicateID is returned when two items share an id.
	ErrDuplicateID = errors.New("duplicate action id")
)

// ActionItem is one invocable command.
type ActionItem struct {
	ID          string
	Label       string
	Description string
	Category    Category
	Target      Target

	// Shortcut is a display hint such as "g u"; it is not bound by the palette.
	Shortcut string
	// Keywords are shown next to the description. They do not take part in matching.
	Keywords []string
}

// Validate checks the item in isolation.
func (it ActionItem) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidItem)
	}
	if strings.TrimSpace(it.Label) == "" {
		return fmt.Errorf("%w: %s: empty label", ErrInvalidItem, it.ID)
	}
	if !it.Category.Valid() {
		return fmt.Errorf("%w: %s: unknown category %q", ErrInvalidItem, it.ID, it.Category)
	}
	if err := validateTarget(it.Target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidItem, it.ID, err)
	}
	return nil
}

// Registry is an immutable ordered list of ActionItems.
//
// Order is category-major: items are stably partitioned by the fixed category
// order, keeping the supplied relative order inside each category.
type Registry struct {
	items []ActionItem
	index map[string]int
}

// New validates items and builds a Registry. An empty registry is valid.
func New(items ...ActionItem) (*Registry, error) {
	r := &Registry{
		items: make([]ActionItem, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	for _, cat := range categoryOrder {
		for _, it := range items {
			if it.Category != cat {
				continue
			}
			it.Keywords = append([]string(nil), it.Keywords...)
			r.index[it.ID] = len(r.items)
			r.items = append(r.items, it)
		}
	}
	return r, nil
}

// MustNew is like New but panics on invalid input. Intended for static tables.
func MustNew(items ...ActionItem) *Registry {
	r, err := New(items...)
	if err != nil {
		panic(err)
	}
	return r
}

// With returns a new Registry holding r's items followed by extra.
// r itself is left untouched.
func (r *Registry) With(extra ...ActionItem) (*Registry, error) {
	combined := append(r.AllItems(), extra...)
	return New(combined...)
}

// Len returns the number of items.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.items)
}

// AllItems returns a copy of every item in registry order.
func (r *Registry) AllItems() []ActionItem {
	if r == nil {
		return nil
	}
	return append([]ActionItem(nil), r.items...)
}

// ByCategory returns the items of one category in registry order.
func (r *Registry) ByCategory(c Category) []ActionItem {
	if r == nil {
		return nil
	}
	var out []ActionItem
	for _, it := range r.items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out
}

// Lookup returns the item with the given id.
func (r *Registry) Lookup(id string) (ActionItem, bool) {
	if r == nil {
		return ActionItem{}, false
	}
	i, ok := r.index[id]
	if !ok {
		return ActionItem{}, false
	}
	return r.items[i], true
}

// Filter returns the ids of items matching query, in registry order.
func (r *Registry) Filter(query string) []string {
	if r == nil {
		return nil
	}
	m := NewMatcher(query)
	ids := make([]string, 0, len(r.items))
	for _, it := range r.items {
		if m.Match(it) {
			ids = append(ids, it.ID)
		}
	}
	return ids
}
