package palette

import "github.com/oakwood-commons/quickbar/pkg/registry"

// Entry is one row of a Group.
type Entry struct {
	Item registry.ActionItem
	// Index is the row's position in FilteredIDs, the sequence the cursor moves over.
	Index    int
	Selected bool
}

// Group is a non-empty category section of the current results.
type Group struct {
	Category registry.Category
	Title    string
	Entries  []Entry
}

// Groups partitions the current results by category in the fixed category
// order. Categories without matches are omitted. Reading the entries of all
// groups in order yields FilteredIDs exactly.
func (e *Engine) Groups() []Group {
	if e.s == nil || len(e.s.filtered) == 0 {
		return nil
	}
	var groups []Group
	for i, id := range e.s.filtered {
		item, ok := e.reg.Lookup(id)
		if !ok {
			continue
		}
		if len(groups) == 0 || groups[len(groups)-1].Category != item.Category {
			groups = append(groups, Group{Category: item.Category, Title: item.Category.Title()})
		}
		g := &groups[len(groups)-1]
		g.Entries = append(g.Entries, Entry{
			Item:     item,
			Index:    i,
			Selected: i == e.s.cursor,
		})
	}
	return groups
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	State       State
	SessionID   string
	Query       string
	FilteredIDs []string
	Cursor      int
	HasCursor   bool
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	cur, ok := e.Cursor()
	return Snapshot{
		State:       e.State(),
		SessionID:   e.SessionID(),
		Query:       e.Query(),
		FilteredIDs: e.FilteredIDs(),
		Cursor:      cur,
		HasCursor:   ok,
	}
}
