// Package palette implements the command palette state machine: a query
// filters an action registry, a single cursor moves over the grouped
// results, and confirming dispatches the selected item to the host.
//
// The engine has no listeners of its own. The host forwards key and pointer
// events into it, which keeps every transition a plain method call. An Engine
// is not safe for concurrent use; drive it from one goroutine (for example a
// bubbletea Update loop).
package palette

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/oakwood-commons/quickbar/pkg/registry"
)

// State is the engine lifecycle state.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// noCursor marks an undefined cursor (empty result set).
const noCursor = -1

// session is the mutable state of one open/close cycle.
type session struct {
	id       string
	query    string
	filtered []string
	cursor   int
}

// Engine is the palette state machine.
type Engine struct {
	reg   *registry.Registry
	host  Host
	log   logr.Logger
	newID func() string

	s *session
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for transition traces (V(1)).
func WithLogger(lgr logr.Logger) Option {
	return func(e *Engine) {
		e.log = lgr
	}
}

// WithSessionIDs overrides the session id generator (uuid by default).
func WithSessionIDs(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New creates a closed Engine over reg. A nil registry behaves as empty and a
// nil host drops navigation requests.
func New(reg *registry.Registry, host Host, opts ...Option) *Engine {
	if reg == nil {
		reg = registry.MustNew()
	}
	if host == nil {
		host = HostFuncs{}
	}
	e := &Engine{
		reg:   reg,
		host:  host,
		log:   logr.Discard(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry currently in use.
func (e *Engine) Registry() *registry.Registry {
	return e.reg
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	if e.s == nil {
		return StateClosed
	}
	return StateOpen
}

// IsOpen reports whether a session is active.
func (e *Engine) IsOpen() bool {
	return e.s != nil
}

// Open starts a fresh session with an empty query and the cursor on the
// first item. It returns false if the palette was already open.
func (e *Engine) Open() bool {
	if e.s != nil {
		return false
	}
	s := &session{id: e.newID()}
	s.filtered = e.reg.Filter("")
	s.cursor = noCursor
	if len(s.filtered) > 0 {
		s.cursor = 0
	}
	e.s = s
	e.log.V(1).Info("palette opened", "session", s.id, "items", len(s.filtered))
	if fr, ok := e.host.(FocusRequester); ok {
		fr.RequestFocus()
	}
	return true
}

// Dismiss ends the session without dispatching. Calling it while closed has
// no effect and sends no close signal. It returns true if a session ended.
func (e *Engine) Dismiss() bool {
	if e.s == nil {
		return false
	}
	e.close(CloseDismissed)
	return true
}

// Toggle implements the host's global shortcut: open when closed, dismiss
// when open.
func (e *Engine) Toggle() {
	if e.s == nil {
		e.Open()
		return
	}
	e.Dismiss()
}

// SetQuery replaces the query, re-filters and clamps the cursor. If the
// previously selected item is still present the cursor follows it to its new
// index; otherwise the cursor resets to the first result.
func (e *Engine) SetQuery(text string) {
	if e.s == nil {
		return
	}
	if text == e.s.query {
		return
	}
	e.s.query = text
	e.refilter()
}

// SetRegistry swaps the registry. An open session is re-filtered with the
// same id-tracking clamp as SetQuery.
func (e *Engine) SetRegistry(reg *registry.Registry) {
	if reg == nil {
		reg = registry.MustNew()
	}
	e.reg = reg
	if e.s != nil {
		e.refilter()
	}
}

func (e *Engine) refilter() {
	prev, hadPrev := e.selectedID()
	e.s.filtered = e.reg.Filter(e.s.query)
	e.s.cursor = clampByID(e.s.filtered, prev, hadPrev)
	e.log.V(1).Info("palette filtered", "session", e.s.id, "query", e.s.query, "matches", len(e.s.filtered), "cursor", e.s.cursor)
}

// clampByID picks the cursor for a freshly filtered list.
func clampByID(filtered []string, prev string, hadPrev bool) int {
	if len(filtered) == 0 {
		return noCursor
	}
	if hadPrev {
		if i := indexOf(filtered, prev); i >= 0 {
			return i
		}
	}
	return 0
}

// MoveNext advances the cursor, wrapping from the last item to the first.
func (e *Engine) MoveNext() {
	if e.s == nil || len(e.s.filtered) == 0 {
		return
	}
	e.s.cursor = (e.s.cursor + 1) % len(e.s.filtered)
}

// MovePrevious moves the cursor back, wrapping from the first item to the last.
func (e *Engine) MovePrevious() {
	if e.s == nil || len(e.s.filtered) == 0 {
		return
	}
	if e.s.cursor <= 0 {
		e.s.cursor = len(e.s.filtered) - 1
		return
	}
	e.s.cursor--
}

// Hover puts the cursor directly on id. Ids not in the current results are
// ignored. It returns true if the cursor now points at id.
func (e *Engine) Hover(id string) bool {
	if e.s == nil {
		return false
	}
	i := indexOf(e.s.filtered, id)
	if i < 0 {
		return false
	}
	e.s.cursor = i
	return true
}

// Confirm dispatches the item under the cursor and closes the palette.
// With no results it does nothing and the palette stays open. It returns
// true if an item was dispatched.
func (e *Engine) Confirm() bool {
	if e.s == nil || e.s.cursor == noCursor {
		return false
	}
	cur := e.s
	item, ok := e.reg.Lookup(cur.filtered[cur.cursor])
	if !ok {
		return false
	}
	e.log.V(1).Info("palette confirm", "session", cur.id, "id", item.ID, "target", registry.Describe(item.Target))
	e.dispatch(item)
	// A callback may already have closed or reopened the palette.
	if e.s == cur {
		e.close(CloseConfirmed)
	}
	return true
}

func (e *Engine) dispatch(item registry.ActionItem) {
	switch t := registry.Normalize(item.Target).(type) {
	case registry.Navigate:
		e.host.Navigate(t.Path)
	case registry.Callback:
		if t.Fn != nil {
			t.Fn()
		}
	default:
		e.log.Info("action has no dispatchable target", "id", item.ID, "target", fmt.Sprintf("%T", item.Target))
	}
}

func (e *Engine) close(reason CloseReason) {
	id := e.s.id
	e.s = nil
	e.log.V(1).Info("palette closed", "session", id, "reason", reason.String())
	if co, ok := e.host.(CloseObserver); ok {
		co.PaletteClosed(reason)
	}
}

// Query returns the current query, or "" when closed.
func (e *Engine) Query() string {
	if e.s == nil {
		return ""
	}
	return e.s.query
}

// SessionID returns the id of the open session, or "" when closed.
func (e *Engine) SessionID() string {
	if e.s == nil {
		return ""
	}
	return e.s.id
}

// FilteredIDs returns the ids matching the query in display order.
func (e *Engine) FilteredIDs() []string {
	if e.s == nil {
		return nil
	}
	return append([]string(nil), e.s.filtered...)
}

// Cursor returns the selected index. ok is false when there is no selection.
func (e *Engine) Cursor() (int, bool) {
	if e.s == nil || e.s.cursor == noCursor {
		return 0, false
	}
	return e.s.cursor, true
}

// Selected returns the item under the cursor.
func (e *Engine) Selected() (registry.ActionItem, bool) {
	id, ok := e.selectedID()
	if !ok {
		return registry.ActionItem{}, false
	}
	return e.reg.Lookup(id)
}

func (e *Engine) selectedID() (string, bool) {
	if e.s == nil || e.s.cursor == noCursor || e.s.cursor >= len(e.s.filtered) {
		return "", false
	}
	return e.s.filtered[e.s.cursor], true
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
