package actions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/quickbar/pkg/loader"
	"github.com/oakwood-commons/quickbar/pkg/registry"
)

type fakeHost struct {
	route   string
	recent  []string
	theme   string
	status  string
	err     error
	toggled int
	cleared bool
	quit    bool
	copied  string
	copyErr error
}

func (h *fakeHost) Route() string        { return h.route }
func (h *fakeHost) Recent() []string     { return h.recent }
func (h *fakeHost) Theme() string        { return h.theme }
func (h *fakeHost) ToggleTheme()         { h.toggled++ }
func (h *fakeHost) ClearRecent()         { h.cleared = true; h.recent = nil }
func (h *fakeHost) Quit()                { h.quit = true }
func (h *fakeHost) SetStatus(msg string) { h.status = msg; h.err = nil }
func (h *fakeHost) SetError(err error)   { h.err = err }

func (h *fakeHost) CopyText(text string) error {
	if h.copyErr != nil {
		return h.copyErr
	}
	h.copied = text
	return nil
}

func invoke(t *testing.T, target registry.Target) {
	t.Helper()
	cb, ok := target.(registry.Callback)
	require.True(t, ok, "expected a callback target, got %T", target)
	require.NotNil(t, cb.Fn)
	cb.Fn()
}

func TestBuiltinCallbacks(t *testing.T) {
	host := &fakeHost{route: "/orders", recent: []string{"nav.users"}}
	b, err := NewBinder(host)
	require.NoError(t, err)

	target, err := b.Builtin("toggle-theme")
	require.NoError(t, err)
	invoke(t, target)
	assert.Equal(t, 1, host.toggled)

	target, err = b.Builtin("show-route")
	require.NoError(t, err)
	invoke(t, target)
	assert.Equal(t, "route: /orders", host.status)

	target, err = b.Builtin("clear-recent")
	require.NoError(t, err)
	invoke(t, target)
	assert.True(t, host.cleared)
	assert.Empty(t, host.recent)

	target, err = b.Builtin("copy-route")
	require.NoError(t, err)
	invoke(t, target)
	assert.Equal(t, "/orders", host.copied)
	assert.Equal(t, "copied /orders", host.status)

	host.copyErr = errors.New("no clipboard")
	invoke(t, target)
	require.Error(t, host.err)
	assert.Equal(t, "copy route: no clipboard", host.err.Error())

	target, err = b.Builtin("quit")
	require.NoError(t, err)
	assert.Equal(t, "quit", target.(registry.Callback).Name)
	invoke(t, target)
	assert.True(t, host.quit)
}

func TestUnknownBuiltinSuggestsName(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)
	_, err = b.Builtin("toggle-them")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown callback "toggle-them"`)
	assert.Contains(t, err.Error(), `did you mean "toggle-theme"?`)

	_, err = b.Builtin("deploy")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestExprCallback(t *testing.T) {
	host := &fakeHost{route: "/users", recent: []string{"nav.orders", "nav.users"}, theme: "dark"}
	b, err := NewBinder(host)
	require.NoError(t, err)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "string concat", expr: `"on " + route`, want: "on /users"},
		{name: "list size", expr: `size(recent)`, want: "2"},
		{name: "strings ext", expr: `theme.upperAscii()`, want: "DARK"},
		{name: "list result", expr: `recent.map(r, r.replace("nav.", ""))`, want: "orders, users"},
		{name: "bool", expr: `route.startsWith("/u")`, want: "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := b.Expr(tt.expr)
			require.NoError(t, err)
			invoke(t, target)
			require.NoError(t, host.err)
			assert.Equal(t, tt.want, host.status)
		})
	}
}

func TestExprSeesCurrentHostState(t *testing.T) {
	host := &fakeHost{route: "/"}
	b, err := NewBinder(host)
	require.NoError(t, err)
	target, err := b.Expr(`route`)
	require.NoError(t, err)

	host.route = "/coupons"
	invoke(t, target)
	assert.Equal(t, "/coupons", host.status)
}

func TestExprUses(t *testing.T) {
	ev, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		expr string
		want []string
	}{
		{expr: `"hello"`, want: nil},
		{expr: `theme + route`, want: []string{"route", "theme"}},
		{expr: `recent.exists(r, r == route)`, want: []string{"route", "recent"}},
		{expr: `[theme, "x"].join(",")`, want: []string{"theme"}},
		{expr: `{"k": route}["k"]`, want: []string{"route"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			prg, err := ev.Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, prg.Uses())
		})
	}
}

func TestExprCallbackNameListsVariables(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)

	target, err := b.Expr(`"You are on " + route + " (" + theme + " theme)"`)
	require.NoError(t, err)
	assert.Equal(t, "run expr(route, theme)", registry.Describe(target))

	target, err = b.Expr(`"static"`)
	require.NoError(t, err)
	assert.Equal(t, "run expr", registry.Describe(target))
}

func TestExprCompileError(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)

	_, err = b.Expr(`route +`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation error")

	_, err = b.Expr(`unknown_var`)
	require.Error(t, err)
}

func TestExprRuntimeErrorGoesToHost(t *testing.T) {
	host := &fakeHost{}
	b, err := NewBinder(host)
	require.NoError(t, err)
	target, err := b.Expr(`recent[3]`)
	require.NoError(t, err)

	invoke(t, target)
	require.Error(t, host.err)
	assert.Contains(t, host.err.Error(), "recent[3]")
	assert.Empty(t, host.status)
}

func TestBind(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)

	target, err := b.Bind(loader.Entry{ID: "a", Run: "quit"})
	require.NoError(t, err)
	assert.Equal(t, "quit", target.(registry.Callback).Name)

	target, err = b.Bind(loader.Entry{ID: "b", Expr: `"hi"`})
	require.NoError(t, err)
	invoke(t, target)

	_, err = b.Bind(loader.Entry{ID: "c", Path: "/c"})
	require.Error(t, err)
}

func TestDefaultRegistry(t *testing.T) {
	host := &fakeHost{route: "/", theme: "dark"}
	b, err := NewBinder(host)
	require.NoError(t, err)

	reg, err := b.DefaultRegistry()
	require.NoError(t, err)

	nav := reg.ByCategory(registry.CategoryNavigation)
	labels := make([]string, len(nav))
	for i, it := range nav {
		labels[i] = it.Label
	}
	assert.Equal(t, []string{
		"Dashboard", "Users", "Products", "Orders", "Payments",
		"Categories", "Coupons", "Returns", "CMS", "Settings",
	}, labels)

	create, ok := reg.Lookup("act.create-product")
	require.True(t, ok)
	assert.Equal(t, registry.CategoryAction, create.Category)
	assert.Equal(t, registry.NavigateTo("/products/new"), create.Target)

	where, ok := reg.Lookup("act.show-route")
	require.True(t, ok)
	invoke(t, where.Target)
	assert.Equal(t, "You are on / (dark theme)", host.status)

	assert.NotEmpty(t, DefaultActionsYAML())
}

func TestLoadRegistry(t *testing.T) {
	b, err := NewBinder(nil)
	require.NoError(t, err)

	reg, err := b.LoadRegistry("")
	require.NoError(t, err)
	assert.Greater(t, reg.Len(), 10)

	path := filepath.Join(t.TempDir(), "actions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("actions:\n  - id: a\n    label: A\n    expr: 'route +'\n"), 0o644))
	_, err = b.LoadRegistry(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestBuiltinsListing(t *testing.T) {
	assert.Equal(t, []string{"toggle-theme", "clear-recent", "show-route", "copy-route", "quit"}, BuiltinNames())
	list := Builtins()
	list[0].Name = "changed"
	assert.Equal(t, "toggle-theme", Builtins()[0].Name)
}

func TestNopHost(t *testing.T) {
	var h Host = nopHost{}
	h.SetError(errors.New("ignored"))
	h.Quit()
	assert.Empty(t, h.Route())
	assert.Nil(t, h.Recent())
}
