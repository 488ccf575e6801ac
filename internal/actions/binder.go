package actions

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/quickbar/pkg/loader"
	"github.com/oakwood-commons/quickbar/pkg/registry"
)

// Binder resolves registry file callbacks against a Host. It implements
// loader.Binder.
type Binder struct {
	host Host
	eval *Evaluator
}

var _ loader.Binder = (*Binder)(nil)

// NewBinder creates a Binder. host may be nil when the registry is only
// being validated; the bound callbacks then do nothing.
func NewBinder(host Host) (*Binder, error) {
	eval, err := NewEvaluator()
	if err != nil {
		return nil, err
	}
	if host == nil {
		host = nopHost{}
	}
	return &Binder{host: host, eval: eval}, nil
}

// Bind implements loader.Binder for run and expr entries. Expressions are
// compiled here so broken ones reject the whole registry at load time.
func (b *Binder) Bind(e loader.Entry) (registry.Target, error) {
	switch e.Kind() {
	case "run":
		return b.Builtin(e.Run)
	case "expr":
		return b.Expr(e.Expr)
	default:
		return nil, fmt.Errorf("entry %s has no callback", e.ID)
	}
}

// Builtin returns the callback target for a built-in name.
func (b *Binder) Builtin(name string) (registry.Target, error) {
	bi, err := lookupBuiltin(name)
	if err != nil {
		return nil, err
	}
	return registry.Call(bi.Name, func() { bi.fn(b.host) }), nil
}

// Expr compiles expr into a callback that evaluates it with the host's
// current route, recent list and theme and shows the result as status.
// Evaluation errors are reported through Host.SetError.
func (b *Binder) Expr(expr string) (registry.Target, error) {
	prg, err := b.eval.Compile(expr)
	if err != nil {
		return nil, err
	}
	name := "expr"
	if uses := prg.Uses(); len(uses) > 0 {
		name += "(" + strings.Join(uses, ", ") + ")"
	}
	return registry.Call(name, func() {
		out, err := prg.Eval(Vars{
			Route:  b.host.Route(),
			Recent: b.host.Recent(),
			Theme:  b.host.Theme(),
		})
		if err != nil {
			b.host.SetError(fmt.Errorf("%s: %w", prg.Expr(), err))
			return
		}
		b.host.SetStatus(out)
	}), nil
}

// LoadRegistry builds the registry from path, or the built-in admin console
// registry when path is empty.
func (b *Binder) LoadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return b.DefaultRegistry()
	}
	return loader.LoadFile(path, b)
}

type nopHost struct{}

func (nopHost) Route() string         { return "" }
func (nopHost) Recent() []string      { return nil }
func (nopHost) Theme() string         { return "" }
func (nopHost) ToggleTheme()          {}
func (nopHost) ClearRecent()          {}
func (nopHost) CopyText(string) error { return nil }
func (nopHost) Quit()                 {}
func (nopHost) SetStatus(string)      {}
func (nopHost) SetError(error)        {}
