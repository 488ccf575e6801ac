package actions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	celext "github.com/google/cel-go/ext"
	exprpb "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// Vars are the values bound into an expression callback.
type Vars struct {
	Route  string
	Recent []string
	Theme  string
}

// Evaluator compiles expression callbacks against a fixed environment with
// route (string), recent (list of ids) and theme (string) declared.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates the CEL environment with the common extension
// libraries enabled.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("route", cel.StringType),
		cel.Variable("recent", cel.ListType(cel.StringType)),
		cel.Variable("theme", cel.StringType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// varNames are the variables every expression may read.
var varNames = []string{"route", "recent", "theme"}

// Program is a compiled expression callback.
type Program struct {
	expr string
	uses []string
	prg  cel.Program
}

// Compile parses and type checks expr.
func (e *Evaluator) Compile(expr string) (*Program, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	p := &Program{expr: expr, prg: prg}
	if parsed, err := cel.AstToParsedExpr(ast); err == nil {
		p.uses = referencedVars(parsed.GetExpr())
	}
	return p, nil
}

// Expr returns the source text.
func (p *Program) Expr() string {
	return p.expr
}

// Uses returns the host variables the expression reads, in declaration
// order.
func (p *Program) Uses() []string {
	return slices.Clone(p.uses)
}

func referencedVars(root *exprpb.Expr) []string {
	seen := map[string]bool{}
	var walk func(e *exprpb.Expr)
	walk = func(e *exprpb.Expr) {
		if e == nil {
			return
		}
		switch k := e.ExprKind.(type) {
		case *exprpb.Expr_IdentExpr:
			seen[k.IdentExpr.GetName()] = true
		case *exprpb.Expr_SelectExpr:
			walk(k.SelectExpr.GetOperand())
		case *exprpb.Expr_CallExpr:
			walk(k.CallExpr.GetTarget())
			for _, arg := range k.CallExpr.GetArgs() {
				walk(arg)
			}
		case *exprpb.Expr_ListExpr:
			for _, el := range k.ListExpr.GetElements() {
				walk(el)
			}
		case *exprpb.Expr_StructExpr:
			for _, entry := range k.StructExpr.GetEntries() {
				walk(entry.GetMapKey())
				walk(entry.GetValue())
			}
		case *exprpb.Expr_ComprehensionExpr:
			c := k.ComprehensionExpr
			walk(c.GetIterRange())
			walk(c.GetAccuInit())
			walk(c.GetLoopCondition())
			walk(c.GetLoopStep())
			walk(c.GetResult())
		}
	}
	walk(root)

	var out []string
	for _, name := range varNames {
		if seen[name] {
			out = append(out, name)
		}
	}
	return out
}

// Eval runs the program and renders the result for the status line.
func (p *Program) Eval(v Vars) (string, error) {
	recent := v.Recent
	if recent == nil {
		recent = []string{}
	}
	out, _, err := p.prg.Eval(map[string]any{
		"route":  v.Route,
		"recent": recent,
		"theme":  v.Theme,
	})
	if err != nil {
		return "", fmt.Errorf("eval error: %w", err)
	}
	return render(toGo(out)), nil
}

// toGo converts CEL values to plain Go values.
func toGo(val ref.Val) any {
	switch v := val.(type) {
	case nil:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}
	if l, ok := val.(traits.Lister); ok {
		n, _ := l.Size().(types.Int)
		out := make([]any, int(n))
		for i := range out {
			out[i] = toGo(l.Get(types.Int(i)))
		}
		return out
	}
	return val.Value()
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = render(e)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}
