package registry

import "errors"

// Target is what confirming an ActionItem does. It is a closed sum type:
// the only implementations are Navigate and Callback (or pointers to them).
type Target interface {
	isTarget()
}

// Navigate asks the host to route to Path. The palette never interprets it.
type Navigate struct {
	Path string
}

func (Navigate) isTarget() {}

// Callback invokes Fn directly. Name identifies the callback in logs and
// generated docs.
type Callback struct {
	Name string
	Fn   func()
}

func (Callback) isTarget() {}

// NavigateTo is shorthand for a Navigate target.
func NavigateTo(path string) Target {
	return Navigate{Path: path}
}

// Call is shorthand for a Callback target.
func Call(name string, fn func()) Target {
	return Callback{Name: name, Fn: fn}
}

// Normalize dereferences pointer targets so callers only switch on the two
// value types. A nil pointer becomes a nil Target.
func Normalize(t Target) Target {
	switch v := t.(type) {
	case *Navigate:
		if v == nil {
			return nil
		}
		return *v
	case *Callback:
		if v == nil {
			return nil
		}
		return *v
	}
	return t
}

// Describe returns a short human readable form of t, e.g. "→ /users".
func Describe(t Target) string {
	switch v := Normalize(t).(type) {
	case Navigate:
		return "→ " + v.Path
	case Callback:
		if v.Name != "" {
			return "run " + v.Name
		}
		return "run"
	}
	return ""
}

func validateTarget(t Target) error {
	switch v := Normalize(t).(type) {
	case nil:
		return errors.New("missing target (need a navigation path or a callback)")
	case Navigate:
		if v.Path == "" {
			return errors.New("navigation target has an empty path")
		}
	case Callback:
		if v.Fn == nil {
			return errors.New("callback target has no function")
		}
	}
	return nil
}
