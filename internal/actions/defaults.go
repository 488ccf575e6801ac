package actions

import (
	_ "embed"
	"fmt"

	"github.com/oakwood-commons/quickbar/pkg/loader"
	"github.com/oakwood-commons/quickbar/pkg/registry"
)

//go:embed default_actions.yaml
var defaultActions []byte

// DefaultActionsYAML returns a copy of the built-in admin console registry file.
func DefaultActionsYAML() []byte {
	return append([]byte(nil), defaultActions...)
}

// DefaultRegistry builds the admin console registry used when no registry
// file is configured.
func (b *Binder) DefaultRegistry() (*registry.Registry, error) {
	f, err := loader.Parse(defaultActions, loader.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("default registry: %w", err)
	}
	reg, err := loader.Build(f, b)
	if err != nil {
		return nil, fmt.Errorf("default registry: %w", err)
	}
	return reg, nil
}
