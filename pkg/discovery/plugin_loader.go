package discovery

import (
	"fmt"
	"plugin"

	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// ConstructorSymbol is the exported symbol a plugin artifact must carry.
// The artifact declares either a function
//
//	func NewProvider(name string, def types.ModelDefinition) (types.Provider, error)
//
// or a package-level variable of type types.Constructor. The first form
// found wins.
const ConstructorSymbol = "NewProvider"

// PluginLoader loads Go plugin shared objects and resolves their constructor
// through the ConstructorSymbol convention.
type PluginLoader struct{}

// Load opens the artifact at path and returns its constructor.
func (PluginLoader) Load(path string) (types.Constructor, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plugin: %w", err)
	}
	sym, err := p.Lookup(ConstructorSymbol)
	if err != nil {
		return nil, fmt.Errorf("no %s symbol exported: %w", ConstructorSymbol, err)
	}

	switch ctor := sym.(type) {
	case func(string, types.ModelDefinition) (types.Provider, error):
		return types.Constructor(ctor), nil
	case *types.Constructor:
		if *ctor == nil {
			return nil, fmt.Errorf("%s is declared but nil", ConstructorSymbol)
		}
		return *ctor, nil
	default:
		return nil, fmt.Errorf("%s has unexpected type %T", ConstructorSymbol, sym)
	}
}
