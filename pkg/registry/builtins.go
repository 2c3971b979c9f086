package registry

import (
	"github.com/cecil-the-coder/llm-config-factory/pkg/providers/bedrock"
	"github.com/cecil-the-coder/llm-config-factory/pkg/providers/openai"
	"github.com/cecil-the-coder/llm-config-factory/pkg/stores"
	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// RegisterBuiltins seeds the registry with the first-party providers. creds
// backs credential resolution for providers that need an API key at
// construction time.
func RegisterBuiltins(r *Registry, creds stores.CredentialResolver) {
	r.Register(types.ProviderKeyBedrock, func(name string, def types.ModelDefinition) (types.Provider, error) {
		return bedrock.NewProvider(name, def)
	})
	r.Register(types.ProviderKeyOpenAI, func(name string, def types.ModelDefinition) (types.Provider, error) {
		return openai.NewProvider(name, def, creds)
	})
}
