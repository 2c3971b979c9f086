package types

import (
	"context"
	"sort"
	"strings"
)

// ProviderKey identifies a class of backend capable of serving a model.
// The built-in keys are a closed set; externally registered providers may use
// any string. Keys are case-normalized at the registry boundary.
type ProviderKey string

const (
	ProviderKeyBedrock ProviderKey = "bedrock"
	ProviderKeyOpenAI  ProviderKey = "openai"
)

// Normalize returns the canonical lowercase form of the key.
func (k ProviderKey) Normalize() ProviderKey {
	return ProviderKey(strings.ToLower(string(k)))
}

// ModelDefinition is the validated configuration for a single model.
// Definitions are immutable once validated; token costs are expressed in USD
// per million tokens.
type ModelDefinition struct {
	Name             string      `yaml:"name"`
	Provider         ProviderKey `yaml:"provider"`
	ModelID          string      `yaml:"model_id"`
	RegionName       string      `yaml:"region_name,omitempty"`
	APIKeySecretName string      `yaml:"api_key_secret_name,omitempty"`
	APIKeyEnvVar     string      `yaml:"api_key_env_var,omitempty"`
	InputTokenCost   float64     `yaml:"input_token_cost_usd_per_million,omitempty"`
	OutputTokenCost  float64     `yaml:"output_token_cost_usd_per_million,omitempty"`
	MaxTokens        int         `yaml:"max_tokens,omitempty"`
	Temperature      float64     `yaml:"temperature,omitempty"`
	Description      string      `yaml:"description,omitempty"`
}

// Cost returns the USD cost for the given token count. Input selects the
// input-token rate; otherwise the output-token rate applies.
func (d ModelDefinition) Cost(tokens int, input bool) float64 {
	rate := d.OutputTokenCost
	if input {
		rate = d.InputTokenCost
	}
	return float64(tokens) / 1_000_000 * rate
}

// Catalog is an immutable set of validated model definitions keyed by model
// name. A catalog is built once by validation and replaced wholesale on
// reload; it is never partially mutated.
type Catalog struct {
	source string
	models map[string]ModelDefinition
}

// NewCatalog builds a catalog from validated definitions. The map is copied
// so later mutation by the caller cannot reach the catalog.
func NewCatalog(source string, models map[string]ModelDefinition) *Catalog {
	cp := make(map[string]ModelDefinition, len(models))
	for name, def := range models {
		cp[name] = def
	}
	return &Catalog{source: source, models: cp}
}

// Get returns the definition for the named model.
func (c *Catalog) Get(name string) (ModelDefinition, bool) {
	def, ok := c.models[name]
	return def, ok
}

// Len returns the number of definitions in the catalog.
func (c *Catalog) Len() int {
	return len(c.models)
}

// Names returns the catalog keys in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.models))
	for name := range c.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Source identifies the local source path this catalog was loaded for.
func (c *Catalog) Source() string {
	return c.source
}

// Provider is the capability contract every backend implementation satisfies,
// whether built-in or registered from a plugin artifact.
type Provider interface {
	// Name returns the catalog key the instance was constructed for.
	Name() string

	// Definition returns the validated definition backing the instance.
	Definition() ModelDefinition

	// Invoke generates a response for the prompt. A single attempt is made;
	// callers own any retry policy.
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Constructor builds a Provider from a validated definition. Plugin artifacts
// export a symbol of this shape under the name "NewProvider".
type Constructor func(name string, def ModelDefinition) (Provider, error)
