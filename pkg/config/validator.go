package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// Defaults applied to fields absent from a raw entry, before bounds checks.
const (
	DefaultMaxTokens    = 1024
	DefaultTemperature  = 0.7
	DefaultAPIKeyEnvVar = "OPENAI_API_KEY"
)

// Validate converts a merged raw tree into an immutable catalog. Validation
// is all-or-nothing: if any entry violates the schema the whole tree is
// rejected with a ConfigValidationError aggregating every field-level
// violation across every entry. source identifies the local source path the
// catalog was loaded for.
func Validate(tree Tree, source string) (*types.Catalog, error) {
	models := make(map[string]types.ModelDefinition, len(tree))
	var violations []types.FieldError

	keys := make([]string, 0, len(tree))
	for key := range tree {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		def, errs := validateEntry(key, tree[key])
		if len(errs) > 0 {
			violations = append(violations, errs...)
			continue
		}
		models[key] = def
	}

	if len(violations) > 0 {
		return nil, &types.ConfigValidationError{Violations: violations}
	}
	return types.NewCatalog(source, models), nil
}

func validateEntry(key string, raw map[string]any) (types.ModelDefinition, []types.FieldError) {
	var def types.ModelDefinition

	// Round-trip through YAML so entry decoding shares the tag set of the
	// definition files themselves.
	data, err := yaml.Marshal(raw)
	if err == nil {
		err = yaml.Unmarshal(data, &def)
	}
	if err != nil {
		return def, []types.FieldError{{Model: key, Field: "(entry)", Message: err.Error()}}
	}

	if _, ok := raw["max_tokens"]; !ok {
		def.MaxTokens = DefaultMaxTokens
	}
	if _, ok := raw["temperature"]; !ok {
		def.Temperature = DefaultTemperature
	}
	if _, ok := raw["api_key_env_var"]; !ok {
		def.APIKeyEnvVar = DefaultAPIKeyEnvVar
	}

	var errs []types.FieldError
	fail := func(field, message string) {
		errs = append(errs, types.FieldError{Model: key, Field: field, Message: message})
	}

	if def.Name == "" {
		fail("name", "required")
	}
	if def.Provider == "" {
		fail("provider", "required")
	}
	if def.ModelID == "" {
		fail("model_id", "required")
	}
	if def.InputTokenCost < 0 {
		fail("input_token_cost_usd_per_million", fmt.Sprintf("must be >= 0, got %v", def.InputTokenCost))
	}
	if def.OutputTokenCost < 0 {
		fail("output_token_cost_usd_per_million", fmt.Sprintf("must be >= 0, got %v", def.OutputTokenCost))
	}
	if def.MaxTokens < 1 {
		fail("max_tokens", fmt.Sprintf("must be >= 1, got %d", def.MaxTokens))
	}
	if def.Temperature < 0 || def.Temperature > 2 {
		fail("temperature", fmt.Sprintf("must be within [0, 2], got %v", def.Temperature))
	}
	return def, errs
}
