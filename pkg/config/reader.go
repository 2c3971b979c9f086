// Package config loads raw model-definition trees from source directories,
// merges the local and remote sides under remote precedence, and validates
// the merged result into an immutable catalog.
package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cecil-the-coder/llm-config-factory/pkg/stores"
	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// DefinitionExt is the filename extension of model definition files.
const DefinitionExt = ".yaml"

// Tree is an untyped definition tree: catalog key -> raw field map. Raw
// trees exist between reading and validation; nothing downstream of the
// validator sees one.
type Tree map[string]map[string]any

// Load reads every definition file directly under dir into a raw tree keyed
// by file stem. label describes the source side in errors ("local directory"
// or "remote directory"). An empty directory yields an empty tree; a missing
// directory or an unparseable file fails the whole load.
func Load(ctx context.Context, store stores.ObjectStore, dir, label string) (Tree, error) {
	if !store.IsDir(ctx, dir) {
		return nil, &types.ConfigLoadError{
			Path:   dir,
			Source: label,
			Err:    errors.New("not a directory"),
		}
	}

	paths, err := store.List(ctx, dir, DefinitionExt)
	if err != nil {
		return nil, &types.ConfigLoadError{Path: dir, Source: label, Err: err}
	}

	tree := make(Tree, len(paths))
	for _, path := range paths {
		data, err := store.Read(ctx, path)
		if err != nil {
			return nil, &types.ConfigLoadError{Path: path, Source: label, Err: err}
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &types.ConfigLoadError{Path: path, Source: label, Err: err}
		}
		tree[stem(path)] = raw
	}
	return tree, nil
}

// stem returns the file base name without its extension; it is the catalog
// key for the definition the file holds.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
