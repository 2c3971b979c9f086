package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecil-the-coder/llm-config-factory/pkg/registry"
	"github.com/cecil-the-coder/llm-config-factory/pkg/stores"
	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

const paramName = "/LLM_CONFIG/PROVIDER_MODULES_PATH"

type fakeProvider struct {
	name string
	def  types.ModelDefinition
}

func (p *fakeProvider) Name() string                      { return p.name }
func (p *fakeProvider) Definition() types.ModelDefinition { return p.def }
func (p *fakeProvider) Invoke(context.Context, string) (string, error) {
	return "ok", nil
}

// stemLoader resolves constructors by artifact stem and fails the stems
// listed in fail, standing in for plugin loading in tests.
type stemLoader struct {
	fail map[string]bool
}

func (l stemLoader) Load(path string) (types.Constructor, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if l.fail[name] {
		return nil, fmt.Errorf("no NewProvider symbol exported in %s", base)
	}
	return func(model string, def types.ModelDefinition) (types.Provider, error) {
		return &fakeProvider{name: model, def: def}, nil
	}, nil
}

func writeArtifacts(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name+ArtifactExt)
		require.NoError(t, os.WriteFile(path, []byte("fake shared object"), 0o600))
	}
	return dir
}

func TestDiscovererRegistersArtifactsByStem(t *testing.T) {
	dir := writeArtifacts(t, "Groq", "mistral")
	reg := registry.New()

	d := &Discoverer{
		Params:    stores.StaticStore{paramName: dir},
		Store:     stores.NewDirStore(),
		Loader:    stemLoader{},
		ParamName: paramName,
	}
	d.Run(context.Background(), reg)

	// Keys are case-normalized artifact stems.
	for _, key := range []types.ProviderKey{"groq", "mistral"} {
		ctor, ok := reg.Resolve(key)
		require.True(t, ok, "expected %q to be registered", key)

		p, err := ctor("some_model", types.ModelDefinition{Provider: key})
		require.NoError(t, err)
		assert.Equal(t, "some_model", p.Name())
	}
}

func TestDiscovererPartialFailureIsolation(t *testing.T) {
	dir := writeArtifacts(t, "alpha", "broken", "gamma")
	reg := registry.New()

	d := &Discoverer{
		Params:    stores.StaticStore{paramName: dir},
		Store:     stores.NewDirStore(),
		Loader:    stemLoader{fail: map[string]bool{"broken": true}},
		ParamName: paramName,
	}
	d.Run(context.Background(), reg)

	_, ok := reg.Resolve("alpha")
	assert.True(t, ok)
	_, ok = reg.Resolve("gamma")
	assert.True(t, ok)
	_, ok = reg.Resolve("broken")
	assert.False(t, ok)
}

func TestDiscovererMissingParameterIsNotAnError(t *testing.T) {
	reg := registry.New()
	d := &Discoverer{
		Params:    stores.StaticStore{},
		Store:     stores.NewDirStore(),
		Loader:    stemLoader{},
		ParamName: paramName,
	}

	d.Run(context.Background(), reg)
	assert.Empty(t, reg.Keys())
}

func TestDiscovererNilParameterStoreSkips(t *testing.T) {
	reg := registry.New()
	d := &Discoverer{Store: stores.NewDirStore(), ParamName: paramName}

	d.Run(context.Background(), reg)
	assert.Empty(t, reg.Keys())
}

func TestDiscovererNonDirectoryLocationSkips(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plugin.so")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	reg := registry.New()
	d := &Discoverer{
		Params:    stores.StaticStore{paramName: file},
		Store:     stores.NewDirStore(),
		Loader:    stemLoader{},
		ParamName: paramName,
	}

	d.Run(context.Background(), reg)
	assert.Empty(t, reg.Keys())
}

func TestDiscovererIgnoresNonArtifactFiles(t *testing.T) {
	dir := writeArtifacts(t, "real")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o600))

	reg := registry.New()
	d := &Discoverer{
		Params:    stores.StaticStore{paramName: dir},
		Store:     stores.NewDirStore(),
		Loader:    stemLoader{},
		ParamName: paramName,
	}
	d.Run(context.Background(), reg)

	assert.Equal(t, []types.ProviderKey{"real"}, reg.Keys())
}
