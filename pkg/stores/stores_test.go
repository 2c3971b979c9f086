package stores

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStoreIsDir(t *testing.T) {
	store := NewDirStore()
	dir := t.TempDir()
	file := filepath.Join(dir, "file.yaml")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	ctx := context.Background()
	assert.True(t, store.IsDir(ctx, dir))
	assert.False(t, store.IsDir(ctx, file))
	assert.False(t, store.IsDir(ctx, filepath.Join(dir, "missing")))
}

func TestDirStoreListFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o750))

	paths, err := NewDirStore().List(context.Background(), dir, ".yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.yaml"),
	}, paths)
}

func TestDirStoreRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: m\n"), 0o600))

	data, err := NewDirStore().Read(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "name: m\n", string(data))

	_, err = NewDirStore().Read(context.Background(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDirStoreReadHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirStore().Read(ctx, "irrelevant")
	assert.Error(t, err)
}

func TestDocStoreGet(t *testing.T) {
	doc := []byte(`{"parameters": {
		"/LLM_CONFIG/MODELS_CONFIG_PATH": "/srv/models",
		"/LLM_CONFIG/PROVIDER_MODULES_PATH": "/srv/plugins"
	}}`)
	store := NewDocStore(doc)

	value, err := store.Get(context.Background(), "/LLM_CONFIG/MODELS_CONFIG_PATH")
	require.NoError(t, err)
	assert.Equal(t, "/srv/models", value)

	_, err = store.Get(context.Background(), "/LLM_CONFIG/UNKNOWN")
	assert.ErrorContains(t, err, "/LLM_CONFIG/UNKNOWN")
}

func TestDocStoreMissingParametersSection(t *testing.T) {
	_, err := NewDocStore([]byte(`{"other": 1}`)).Get(context.Background(), "x")
	assert.ErrorContains(t, err, "parameters")
}

func TestDocStoreFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"parameters": {"k": "v"}}`), 0o600))

	store, err := NewDocStoreFromFile(path)
	require.NoError(t, err)
	value, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = NewDocStoreFromFile(path)
	assert.Error(t, err)

	_, err = NewDocStoreFromFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestStaticStore(t *testing.T) {
	store := StaticStore{"param": "value"}

	value, err := store.Get(context.Background(), "param")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	_, err = store.Get(context.Background(), "other")
	assert.Error(t, err)
}

func TestEnvSecretStore(t *testing.T) {
	t.Setenv("SECRET_MY_KEY", "shh")

	store := EnvSecretStore{Prefix: "SECRET_"}
	value, err := store.Get(context.Background(), "MY_KEY")
	require.NoError(t, err)
	assert.Equal(t, "shh", value)

	_, err = store.Get(context.Background(), "UNSET")
	assert.Error(t, err)
}
