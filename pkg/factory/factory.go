// Package factory owns the process-wide model factory: one registry and one
// catalog per process lifetime. Construction wires plugin discovery, the
// two-source configuration load, merge and validation; requests resolve a
// catalog entry to a registered constructor and build a fresh provider
// instance per call. Memoization lives in pkg/cache, not here.
package factory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cecil-the-coder/llm-config-factory/pkg/config"
	"github.com/cecil-the-coder/llm-config-factory/pkg/discovery"
	"github.com/cecil-the-coder/llm-config-factory/pkg/registry"
	"github.com/cecil-the-coder/llm-config-factory/pkg/stores"
	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// Default parameter names for the two remote-location lookups.
const (
	// DefaultProviderPathParameter names the optional plugin-artifact
	// directory.
	DefaultProviderPathParameter = "/LLM_CONFIG/PROVIDER_MODULES_PATH"

	// DefaultModelsPathParameter names the required remote definition-file
	// directory.
	DefaultModelsPathParameter = "/LLM_CONFIG/MODELS_CONFIG_PATH"
)

// Options configure construction of the process-wide factory.
type Options struct {
	// LocalPath is the local definition-file directory.
	LocalPath string

	// Store reads definition files and plugin artifacts. Defaults to a
	// filesystem-backed store.
	Store stores.ObjectStore

	// Params resolves the remote locations. The models-path lookup is
	// required; a nil store fails construction.
	Params stores.ParameterStore

	// Secrets backs credential resolution for built-in providers. Optional.
	Secrets stores.SecretStore

	// Loader loads plugin artifacts; defaults to the Go plugin loader.
	Loader discovery.Loader

	// ProviderPathParameter and ModelsPathParameter override the default
	// parameter names.
	ProviderPathParameter string
	ModelsPathParameter   string

	// Logger defaults to the standard logger.
	Logger *logrus.Logger
}

// Factory resolves model names to freshly constructed provider instances.
type Factory struct {
	registry *registry.Registry
	catalog  *types.Catalog
	log      *logrus.Logger
}

var (
	mu       sync.Mutex
	instance *Factory
)

// Init returns the process-wide factory, constructing it on the first call.
// Construction is all-or-nothing: on failure no instance is retained and a
// later Init retries from scratch. After the first success, Init returns the
// existing instance and ignores opts entirely, including a different
// LocalPath: the first source path seen wins for the process lifetime (see
// DESIGN.md).
func Init(ctx context.Context, opts Options) (*Factory, error) {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return instance, nil
	}
	f, err := build(ctx, opts)
	if err != nil {
		return nil, err
	}
	instance = f
	return f, nil
}

// Instance returns the process-wide factory if it has been constructed.
func Instance() (*Factory, bool) {
	mu.Lock()
	defer mu.Unlock()
	return instance, instance != nil
}

// Reset discards the process-wide factory so the next Init constructs a new
// one. Used by the definition watcher and by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}

func build(ctx context.Context, opts Options) (*Factory, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	store := opts.Store
	if store == nil {
		store = stores.NewDirStore()
	}
	providerParam := opts.ProviderPathParameter
	if providerParam == "" {
		providerParam = DefaultProviderPathParameter
	}
	modelsParam := opts.ModelsPathParameter
	if modelsParam == "" {
		modelsParam = DefaultModelsPathParameter
	}

	reg := registry.New()
	registry.RegisterBuiltins(reg, stores.CredentialResolver{Secrets: opts.Secrets, Logger: log})

	disc := &discovery.Discoverer{
		Params:    opts.Params,
		Store:     store,
		Loader:    opts.Loader,
		ParamName: providerParam,
		Logger:    log,
	}
	disc.Run(ctx, reg)

	log.WithField("path", opts.LocalPath).Info("loading model configurations")
	local, err := config.Load(ctx, store, opts.LocalPath, "local directory")
	if err != nil {
		return nil, err
	}

	remote, err := loadRemote(ctx, store, opts.Params, modelsParam, log)
	if err != nil {
		return nil, err
	}

	merged := config.Merge(local, remote)
	catalog, err := config.Validate(merged, opts.LocalPath)
	if err != nil {
		return nil, err
	}

	log.WithField("models", catalog.Len()).Info("successfully loaded model configurations")
	return &Factory{registry: reg, catalog: catalog, log: log}, nil
}

// loadRemote resolves the required remote catalog location and loads it.
// Unlike the plugin path, an unresolvable models path is fatal.
func loadRemote(ctx context.Context, store stores.ObjectStore, params stores.ParameterStore, paramName string, log *logrus.Logger) (config.Tree, error) {
	if params == nil {
		return nil, &types.ModelConfigurationError{
			Message: fmt.Sprintf("failed to load parameter '%s': no parameter store configured", paramName),
		}
	}
	remotePath, err := params.Get(ctx, paramName)
	if err != nil {
		return nil, &types.ModelConfigurationError{
			Message: fmt.Sprintf("failed to load parameter '%s'", paramName),
			Err:     err,
		}
	}
	log.WithField("path", remotePath).Debug("loading remote model configurations")
	return config.Load(ctx, store, remotePath, "remote directory")
}

// GetModelInstance builds a fresh provider instance for the named model.
// No memoization happens here; construction failures from the provider's own
// initialization propagate as-is.
func (f *Factory) GetModelInstance(name string) (types.Provider, error) {
	if f.catalog == nil {
		return nil, &types.ModelConfigurationError{
			Message: "model configurations not loaded into the factory",
		}
	}
	def, ok := f.catalog.Get(name)
	if !ok {
		return nil, &types.ModelNotFoundError{Name: name}
	}
	ctor, ok := f.registry.Resolve(def.Provider)
	if !ok {
		return nil, &types.ModelConfigurationError{
			Message: fmt.Sprintf("no provider registered for '%s'", def.Provider.Normalize()),
		}
	}
	return ctor(name, def)
}

// Catalog returns the validated catalog the factory serves.
func (f *Factory) Catalog() *types.Catalog {
	return f.catalog
}

// Registry returns the provider registry. Callers may register additional
// providers at runtime; entries are never removed.
func (f *Factory) Registry() *registry.Registry {
	return f.registry
}
