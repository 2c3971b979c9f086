// Package discovery finds provider plugin artifacts at an operator-configured
// location and registers them. Discovery is best-effort end to end: a missing
// location, an unreachable artifact, or a malformed plugin is logged and
// skipped, never fatal, since plugin extensibility is optional.
package discovery

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cecil-the-coder/llm-config-factory/pkg/registry"
	"github.com/cecil-the-coder/llm-config-factory/pkg/stores"
	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// ArtifactExt is the filename extension of provider plugin artifacts.
const ArtifactExt = ".so"

// Loader opens one fetched artifact and yields its provider constructor.
type Loader interface {
	Load(path string) (types.Constructor, error)
}

// Discoverer resolves the plugin location and registers every loadable
// artifact found there. The artifact's base name, case-normalized, becomes
// the provider key.
type Discoverer struct {
	// Params resolves the artifact location. Nil disables discovery.
	Params stores.ParameterStore

	// Store fetches artifact contents.
	Store stores.ObjectStore

	// Loader loads fetched artifacts; defaults to the Go plugin loader.
	Loader Loader

	// ParamName names the parameter holding the artifact directory.
	ParamName string

	// Logger defaults to the standard logger.
	Logger *logrus.Logger
}

// Run discovers and registers plugins into reg. It never returns an error;
// every failure is recoverable and logged.
func (d *Discoverer) Run(ctx context.Context, reg *registry.Registry) {
	log := d.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	loader := d.Loader
	if loader == nil {
		loader = PluginLoader{}
	}

	if d.Params == nil {
		log.Debug("no parameter store configured, skipping custom provider loading")
		return
	}
	location, err := d.Params.Get(ctx, d.ParamName)
	if err != nil || location == "" {
		log.WithField("parameter", d.ParamName).Info("no provider path configured, skipping custom provider loading")
		return
	}
	if !d.Store.IsDir(ctx, location) {
		log.WithField("path", location).Warn("provider path is not a directory, skipping custom provider loading")
		return
	}

	paths, err := d.Store.List(ctx, location, ArtifactExt)
	if err != nil {
		log.WithField("path", location).WithError(err).Warn("listing provider artifacts failed")
		return
	}

	// Artifacts are staged in transient local storage before loading, the
	// way a remote-backed store requires.
	tempDir, err := os.MkdirTemp("", "provider-plugins-")
	if err != nil {
		log.WithError(err).Warn("creating plugin staging directory failed")
		return
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	for _, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		entry := log.WithField("provider", name)

		data, err := d.Store.Read(ctx, path)
		if err != nil {
			entry.WithError(err).Warn("fetching provider artifact failed, skipping")
			continue
		}
		staged := filepath.Join(tempDir, base)
		if err := os.WriteFile(staged, data, 0o600); err != nil {
			entry.WithError(err).Warn("staging provider artifact failed, skipping")
			continue
		}

		ctor, err := loader.Load(staged)
		if err != nil {
			entry.WithError(err).Warn("loading provider artifact failed, skipping")
			continue
		}

		reg.Register(types.ProviderKey(name).Normalize(), ctor)
		entry.Info("registered custom provider")
	}
}
