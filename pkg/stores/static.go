package stores

import (
	"context"
	"fmt"
	"os"
)

// StaticStore serves fixed values. It satisfies both ParameterStore and
// SecretStore, which makes it the store of choice in tests and small
// single-host deployments.
type StaticStore map[string]string

// Get returns the stored value for name.
func (s StaticStore) Get(_ context.Context, name string) (string, error) {
	value, ok := s[name]
	if !ok {
		return "", fmt.Errorf("parameter %q not found", name)
	}
	return value, nil
}

// EnvSecretStore resolves secret references from the process environment,
// optionally under a prefix.
type EnvSecretStore struct {
	Prefix string
}

// Get returns the value of the environment variable Prefix+ref.
func (s EnvSecretStore) Get(_ context.Context, ref string) (string, error) {
	value := os.Getenv(s.Prefix + ref)
	if value == "" {
		return "", fmt.Errorf("secret %q not set in environment", s.Prefix+ref)
	}
	return value, nil
}
