package stores

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

// CredentialResolver resolves the API credential for a model definition.
// The named secret reference is tried first; a secret-store failure is soft
// and falls back to the definition's environment variable. Only when neither
// source yields a value does resolution fail.
type CredentialResolver struct {
	// Secrets backs api_key_secret_name lookups. May be nil, in which case
	// resolution goes straight to the environment variable.
	Secrets SecretStore

	// Logger receives fallback warnings. Defaults to the standard logger.
	Logger *logrus.Logger
}

// Resolve returns the credential for def.
func (r CredentialResolver) Resolve(ctx context.Context, def types.ModelDefinition) (string, error) {
	log := r.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	if def.APIKeySecretName != "" && r.Secrets != nil {
		value, err := r.Secrets.Get(ctx, def.APIKeySecretName)
		if err == nil && value != "" {
			log.WithFields(logrus.Fields{
				"model":  def.Name,
				"secret": def.APIKeySecretName,
			}).Debug("fetched API key from secret store")
			return value, nil
		}
		log.WithFields(logrus.Fields{
			"model":  def.Name,
			"secret": def.APIKeySecretName,
		}).WithError(err).Warn("could not fetch API key from secret store, falling back to env var")
	}

	if def.APIKeyEnvVar != "" {
		if value := os.Getenv(def.APIKeyEnvVar); value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf(
		"API key for %s not found: set '%s' or configure 'api_key_secret_name'",
		def.Name, def.APIKeyEnvVar,
	)
}
