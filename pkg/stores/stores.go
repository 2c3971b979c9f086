// Package stores holds the external collaborators the factory depends on:
// the object store serving definition files and plugin artifacts, the
// parameter store resolving remote locations by name, and the secret store
// backing credential lookups. Each is an interface with small shipped
// implementations; deployments substitute their own backends.
package stores

import "context"

// ObjectStore reads definition files and plugin artifacts below a root path.
type ObjectStore interface {
	// IsDir reports whether path exists and is a directory.
	IsDir(ctx context.Context, path string) bool

	// List returns the paths of regular files directly under dir whose name
	// ends with ext, in sorted order. An empty directory yields an empty
	// slice, not an error.
	List(ctx context.Context, dir, ext string) ([]string, error)

	// Read returns the contents of the file at path.
	Read(ctx context.Context, path string) ([]byte, error)
}

// ParameterStore resolves a named parameter to its value.
type ParameterStore interface {
	Get(ctx context.Context, name string) (string, error)
}

// SecretStore resolves a secret reference to its value.
type SecretStore interface {
	Get(ctx context.Context, ref string) (string, error)
}
