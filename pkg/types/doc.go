// Package types defines the core data model shared across the module: model
// definitions, the validated catalog, the provider capability contract, and
// the error taxonomy callers discriminate on.
package types
