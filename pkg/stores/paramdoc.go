package stores

import (
	"context"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// DocStore is a ParameterStore backed by a JSON document of the shape a
// parameter-store export produces:
//
//	{"parameters": {"/LLM_CONFIG/MODELS_CONFIG_PATH": "/etc/models"}}
//
// Parameter names routinely contain slashes, so lookups go through the
// parsed map rather than a gjson path expression.
type DocStore struct {
	doc []byte
}

// NewDocStore wraps an in-memory parameter document.
func NewDocStore(doc []byte) *DocStore {
	return &DocStore{doc: doc}
}

// NewDocStoreFromFile reads the parameter document at path.
func NewDocStoreFromFile(path string) (*DocStore, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter document: %w", err)
	}
	if !gjson.ValidBytes(doc) {
		return nil, fmt.Errorf("parameter document %q is not valid JSON", path)
	}
	return &DocStore{doc: doc}, nil
}

// Get resolves the named parameter from the document.
func (s *DocStore) Get(_ context.Context, name string) (string, error) {
	params := gjson.GetBytes(s.doc, "parameters")
	if !params.Exists() {
		return "", fmt.Errorf("parameter document has no 'parameters' section")
	}
	value, ok := params.Map()[name]
	if !ok {
		return "", fmt.Errorf("parameter %q not found", name)
	}
	return value.String(), nil
}
