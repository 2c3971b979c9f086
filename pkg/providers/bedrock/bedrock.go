// Package bedrock provides the built-in Amazon Bedrock provider. Bedrock
// authenticates through the runtime's ambient IAM identity, so construction
// needs no credential material; only the region shapes the endpoint.
package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

const (
	defaultRegion = "us-east-1"
	invokeTimeout = 60 * time.Second
)

// InvokeRequest is the model-invocation payload.
type InvokeRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// InvokeResponse is the model-invocation result.
type InvokeResponse struct {
	Completion string `json:"completion"`
}

// Provider is the Bedrock implementation of the provider capability contract.
type Provider struct {
	name       string
	def        types.ModelDefinition
	instanceID string
	endpoint   string
	client     *http.Client
	log        *logrus.Entry
}

// Option configures a Provider.
type Option func(*Provider)

// WithEndpoint overrides the regional runtime endpoint; used in tests.
func WithEndpoint(url string) Option {
	return func(p *Provider) { p.endpoint = url }
}

// NewProvider builds a provider for def. The endpoint derives from the
// definition's region, falling back to us-east-1 when unset.
func NewProvider(name string, def types.ModelDefinition, opts ...Option) (*Provider, error) {
	region := def.RegionName
	if region == "" {
		region = defaultRegion
	}

	p := &Provider{
		name:       name,
		def:        def,
		instanceID: uuid.NewString(),
		endpoint:   fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region),
		client:     &http.Client{Timeout: invokeTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logrus.WithFields(logrus.Fields{
		"provider": types.ProviderKeyBedrock,
		"model":    name,
		"region":   region,
		"instance": p.instanceID,
	})
	return p, nil
}

// Name returns the catalog key the instance was constructed for.
func (p *Provider) Name() string {
	return p.name
}

// Definition returns the validated definition backing the instance.
func (p *Provider) Definition() types.ModelDefinition {
	return p.def
}

// InstanceID returns the unique ID stamped on this instance for log
// correlation.
func (p *Provider) InstanceID() string {
	return p.instanceID
}

// Endpoint returns the regional runtime endpoint the provider invokes.
func (p *Provider) Endpoint() string {
	return p.endpoint
}

// Invoke sends a single model-invocation request. One attempt, no streaming.
func (p *Provider) Invoke(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(InvokeRequest{
		Prompt:      prompt,
		MaxTokens:   p.def.MaxTokens,
		Temperature: p.def.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding invoke request: %w", err)
	}

	url := fmt.Sprintf("%s/model/%s/invoke", p.endpoint, p.def.ModelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	p.log.Debug("invoking model")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", p.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("calling %s: status %d: %s", p.name, resp.StatusCode, body)
	}

	var out InvokeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decoding response from %s: %w", p.name, err)
	}
	return out.Completion, nil
}
