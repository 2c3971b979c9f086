// Package openai provides the built-in OpenAI chat-completions provider.
// The credential is resolved at construction time: the definition's secret
// reference first, then its environment variable; a missing credential fails
// construction.
package openai

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
	"golang.org/x/oauth2"

	"github.com/cecil-the-coder/llm-config-factory/pkg/stores"
	"github.com/cecil-the-coder/llm-config-factory/pkg/types"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	invokeTimeout  = 60 * time.Second
)

// ChatRequest represents a request to the chat completions API.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// ChatMessage represents a message in the chat completions API.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse represents a response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice represents one completion choice.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Provider is the OpenAI implementation of the provider capability contract.
type Provider struct {
	name       string
	def        types.ModelDefinition
	instanceID string
	baseURL    string
	client     *http.Client
	log        *logrus.Entry
}

// Option configures a Provider.
type Option func(*Provider)

// WithBaseURL points the provider at a different API root; used against
// OpenAI-compatible endpoints and in tests.
func WithBaseURL(url string) Option {
	return func(p *Provider) { p.baseURL = url }
}

// NewProvider builds a provider for def. Credential resolution failures
// propagate: an instance without a credential is unusable.
func NewProvider(name string, def types.ModelDefinition, creds stores.CredentialResolver, opts ...Option) (*Provider, error) {
	ctx := context.Background()
	apiKey, err := creds.Resolve(ctx, def)
	if err != nil {
		return nil, err
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, source)
	client.Timeout = invokeTimeout

	p := &Provider{
		name:       name,
		def:        def,
		instanceID: uuid.NewString(),
		baseURL:    defaultBaseURL,
		client:     client,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = logrus.WithFields(logrus.Fields{
		"provider": types.ProviderKeyOpenAI,
		"model":    name,
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

// Invoke sends a single chat-completion request. One attempt, no streaming.
func (p *Provider) Invoke(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model:       p.def.ModelID,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   p.def.MaxTokens,
		Temperature: p.def.Temperature,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	p.log.Debug("invoking chat completion")
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

	var chat ChatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("decoding response from %s: %w", p.name, err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("response from %s contained no choices", p.name)
	}
	return chat.Choices[0].Message.Content, nil
}
