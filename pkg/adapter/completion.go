package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/faro/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrNoCredential means the API key is missing or rejected. Operator
	// intervention required; retrying the same call cannot help.
	ErrNoCredential = goerr.New("completion API key is not configured")

	// ErrRateLimited is the HTTP 429 passthrough
	ErrRateLimited = goerr.New("completion endpoint rate limit exceeded")

	// ErrQuotaExhausted is the HTTP 402 passthrough
	ErrQuotaExhausted = goerr.New("completion endpoint credit balance exhausted")

	// ErrUpstream covers every other non-success response
	ErrUpstream = goerr.New("completion request failed")
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-4o-mini"
)

// Completion relays one system directive plus conversation turns to the
// external completion endpoint and returns the raw response body. A
// single attempt per call; the caller owns user-facing retry.
type Completion interface {
	Complete(ctx context.Context, system string, messages []model.Message) (json.RawMessage, error)
}

type completionRequest struct {
	Model    string          `json:"model"`
	Messages []model.Message `json:"messages"`
}

type completionClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// CompletionOption is a functional option for the completion client
type CompletionOption func(*completionClient)

// WithBaseURL overrides the completion endpoint base URL
func WithBaseURL(baseURL string) CompletionOption {
	return func(c *completionClient) {
		c.baseURL = baseURL
	}
}

// WithModel overrides the completion model name
func WithModel(name string) CompletionOption {
	return func(c *completionClient) {
		c.model = name
	}
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) CompletionOption {
	return func(c *completionClient) {
		c.httpClient = client
	}
}

// NewCompletion creates a completion relay client. An empty apiKey is
// accepted here and surfaces as ErrNoCredential on the first call.
func NewCompletion(apiKey string, opts ...CompletionOption) Completion {
	c := &completionClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *completionClient) Complete(ctx context.Context, system string, messages []model.Message) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredential
	}

	turns := make([]model.Message, 0, len(messages)+1)
	turns = append(turns, model.Message{Role: model.RoleSystem, Content: system})
	turns = append(turns, messages...)

	payload, err := json.Marshal(completionRequest{
		Model:    c.model,
		Messages: turns,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(ErrUpstream, "request did not complete", goerr.Value("cause", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(ErrUpstream, "failed to read response body")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return json.RawMessage(body), nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, goerr.Wrap(ErrNoCredential, "endpoint rejected the credential", goerr.Value("body", string(body)))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, goerr.Wrap(ErrRateLimited, "endpoint returned 429", goerr.Value("body", string(body)))
	case resp.StatusCode == http.StatusPaymentRequired:
		return nil, goerr.Wrap(ErrQuotaExhausted, "endpoint returned 402", goerr.Value("body", string(body)))
	default:
		return nil, goerr.Wrap(ErrUpstream, "unexpected status", goerr.Value("status", resp.StatusCode), goerr.Value("body", string(body)))
	}
}

type completionBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractText pulls the first choice's text out of a raw completion
// body, for display and transcript purposes
func ExtractText(raw json.RawMessage) (string, error) {
	var body completionBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", goerr.Wrap(err, "failed to parse completion body")
	}
	if len(body.Choices) == 0 {
		return "", goerr.New("completion body has no choices")
	}
	return body.Choices[0].Message.Content, nil
}
