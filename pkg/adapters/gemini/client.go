// Package gemini implements ports.LanguageModel over the Google Generative Language REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/ticketchat/internal/logging"
	"github.com/aretw0/ticketchat/pkg/domain"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "models/gemini-2.0-flash"
)

// Sampling holds the generation parameters sent with every request.
type Sampling struct {
	Temperature float64
	TopP        float64
	TopK        int
}

// DefaultSampling mirrors the settings the assistant has always used.
var DefaultSampling = Sampling{Temperature: 0.7, TopP: 0.95, TopK: 40}

// Client is a chat-completion client for Gemini models.
type Client struct {
	apiKey   string
	baseURL  string
	model    string
	sampling Sampling
	http     *http.Client
	logger   *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithModel sets the model name. A bare name gets the "models/" prefix.
func WithModel(name string) Option {
	return func(c *Client) {
		if name == "" {
			return
		}
		if !strings.HasPrefix(name, "models/") {
			name = "models/" + name
		}
		c.model = name
	}
}

// WithSampling sets the generation parameters.
func WithSampling(s Sampling) Option {
	return func(c *Client) {
		c.sampling = s
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	c := &Client{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		model:    DefaultModel,
		sampling: DefaultSampling,
		http:     &http.Client{Timeout: 60 * time.Second},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Model returns the resolved model name.
func (c *Client) Model() string { return c.model }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Generate sends the conversation and returns the model's reply as an assistant message.
func (c *Client) Generate(ctx context.Context, msgs []domain.Message) (domain.Message, error) {
	contents := toContents(msgs)
	if len(contents) == 0 {
		return domain.Message{}, fmt.Errorf("gemini: no non-empty messages to send")
	}

	body, err := json.Marshal(generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature: c.sampling.Temperature,
			TopP:        c.sampling.TopP,
			TopK:        c.sampling.TopK,
		},
	})
	if err != nil {
		return domain.Message{}, err
	}

	url := fmt.Sprintf("%s/v1beta/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.Message{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Message{}, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Message{}, err
	}
	c.logger.Debug("gemini response", "model", c.model, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return domain.Message{}, fmt.Errorf("gemini API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return domain.Message{}, fmt.Errorf("parsing response: %w", err)
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		return domain.Message{}, fmt.Errorf("gemini blocked prompt: %s", result.PromptFeedback.BlockReason)
	}

	for _, cand := range result.Candidates {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			return domain.AssistantMessage(text), nil
		}
	}
	return domain.Message{}, domain.ErrEmptyReply
}

// toContents maps roles to the API's user/model pair and drops blank messages.
func toContents(msgs []domain.Message) []content {
	out := make([]content, 0, len(msgs))
	for _, m := range msgs {
		if m.IsBlank() {
			continue
		}
		role := "user"
		if m.Role == domain.RoleAssistant {
			role = "model"
		}
		out = append(out, content{Role: role, Parts: []part{{Text: m.Content}}})
	}
	return out
}
