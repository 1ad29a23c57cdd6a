package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"flightchat/metrics"

	"github.com/sashabaranov/go-openai"
)

// PlaceholderReply is returned when the provider answers without any text.
const PlaceholderReply = "Sorry, I couldn't come up with a response."

type ChatConfig struct {
	BaseURL string
	APIKey  string
	// APIHost, when set, sends RapidAPI-style credential headers alongside
	// the bearer token.
	APIHost string
	Model   string
	Timeout time.Duration
}

// ChatClient sends single-turn chat completions to an OpenAI-compatible API.
type ChatClient struct {
	client  *openai.Client
	model   string
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewChatClient(cfg ChatConfig, m *metrics.Metrics, log *slog.Logger) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.APIHost != "" {
		transport = &rapidAPITransport{key: cfg.APIKey, host: cfg.APIHost, next: transport}
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout, Transport: transport}

	return &ChatClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		metrics: m,
		log:     log,
	}
}

// Complete sends text as the only user turn and returns the first choice.
// An empty answer yields PlaceholderReply rather than an error.
func (c *ChatClient) Complete(ctx context.Context, text string) (string, error) {
	started := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		c.metrics.ObserveProvider("chat", "completion", metrics.OutcomeError, started)
		c.log.WarnContext(ctx, "Chat completion failed", slog.Any("error", err))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	c.metrics.ObserveProvider("chat", "completion", metrics.OutcomeOK, started)

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.log.DebugContext(ctx, "Chat completion returned no content", slog.String("id", resp.ID))
		return PlaceholderReply, nil
	}
	return resp.Choices[0].Message.Content, nil
}

type rapidAPITransport struct {
	key  string
	host string
	next http.RoundTripper
}

func (t *rapidAPITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("x-rapidapi-key", t.key)
	req.Header.Set("x-rapidapi-host", t.host)
	return t.next.RoundTrip(req)
}
