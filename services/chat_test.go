package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChat imitates the chat completions endpoint of an OpenAI-compatible API.
type fakeChat struct {
	status int
	body   string

	mu      sync.Mutex
	headers http.Header
	request map[string]any
}

func (f *fakeChat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.headers = r.Header.Clone()
	_ = json.NewDecoder(r.Body).Decode(&f.request)
	f.mu.Unlock()

	if r.URL.Path != "/v1/chat/completions" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
	}
	_, _ = w.Write([]byte(f.body))
}

func newTestChat(t *testing.T, f *fakeChat, host string) *ChatClient {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	return NewChatClient(ChatConfig{
		BaseURL: srv.URL + "/v1",
		APIKey:  "chat-key",
		APIHost: host,
		Model:   "gpt-4o-mini",
	}, nil, discardLogger)
}

func TestChatCompleteReturnsFirstChoice(t *testing.T) {
	f := &fakeChat{body: `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": "I'm doing well, thanks!"}, "finish_reason": "stop"},
			{"index": 1, "message": {"role": "assistant", "content": "second"}, "finish_reason": "stop"}
		]
	}`}
	c := newTestChat(t, f, "")

	got, err := c.Complete(context.Background(), "Hello, how are you?")
	require.NoError(t, err)
	assert.Equal(t, "I'm doing well, thanks!", got)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "Bearer chat-key", f.headers.Get("Authorization"))
	assert.Empty(t, f.headers.Get("x-rapidapi-host"))
	assert.Equal(t, "gpt-4o-mini", f.request["model"])

	messages, ok := f.request["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first, ok := messages[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user", first["role"])
	assert.Equal(t, "Hello, how are you?", first["content"])
}

func TestChatCompleteSendsRapidAPIHeaders(t *testing.T) {
	f := &fakeChat{body: `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`}
	c := newTestChat(t, f, "chatgpt.p.rapidapi.com")

	_, err := c.Complete(context.Background(), "hi")
	require.NoError(t, err)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "chat-key", f.headers.Get("x-rapidapi-key"))
	assert.Equal(t, "chatgpt.p.rapidapi.com", f.headers.Get("x-rapidapi-host"))
}

func TestChatCompletePlaceholder(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":    `{"id":"chatcmpl-2","choices":[]}`,
		"empty content": `{"choices":[{"message":{"role":"assistant","content":""}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestChat(t, &fakeChat{body: body}, "")

			got, err := c.Complete(context.Background(), "hi")
			require.NoError(t, err)
			assert.Equal(t, PlaceholderReply, got)
		})
	}
}

func TestChatCompleteProviderError(t *testing.T) {
	f := &fakeChat{
		status: http.StatusUnauthorized,
		body:   `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`,
	}
	c := newTestChat(t, f, "")

	_, err := c.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}
