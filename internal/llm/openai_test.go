package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RichardoC/advisory-board/internal/advisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	// newer clients send the limit under this name instead
	MaxCompletionTokens int `json:"max_completion_tokens"`
	Messages            []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, status int, body string, seen *chatRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

const completionOK = `{
	"id": "chatcmpl-123",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "gpt-4o-mini",
	"choices": [
		{
			"index": 0,
			"message": {"role": "assistant", "content": "stub-response"},
			"finish_reason": "stop"
		}
	],
	"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
}`

func TestOpenAI_Relay_Success(t *testing.T) {
	var seen chatRequest
	server := completionServer(t, http.StatusOK, completionOK, &seen)

	svc, err := New(server.URL, "test-key", "gpt-4o-mini")
	require.NoError(t, err)

	got, err := svc.Relay(context.Background(), "How do I motivate my team?")
	require.NoError(t, err)
	assert.Equal(t, "stub-response", got)

	assert.Equal(t, "gpt-4o-mini", seen.Model)
	assert.InDelta(t, 0.7, seen.Temperature, 1e-9)
	assert.Equal(t, 1000, max(seen.MaxTokens, seen.MaxCompletionTokens))
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, advisor.SystemPrompt, seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "How do I motivate my team?", seen.Messages[1].Content)
}

func TestOpenAI_Relay_StatusKinds(t *testing.T) {
	errBody := `{"error": {"message": "nope", "type": "invalid_request_error"}}`

	cases := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"unauthorized", http.StatusUnauthorized, errBody, KindAuth},
		{"rate limited", http.StatusTooManyRequests, errBody, KindRateLimit},
		{"server error", http.StatusInternalServerError, errBody, KindProvider},
		{"garbage body", http.StatusOK, `not json`, KindMalformed},
		{"no choices", http.StatusOK, `{"id": "x", "choices": []}`, KindMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := completionServer(t, tc.status, tc.body, nil)

			svc, err := New(server.URL, "test-key", "gpt-4o-mini")
			require.NoError(t, err)

			_, err = svc.Relay(context.Background(), "hi")
			require.Error(t, err)
			assert.Equal(t, tc.want, KindOf(err))
		})
	}
}

func TestOpenAI_Relay_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	svc, err := New(url, "test-key", "gpt-4o-mini")
	require.NoError(t, err)

	_, err = svc.Relay(context.Background(), "hi")
	assert.Equal(t, KindNetwork, KindOf(err))
}
