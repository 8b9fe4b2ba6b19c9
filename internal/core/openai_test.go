package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emotionix.ai/emotionix/internal/store"
)

func TestOpenAIGenerator_Success(t *testing.T) {
	var body struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "  Hello there!\n"}, "finish_reason": "stop"}
			]
		}`))
	}))
	defer server.Close()

	g := NewOpenAIGenerator("test-key", server.URL+"/v1", server.Client())
	text, err := g.Generate(context.Background(), Request{
		Messages: []ChatMessage{
			{Role: store.RoleSystem, Content: "sys"},
			{Role: store.RoleUser, Content: "hi"},
		},
		Params: Params{Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 512},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", text)
	assert.Equal(t, "gpt-3.5-turbo", body.Model)
	assert.InDelta(t, 0.7, body.Temperature, 0.001)
	assert.Equal(t, 512, body.MaxTokens)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "hi", body.Messages[1].Content)
}

func TestOpenAIGenerator_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error": {"message": "boom", "type": "server_error"}}`},
		{"unauthorized", http.StatusUnauthorized, `{"error": {"message": "bad key", "type": "invalid_request_error"}}`},
		{"malformed body", http.StatusOK, `{"choices": [`},
		{"no choices", http.StatusOK, `{"id": "x", "choices": []}`},
		{"blank content", http.StatusOK, `{"choices": [{"message": {"role": "assistant", "content": "   "}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			g := NewOpenAIGenerator("test-key", server.URL+"/v1", server.Client())
			_, err := g.Generate(context.Background(), Request{
				Messages: []ChatMessage{{Role: store.RoleUser, Content: "hi"}},
				Params:   Params{Model: "m"},
			})
			assert.Error(t, err)
		})
	}
}
