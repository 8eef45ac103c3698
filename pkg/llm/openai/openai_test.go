package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entrhq/scribe/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewProvider("")
	assert.Error(t, err)
}

func TestNewProviderOptions(t *testing.T) {
	p, err := NewProvider("sk-test",
		WithModel("gpt-4o-mini"),
		WithBaseURL("http://localhost:8080/v1"),
	)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.GetModel())
	assert.Equal(t, "http://localhost:8080/v1", p.GetBaseURL())
}

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string            `json:"model"`
			Messages []json.RawMessage `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body.Model)
		assert.Len(t, body.Messages, 2)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hello back"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	p, err := NewProvider("sk-test", WithBaseURL(server.URL+"/v1"))
	require.NoError(t, err)

	msg, err := p.Complete(context.Background(), []*llm.Message{
		llm.NewSystemMessage("be brief"),
		llm.NewUserMessage("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, llm.RoleAssistant, msg.Role)
	assert.Equal(t, "hello back", msg.Content)
}

func TestCompleteErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "quota exceeded",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
			},
		},
		{
			name: "empty choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p, err := NewProvider("sk-test", WithBaseURL(server.URL))
			require.NoError(t, err)

			_, err = p.Complete(context.Background(), []*llm.Message{llm.NewUserMessage("hi")})
			require.Error(t, err)

			var genErr *llm.GenerationError
			assert.ErrorAs(t, err, &genErr)
		})
	}
}
