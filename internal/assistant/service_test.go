package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ubqurrotul/koperasi-backend/pkg/config"
)

func testConfig(key string) config.GeminiConfig {
	return config.GeminiConfig{APIKey: key, Model: "gemini-2.5-flash", Timeout: 2 * time.Second}
}

func TestChatWithoutAPIKey(t *testing.T) {
	svc := NewService(testConfig(""), nil)
	result := svc.Chat(context.Background(), ChatInput{Message: "Berapa SHU saya?"})
	assert.True(t, result.Fallback)
	assert.Equal(t, fallbackNoKey, result.Reply)
}

func TestChatSuccess(t *testing.T) {
	var captured generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]string{{"text": "Simpanan wajib dibayar paling lambat tanggal 10."}},
				},
			}},
		})
	}))
	defer server.Close()

	svc := NewService(testConfig("secret"), nil, WithBaseURL(server.URL))
	result := svc.Chat(context.Background(), ChatInput{
		Message: "Kapan batas simpanan wajib?",
		History: []Turn{{Role: "user", Text: "Halo"}, {Role: "model", Text: "Halo, ada yang bisa dibantu?"}},
	})

	assert.False(t, result.Fallback)
	assert.Equal(t, "Simpanan wajib dibayar paling lambat tanggal 10.", result.Reply)

	require.NotNil(t, captured.SystemInstruction)
	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "Kapan batas simpanan wajib?", captured.Contents[2].Parts[0].Text)
}

func TestChatUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	svc := NewService(testConfig("secret"), nil, WithBaseURL(server.URL))
	result := svc.Chat(context.Background(), ChatInput{Message: "Halo"})
	assert.True(t, result.Fallback)
	assert.Equal(t, fallbackUpstream, result.Reply)
}

func TestChatEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	svc := NewService(testConfig("secret"), nil, WithBaseURL(server.URL))
	result := svc.Chat(context.Background(), ChatInput{Message: "Halo"})
	assert.True(t, result.Fallback)
	assert.Equal(t, fallbackNoContent, result.Reply)
}
