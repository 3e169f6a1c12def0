// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"

	"github.com/pdiddy/doc-digest/internal/compose"
	"github.com/pdiddy/doc-digest/pkg/types"
)

var testRequest = compose.Request{
	Instruction: "INSTRUCTION",
	Content:     "START OF FILE: a.txt\nHello\nEND OF FILE: a.txt",
	Files:       []string{"a.txt"},
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")

	secrets := map[string]string{"openai-api-key": "from-secret"}

	cfg := types.GenerationConfig{Provider: types.ProviderOpenAI, APIKey: "from-config"}
	assert.Equal(t, "from-config", ResolveAPIKey(cfg, secrets))

	cfg.APIKey = ""
	assert.Equal(t, "from-secret", ResolveAPIKey(cfg, secrets))
	assert.Equal(t, "from-env", ResolveAPIKey(cfg, nil))

	assert.Empty(t, ResolveAPIKey(types.GenerationConfig{Provider: "other"}, secrets))
}

func TestNew(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	t.Run("fake needs no key", func(t *testing.T) {
		b, err := New(context.Background(), types.GenerationConfig{Provider: types.ProviderFake}, nil)
		require.NoError(t, err)
		assert.Equal(t, "fake", b.Name())
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := New(context.Background(), types.GenerationConfig{Provider: types.ProviderClaude}, nil)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(context.Background(), types.GenerationConfig{Provider: "llama", APIKey: "k"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown generation provider")
	})

	t.Run("claude from secrets", func(t *testing.T) {
		b, err := New(context.Background(),
			types.GenerationConfig{Provider: types.ProviderClaude, Model: "claude-sonnet-4-5"},
			map[string]string{"anthropic-api-key": "k"})
		require.NoError(t, err)
		assert.Equal(t, "claude:claude-sonnet-4-5", b.Name())
	})

	t.Run("openai", func(t *testing.T) {
		b, err := New(context.Background(),
			types.GenerationConfig{Provider: types.ProviderOpenAI, Model: "gpt-4o", APIKey: "k"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "openai:gpt-4o", b.Name())
	})
}

func TestFakeBackend(t *testing.T) {
	out, err := NewFake().Generate(context.Background(), compose.Request{Files: []string{"a.txt", "b.pdf"}, Content: "xyz"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Processed Files\n"))
	assert.Contains(t, out, "- **a.txt**")
	assert.Contains(t, out, "- **b.pdf**")
}

func TestOpenAIBackend(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"# Title\n- item"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	b := NewOpenAI("test-key", "gpt-4o", srv.URL+"/v1")
	out, err := b.Generate(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, "# Title\n- item", out)
	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "INSTRUCTION", got.Messages[0].Content[0].Text)
	assert.Equal(t, testRequest.Content, got.Messages[0].Content[1].Text)
}

func TestOpenAIBackend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom","type":"server_error"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"id":"c1","choices":[]}`, wantErr: ErrEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewOpenAI("k", "m", srv.URL+"/v1").Generate(context.Background(), testRequest)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, 1, calls, "no retries")
		})
	}
}

func TestClaudeBackend(t *testing.T) {
	var got struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",`+
			`"content":[{"type":"text","text":"# Title\n"},{"type":"text","text":"- item"}],`+
			`"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`)
	}))
	defer srv.Close()

	out, err := NewClaude("k", "claude-test", 1024, srv.URL+"/").Generate(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, "# Title\n- item", out)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, 1024, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "INSTRUCTION", got.Messages[0].Content[0].Text)
	assert.Equal(t, testRequest.Content, got.Messages[0].Content[1].Text)
}

func TestClaudeBackend_NoRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, `{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`)
	}))
	defer srv.Close()

	_, err := NewClaude("k", "m", 10, srv.URL+"/").Generate(context.Background(), testRequest)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestGeminiContents(t *testing.T) {
	contents := geminiContents(testRequest)
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].Role)
	require.Len(t, contents[0].Parts, 2)
	assert.Equal(t, "INSTRUCTION", contents[0].Parts[0].Text)
	assert.Equal(t, testRequest.Content, contents[0].Parts[1].Text)
}

func TestGeminiText(t *testing.T) {
	assert.Empty(t, geminiText(nil))
	assert.Empty(t, geminiText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking...", Thought: true},
				{Text: "# Title\n"},
				{Text: "- item"},
			}},
		}},
	}
	assert.Equal(t, "# Title\n- item", geminiText(resp))
}

// stubBackend returns a fixed answer or error.
type stubBackend struct {
	out string
	err error
}

func (s stubBackend) Name() string { return "stub" }
func (s stubBackend) Generate(context.Context, compose.Request) (string, error) {
	return s.out, s.err
}

func TestWithLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	b := WithLogging(stubBackend{out: "# ok"}, logger)
	out, err := b.Generate(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "# ok", out)
	assert.Equal(t, 2, logs.FilterMessage("generation request").Len()+logs.FilterMessage("generation response").Len())

	b = WithLogging(stubBackend{err: errors.New("quota")}, logger)
	_, err = b.Generate(context.Background(), testRequest)
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("generation failed").Len())

	plain := stubBackend{}
	assert.Equal(t, plain, WithLogging(plain, nil))
}
