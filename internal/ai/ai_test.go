package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrack/jobtrack/internal/config"
)

func validRequest() Request {
	return Request{
		Type:           TypeResume,
		JobDescription: "Build distributed systems in Go.",
		CompanyName:    "Acme",
		Position:       "Engineer",
	}
}

func TestNewGenerator_ProviderSelection(t *testing.T) {
	g, err := NewGenerator(config.AIConfig{Provider: "local"})
	require.NoError(t, err)
	assert.IsType(t, &LocalGenerator{}, g)

	g, err = NewGenerator(config.AIConfig{})
	require.NoError(t, err)
	assert.IsType(t, &LocalGenerator{}, g)

	g, err = NewGenerator(config.AIConfig{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIGenerator{}, g)

	g, err = NewGenerator(config.AIConfig{Provider: "anthropic", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicGenerator{}, g)
}

func TestNewGenerator_MissingCredential(t *testing.T) {
	_, err := NewGenerator(config.AIConfig{Provider: "openai"})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGenerator(config.AIConfig{Provider: "anthropic"})
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGenerator(config.AIConfig{Provider: "cohere", APIKey: "x"})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestLocalGenerator_MockContentWithinBoundedTime(t *testing.T) {
	g := &LocalGenerator{delay: 10 * time.Millisecond}

	start := time.Now()
	resp, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, resp.Content, "mock")
	assert.Contains(t, resp.Content, "Acme")
	assert.Contains(t, resp.Content, "Engineer")
	assert.Equal(t, "local", resp.Provider)

	req := validRequest()
	req.Type = TypeCoverLetter
	resp, err = g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "mock")
}

func TestRequestValidation(t *testing.T) {
	g := &LocalGenerator{delay: time.Millisecond}

	req := validRequest()
	req.Type = "poem"
	_, err := g.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)

	req = validRequest()
	req.CompanyName = " "
	_, err = g.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)

	req = validRequest()
	req.Position = ""
	_, err = g.Generate(context.Background(), req)
	require.ErrorIs(t, err, ErrValidation)
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt(validRequest())
	assert.Contains(t, p, "format and optimize this resume for the Engineer position at Acme")
	assert.Contains(t, p, "Build distributed systems in Go.")
	assert.NotContains(t, p, "Current Resume Content")

	req := validRequest()
	req.Type = TypeCoverLetter
	req.ExistingContent = "old letter"
	req.UserExperience = "ten years of Go"
	p = buildPrompt(req)
	assert.Contains(t, p, "cover letter for the Engineer position at Acme")
	assert.Contains(t, p, "Base Cover Letter Content:\nold letter")
	assert.Contains(t, p, "My Background:\nten years of Go")
}

func TestOpenAIGenerator(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": "tailored resume"}}},
			"usage":   map[string]int{"total_tokens": 42},
		})
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", "")
	g.baseURL = srv.URL

	resp, err := g.Generate(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "/v1/chat/completions", gotPath)
	assert.Equal(t, "tailored resume", resp.Content)
	assert.Equal(t, "openai", resp.Provider)
	assert.Equal(t, "gpt-4", resp.Model)
	assert.Equal(t, 42, resp.TokensUsed)
}

func TestOpenAIGenerator_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g := NewOpenAIGenerator("sk-test", "")
	g.baseURL = srv.URL

	_, err := g.Generate(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrGenerationFailed)
}

func TestAnthropicGenerator(t *testing.T) {
	var gotKey, gotVersion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		assert.Equal(t, "/v1/messages", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "tailored letter"}},
			"usage":   map[string]int{"input_tokens": 10, "output_tokens": 30},
		})
	}))
	defer srv.Close()

	g := NewAnthropicGenerator("sk-ant", "")
	g.baseURL = srv.URL

	req := validRequest()
	req.Type = TypeCoverLetter
	resp, err := g.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, "tailored letter", resp.Content)
	assert.Equal(t, "claude-3-sonnet-20240229", resp.Model)
	assert.Equal(t, 40, resp.TokensUsed)
}

func TestExtractClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extract-text", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "resume.pdf", header.Filename)
		b, _ := io.ReadAll(file)
		assert.Equal(t, "raw bytes", string(b))
		json.NewEncoder(w).Encode(map[string]string{"text": "ten years of experience"})
	}))
	defer srv.Close()

	c := NewExtractClient(srv.URL + "/")
	text, err := c.ExtractText(context.Background(), "resume.pdf", strings.NewReader("raw bytes"))
	require.NoError(t, err)
	assert.Equal(t, "ten years of experience", text)
}

func TestExtractClient_NotConfigured(t *testing.T) {
	c := NewExtractClient("")
	assert.False(t, c.Configured())
	_, err := c.ExtractText(context.Background(), "f", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrNotConfigured)
}
