package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jobtrack/jobtrack/pkg/logger"
)

const anthropicDefaultModel = "claude-3-sonnet-20240229"

// AnthropicGenerator calls the messages endpoint.
type AnthropicGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewAnthropicGenerator(apiKey, model string) *AnthropicGenerator {
	if model == "" {
		model = anthropicDefaultModel
	}
	return &AnthropicGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.anthropic.com",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type anthropicRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (g *AnthropicGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := g.generate(ctx, req)
	count("anthropic", err)
	return resp, err
}

func (g *AnthropicGenerator) generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payload := anthropicRequest{Model: g.model, MaxTokens: 2000}
	payload.Messages = append(payload.Messages, struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{Role: "user", Content: buildPrompt(req)})

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		logger.Errorf("anthropic generation failed: %v", err)
		return nil, fmt.Errorf("%w: anthropic request: %v", ErrGenerationFailed, err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, httpResp.Body)
		logger.Errorf("anthropic generation failed: status %s", httpResp.Status)
		return nil, fmt.Errorf("%w: anthropic status %s", ErrGenerationFailed, httpResp.Status)
	}

	var out anthropicResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: anthropic decode: %v", ErrGenerationFailed, err)
	}
	if len(out.Content) == 0 {
		return nil, fmt.Errorf("%w: anthropic returned no content", ErrGenerationFailed)
	}
	return &Response{
		Content:    out.Content[0].Text,
		Provider:   "anthropic",
		Model:      g.model,
		TokensUsed: out.Usage.InputTokens + out.Usage.OutputTokens,
	}, nil
}
