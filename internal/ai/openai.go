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

const openAIDefaultModel = "gpt-4"

const systemPrompt = "You are a professional career coach and resume writer. Generate high-quality, tailored content that matches the job requirements."

// OpenAIGenerator calls the chat completions endpoint.
type OpenAIGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAIGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := g.generate(ctx, req)
	count("openai", err)
	return resp, err
}

func (g *OpenAIGenerator) generate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(openAIRequest{
		Model: g.model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
		MaxTokens:   2000,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		logger.Errorf("openai generation failed: %v", err)
		return nil, fmt.Errorf("%w: openai request: %v", ErrGenerationFailed, err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, httpResp.Body)
		logger.Errorf("openai generation failed: status %s", httpResp.Status)
		return nil, fmt.Errorf("%w: openai status %s", ErrGenerationFailed, httpResp.Status)
	}

	var out openAIResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: openai decode: %v", ErrGenerationFailed, err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", ErrGenerationFailed)
	}
	return &Response{
		Content:    out.Choices[0].Message.Content,
		Provider:   "openai",
		Model:      g.model,
		TokensUsed: out.Usage.TotalTokens,
	}, nil
}
