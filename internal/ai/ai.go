// Package ai forwards resume and cover letter prompts to a configured
// generation provider. The provider is picked once at startup; there is no
// per-request negotiation and no retry.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/pkg/metrics"
)

const (
	TypeResume      = "resume"
	TypeCoverLetter = "cover_letter"
)

var (
	ErrValidation = errors.New("validation failed")
	// ErrNotConfigured means the selected provider is missing a credential
	// or endpoint. Surfaced at startup, not per request.
	ErrNotConfigured = errors.New("ai provider not configured")
	// ErrGenerationFailed covers any non-success vendor response.
	ErrGenerationFailed = errors.New("generation failed")
)

// Request carries everything a prompt template needs.
type Request struct {
	Type            string `json:"type"`
	JobDescription  string `json:"jobDescription"`
	CompanyName     string `json:"companyName"`
	Position        string `json:"position"`
	ExistingContent string `json:"existingContent,omitempty"`
	UserExperience  string `json:"userExperience,omitempty"`
}

func (r Request) Validate() error {
	if r.Type != TypeResume && r.Type != TypeCoverLetter {
		return fmt.Errorf("%w: type must be %q or %q", ErrValidation, TypeResume, TypeCoverLetter)
	}
	if strings.TrimSpace(r.CompanyName) == "" {
		return fmt.Errorf("%w: companyName is required", ErrValidation)
	}
	if strings.TrimSpace(r.Position) == "" {
		return fmt.Errorf("%w: position is required", ErrValidation)
	}
	return nil
}

// Response is the generated text plus usage metadata where the vendor
// reports it.
type Response struct {
	Content    string `json:"content"`
	Provider   string `json:"provider"`
	Model      string `json:"model,omitempty"`
	TokensUsed int    `json:"tokensUsed,omitempty"`
}

// Generator is the single capability all providers implement.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// NewGenerator selects the provider strategy from configuration. An openai or
// anthropic selection without an API key fails here rather than on the first
// request.
func NewGenerator(cfg config.AIConfig) (Generator, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: openai requires AI_API_KEY", ErrNotConfigured)
		}
		return NewOpenAIGenerator(cfg.APIKey, cfg.Model), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: anthropic requires AI_API_KEY", ErrNotConfigured)
		}
		return NewAnthropicGenerator(cfg.APIKey, cfg.Model), nil
	case "", "local":
		return NewLocalGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, cfg.Provider)
	}
}

func count(provider string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.Generations.WithLabelValues(provider, outcome).Inc()
}
