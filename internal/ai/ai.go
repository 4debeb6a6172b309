// Package ai wraps the LLM used for statement extraction and
// recommendations.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fintrack-backend/config"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

var (
	ErrNotConfigured = errors.New("llm is not configured")
	ErrEmptyResponse = errors.New("llm returned no content")
)

// Completer turns a prompt into raw model text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiCompleter asks a Gemini model for JSON output.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewCompleter returns a Gemini-backed Completer, or a Completer that always
// fails with ErrNotConfigured when no API key is set.
func NewCompleter(ctx context.Context, cfg config.AIConfig) (Completer, func() error, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No Gemini API key configured, AI features will fall back")
		return unconfigured{}, func() error { return nil }, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: cfg.Model}, client.Close, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		break
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

type unconfigured struct{}

func (unconfigured) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// CleanJSON strips markdown code fences and surrounding prose from a model
// reply so only the JSON document is left.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexAny(s, "{[")
	if start > 0 {
		s = s[start:]
	}
	if end := strings.LastIndexAny(s, "}]"); end >= 0 && end < len(s)-1 {
		s = s[:end+1]
	}
	return s
}

// CompleteJSON runs prompt and decodes the cleaned reply into out.
func CompleteJSON(ctx context.Context, c Completer, prompt string, out interface{}) error {
	raw, err := c.Complete(ctx, prompt)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(CleanJSON(raw)), out); err != nil {
		return fmt.Errorf("decode llm reply: %w", err)
	}
	return nil
}
