// Package gemini implements the LLM port on Google's Gemini API, which
// supports web-grounded answers via Google Search.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
	"github.com/bryanwahyu/automaton-shop/internal/infra/ai/prompt"
)

const defaultModel = "gemini-2.5-flash"

type Client struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewClient(ctx context.Context, apiKey, model string, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	return NewClientWithConfig(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model, log)
}

// NewClientWithConfig allows a custom endpoint or HTTP client.
func NewClientWithConfig(ctx context.Context, cfg *genai.ClientConfig, model string, log *zap.Logger) (*Client, error) {
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: cli, model: model, log: log}, nil
}

// Invoke asks for a JSON object. Search grounding and JSON response mode
// cannot be combined, so grounded calls rely on the schema in the
// instruction and the answer is extracted from text.
func (c *Client) Invoke(ctx context.Context, req ai.Request) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System(req), genai.RoleUser),
	}
	if req.UseInternet {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	} else {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%s: %w", req.Name, ai.ErrQuotaExceeded)
		}
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	c.log.Debug("llm call",
		zap.String("tool", req.Name),
		zap.String("model", c.model),
		zap.Bool("grounded", req.UseInternet),
	)
	return prompt.ExtractJSON(resp.Text())
}
