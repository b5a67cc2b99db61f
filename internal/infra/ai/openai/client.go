package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
	"github.com/bryanwahyu/automaton-shop/internal/infra/ai/prompt"
)

const (
	maxTokens    = 4096
	defaultModel = "gpt-4o-mini"
)

type Client struct {
	*openai.Client
	Model string
	log   *zap.Logger
}

func NewClient(apiKey, model string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{Client: openai.NewClient(apiKey), Model: model, log: log}
}

// NewClientWithConfig allows pointing at a compatible endpoint (tests, proxies).
func NewClientWithConfig(cfg openai.ClientConfig, model string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{Client: openai.NewClientWithConfig(cfg), Model: model, log: log}
}

// Invoke sends req in JSON-object mode and returns the decoded object.
// Chat completions have no web grounding, so UseInternet is ignored here.
func (c *Client) Invoke(ctx context.Context, req ai.Request) (json.RawMessage, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	creq := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		creq.MaxCompletionTokens = maxTokens
	} else {
		creq.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, creq)
	if err != nil {
		if isQuota(err) {
			return nil, fmt.Errorf("%s: %w", req.Name, ai.ErrQuotaExceeded)
		}
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w: empty choices", req.Name, ai.ErrInvalidResponse)
	}
	c.log.Debug("llm call",
		zap.String("tool", req.Name),
		zap.String("model", model),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return prompt.ExtractJSON(resp.Choices[0].Message.Content)
}

func isQuota(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.Type == "insufficient_quota"
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
