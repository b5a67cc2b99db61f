package ai

import (
	"context"
	"encoding/json"
)

// Request is a single structured LLM invocation.
type Request struct {
	// Name identifies the tool issuing the call; used for logging only.
	Name   string
	System string
	Prompt string
	// Schema is a JSON schema describing the expected response object.
	Schema json.RawMessage
	// UseInternet asks the provider to ground the answer with web results
	// when it supports that.
	UseInternet bool
}

type Client interface {
	Invoke(ctx context.Context, req Request) (json.RawMessage, error)
}
