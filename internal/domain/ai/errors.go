package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrInvalidResponse indicates the provider answered with something that is not a JSON object.
var ErrInvalidResponse = errors.New("ai returned invalid json")
