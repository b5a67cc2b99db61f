package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
)

const baseInstructions = `You are an e-commerce optimization expert working for a Shopify merchant. You must produce one valid JSON object only (no markdown, no commentary). Do not include code fences.

Requirements:
- Output must be a single JSON object.
- Use lowercase impact values: critical, high, medium, low.
- Scores are integers from 0 to 100.
- Keep list items concise and actionable.`

// System builds the system instruction for req, embedding its schema so
// providers without native schema support still answer in shape.
func System(req ai.Request) string {
	var b strings.Builder
	b.WriteString(baseInstructions)
	if s := strings.TrimSpace(req.System); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}
	if len(req.Schema) > 0 {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, req.Schema, "", "  "); err != nil {
			pretty.Reset()
			pretty.Write(req.Schema)
		}
		b.WriteString("\n\nJSON schema of the response:\n")
		b.Write(pretty.Bytes())
	}
	return b.String()
}

// ExtractJSON pulls the JSON object out of a model answer, tolerating code
// fences and prose around it. The result must be a JSON object.
func ExtractJSON(text string) (json.RawMessage, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") {
		start := strings.Index(s, "{")
		end := strings.LastIndex(s, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: no json object in answer", ai.ErrInvalidResponse)
		}
		s = s[start : end+1]
	}
	raw := json.RawMessage(s)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ai.ErrInvalidResponse, err)
	}
	return raw, nil
}
