package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/umputun/newsbeat/pkg/domain"
)

// ParseEnrichment extracts headline and summary from model output. The text may be wrapped
// in code fences or surrounded by commentary; the first balanced json object is used then.
func ParseEnrichment(text string) (*domain.Enrichment, error) {
	text = stripCodeFences(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		obj, ok := firstJSONObject(text)
		if !ok {
			return nil, fmt.Errorf("%w: no json object found", ErrMalformedResponse)
		}
		payload = nil
		if err := json.Unmarshal([]byte(obj), &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err) //nolint:errorlint // decode error is informational
		}
	}

	// non-string fields are treated as missing, the other field is kept
	res := domain.Enrichment{Headline: stringField(payload, "ai_headline"), Summary: stringField(payload, "ai_summary")}
	if res.Empty() {
		return nil, ErrEmptyEnrichment
	}
	return &res, nil
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}

// stripCodeFences removes ``` and ```json markers
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "```") {
		return s
	}
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// firstJSONObject returns the first balanced {...} block, braces inside string literals are ignored
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
