package feed

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters removed from links before they are used as dedup keys
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
}

// Canonicalize returns the dedup key for a raw item link. Tracking parameters are
// dropped, everything else (other params in their original order, path, fragment) is kept.
// Links that can't be parsed as absolute URLs are returned trimmed but otherwise unchanged.
func Canonicalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return trimmed
	}

	if u.RawQuery != "" {
		kept := make([]string, 0, strings.Count(u.RawQuery, "&")+1)
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key, _, _ := strings.Cut(pair, "=")
			if k, err := url.QueryUnescape(key); err == nil {
				key = k
			}
			if trackingParams[key] {
				continue
			}
			kept = append(kept, pair)
		}
		u.RawQuery = strings.Join(kept, "&")
		u.ForceQuery = false
	}

	return u.String()
}
