package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/umputun/newsbeat/pkg/config"
	"github.com/umputun/newsbeat/pkg/domain"
)

// errors returned by Summarize, all of them are soft failures for the caller
var (
	ErrRateLimited       = errors.New("rate limited, attempts exhausted")
	ErrMalformedResponse = errors.New("malformed llm response")
	ErrEmptyEnrichment   = errors.New("empty headline and summary")
)

// input limits, in characters
const (
	maxTitleLength = 220
	maxURLLength   = 500
)

// default system prompt for headline and summary generation
const defaultSystemPrompt = `You are a careful news editor.
Return STRICT JSON only. No markdown. No commentary.
Schema: {"ai_headline":"...","ai_summary":"..."}
ai_headline: max 90 chars, factual, no clickbait.
ai_summary: max 50 words, factual, no hype, no emojis.
Use UK British English spelling, grammar, and punctuation throughout.`

// Request is an article to summarise
type Request struct {
	Title   string
	URL     string
	Content string
}

// Summarizer generates short headline and summary for articles using an OpenAI compatible API
type Summarizer struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewSummarizer creates a new LLM summarizer
func NewSummarizer(cfg config.LLMConfig) *Summarizer {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Summarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemMsg,
		sleep:     sleep,
	}
}

// Summarize returns headline and summary for the article.
// A short throttle precedes every attempt; rate limit responses are retried with linear
// backoff (BackoffStep x attempt) up to MaxAttempts, any other provider error is returned at once.
func (s *Summarizer) Summarize(ctx context.Context, req Request) (*domain.Enrichment, error) {
	chatReq := s.chatRequest(req)

	var resp openai.ChatCompletionResponse
	attempt := 0
	rpt := repeater.NewBackoff(s.config.MaxAttempts, s.config.BackoffStep,
		repeater.WithBackoffType(repeater.BackoffLinear), repeater.WithJitter(0), repeater.WithMaxDelay(0))
	err := rpt.Do(ctx, func() error {
		attempt++
		if err := s.sleep(ctx, s.config.Throttle); err != nil {
			return &criticalError{err: err}
		}
		r, err := s.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			if !isRateLimit(err) {
				return &criticalError{err: fmt.Errorf("llm request failed: %w", err)}
			}
			lgr.Printf("[DEBUG] llm rate limited, attempt %d of %d", attempt, s.config.MaxAttempts)
			return err
		}
		resp = r
		return nil
	}, errCritical)

	if err != nil {
		var ce *criticalError
		switch {
		case errors.As(err, &ce):
			return nil, ce.err
		case isRateLimit(err):
			return nil, fmt.Errorf("%w after %d attempts: %v", ErrRateLimited, attempt, err) //nolint:errorlint // provider error is informational
		default:
			return nil, err
		}
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	return ParseEnrichment(resp.Choices[0].Message.Content)
}

// errCritical matches any criticalError, passed to repeater to stop retrying
var errCritical = errors.New("critical error")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string { return e.err.Error() }

func (e *criticalError) Unwrap() error { return e.err }

func (e *criticalError) Is(target error) bool { return target == errCritical }

// chatRequest builds the completion request with truncated inputs
func (s *Summarizer) chatRequest(req Request) openai.ChatCompletionRequest {
	var sb strings.Builder
	sb.WriteString("TITLE: ")
	sb.WriteString(truncate(strings.TrimSpace(req.Title), maxTitleLength))
	sb.WriteString("\nURL: ")
	sb.WriteString(truncate(strings.TrimSpace(req.URL), maxURLLength))
	sb.WriteString("\nCONTENT: ")
	sb.WriteString(truncate(strings.TrimSpace(req.Content), s.config.MaxContentLength))

	chatReq := openai.ChatCompletionRequest{
		Model:       s.config.Model,
		Temperature: float32(s.config.Temperature),
		MaxTokens:   s.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	if s.config.UseJSONSchema {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "article_enrichment",
				Schema: enrichmentSchema,
				Strict: true,
			},
		}
	}
	return chatReq
}

var enrichmentSchema = &jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"ai_headline": {Type: jsonschema.String, Description: "factual headline, max 90 characters"},
		"ai_summary":  {Type: jsonschema.String, Description: "neutral summary, max 50 words"},
	},
	Required:             []string{"ai_headline", "ai_summary"},
	AdditionalProperties: false,
}

// isRateLimit checks for http 429 in both structured and raw provider errors
func isRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}

// truncate cuts s to at most n runes, n <= 0 means no limit
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// sleep waits for d or until ctx is done, non-positive d only checks ctx
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
