// Package llm wraps the OpenAI-compatible chat completion API behind a small
// Completer interface.
//
// The client measures wall-clock latency around each call itself and never
// trusts the remote service to report timing. Model parameters are fixed
// constants; callers only supply the user prompt.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-codementor-backend/internal/config"
)

const (
	// SystemPrompt is sent ahead of every user prompt.
	SystemPrompt = "You are an expert coding mentor and teacher. Provide helpful, educational, and encouraging responses."

	// Temperature and MaxTokens are fixed model parameters.
	Temperature = 0.7
	MaxTokens   = 2000
)

var (
	// ErrNotConfigured is returned when no credential was supplied.
	ErrNotConfigured = errors.New("completion service not configured")
	// ErrUpstream wraps any failure of the remote call.
	ErrUpstream = errors.New("completion service call failed")
)

// Usage holds token counts reported by the completion service.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Result is the outcome of one completion.
type Result struct {
	Content      string
	Usage        *Usage // nil when the service reported no usage
	ResponseTime time.Duration
}

// ResponseTimeMs returns the measured duration in whole milliseconds.
func (r *Result) ResponseTimeMs() int64 {
	if r == nil || r.ResponseTime < 0 {
		return 0
	}
	return r.ResponseTime.Milliseconds()
}

// TotalTokens returns the reported total, or 0 when usage is absent.
func (r *Result) TotalTokens() int {
	if r == nil || r.Usage == nil {
		return 0
	}
	return r.Usage.TotalTokens
}

// Completer turns a prompt into completion text.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, prompt string) (*Result, error)
}

// Client is the go-openai backed Completer.
type Client struct {
	api        *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	configured bool

	// retryBackoff is the base delay between attempts (grows linearly).
	retryBackoff time.Duration
}

// New builds a Client from cfg. An empty API key yields an unconfigured
// client whose Complete fails fast with ErrNotConfigured.
func New(cfg config.CompletionConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Client{
		api:          openai.NewClientWithConfig(oc),
		model:        cfg.Model,
		timeout:      cfg.Timeout,
		maxRetries:   cfg.MaxRetries,
		configured:   cfg.Configured(),
		retryBackoff: 250 * time.Millisecond,
	}
}

// Configured reports whether a credential is present.
func (c *Client) Configured() bool { return c != nil && c.configured }

// Complete sends prompt with the fixed system prompt and parameters.
//
// With the default configuration this performs exactly one call. When
// retries are enabled, transient failures (transport errors, 429 and 5xx)
// are retried up to maxRetries times; any other failure ends the loop. Only
// the final failure is returned, wrapped in ErrUpstream.
func (c *Client) Complete(ctx context.Context, prompt string) (*Result, error) {
	if !c.Configured() {
		completionReqs.WithLabelValues("not_configured").Inc()
		return nil, ErrNotConfigured
	}

	ctx, span := otel.Tracer("llm/Client").Start(ctx, "Complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.prompt_chars", len(prompt)),
	)

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, time.Duration(attempt)*c.retryBackoff); err != nil {
				break
			}
			log.Ctx(ctx).Warn().Err(lastErr).Int("attempt", attempt).Msg("retrying completion")
		}

		res, err := c.attempt(ctx, req)
		if err == nil {
			span.SetAttributes(
				attribute.Int("llm.attempts", attempt+1),
				attribute.Int("llm.total_tokens", res.TotalTokens()),
				attribute.Int64("llm.response_time_ms", res.ResponseTimeMs()),
			)
			observe(res)
			return res, nil
		}
		lastErr = err
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	completionReqs.WithLabelValues("error").Inc()
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "completion failed")
	return nil, fmt.Errorf("%w: %v", ErrUpstream, lastErr)
}

// retryable reports whether a failed attempt may succeed when repeated.
// Responses with a status code are retried only for 429 and 5xx; errors
// without one come from the transport and are retried.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return transientStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return transientStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// attempt performs one timed call.
func (c *Client) attempt(ctx context.Context, req openai.ChatCompletionRequest) (*Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in completion response")
	}

	res := &Result{
		Content:      resp.Choices[0].Message.Content,
		ResponseTime: elapsed,
	}
	if resp.Usage.TotalTokens > 0 {
		res.Usage = &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
