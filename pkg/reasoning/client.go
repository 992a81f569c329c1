package reasoning

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/smart-triage/platform/pkg/common/logger"
)

// ErrUnavailable covers every failure to obtain a completion from the
// external service: transport errors, API errors, timeouts, empty responses.
var ErrUnavailable = errors.New("reasoning service unavailable")

// Completer is the minimal surface the triage service needs from the
// external reasoner.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Retries int
	Backoff time.Duration
}

// Client calls the OpenAI chat completions API with near-deterministic
// sampling and a JSON-object response constraint.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	retries int
	backoff time.Duration
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	return &Client{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		retries: opts.Retries,
		backoff: backoff,
	}
}

// Complete sends the system instruction and prompt and returns the raw
// completion text. Transient failures (network errors, 5xx, rate limits) are
// retried with doubling backoff up to the configured count; 4xx API errors
// fail immediately since repeating the same request cannot succeed. Either
// way the failure surfaces as ErrUnavailable. The response text is returned
// as-is, parsing is the normalizer's job.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
			backoff *= 2
		}

		text, err := c.complete(ctx, system, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err

		logger.Log.WithError(err).WithField("attempt", attempt+1).Warn("reasoning call failed")

		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// retryable reports whether another attempt could plausibly succeed. 4xx
// responses other than 429 mean the request itself was rejected.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func retryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status < 400 || status >= 500
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: "json_object",
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
