// Package ai implements resume extraction and content enhancement
// against an OpenAI-compatible chat completions endpoint.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/talentsift/resume-parser/internal/adapter/observability"
	"github.com/talentsift/resume-parser/internal/config"
	"github.com/talentsift/resume-parser/internal/domain"
)

// Client implements domain.AIClient against an OpenAI-compatible API.
// The API key and endpoint are held here, never read from the process
// environment at call time.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// NewClient constructs a Client with a traced HTTP transport.
func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout:   cfg.AIRequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// chatResponse is the subset of the completions payload we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiError is the structured error body OpenAI-compatible servers return.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ChatJSON sends one chat completion request and returns the raw message
// content. Rate limits are retried with exponential backoff up to the
// configured attempt bound; auth and other client errors fail
// immediately.
func (c *Client) ChatJSON(ctx domain.Context, systemPrompt, userPrompt string, maxTokens int) (string, error) {
	if !c.cfg.AIEnabled() {
		return "", fmt.Errorf("op=ai.chat: %w: AI_API_KEY missing", domain.ErrInvalidArgument)
	}

	body := map[string]any{
		"model":       c.cfg.AIModel,
		"temperature": 0.1,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
	}
	b, _ := json.Marshal(body)

	var out chatResponse
	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing consumed bodies.
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AIBaseURL+"/chat/completions", bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("op=ai.chat: %w", err))
		}
		r.Header.Set("Authorization", "Bearer "+c.cfg.AIAPIKey)
		r.Header.Set("Content-Type", "application/json")

		resp, err := c.hc.Do(r)
		observability.AIRequestDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
		if err != nil {
			observability.AIRequestsTotal.WithLabelValues("chat", "network_error").Inc()
			return backoff.Permanent(fmt.Errorf("op=ai.chat: %w: %v", domain.ErrAIUnavailable, err))
		}
		defer func() { _ = resp.Body.Close() }()

		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			observability.AIRequestsTotal.WithLabelValues("chat", "network_error").Inc()
			return backoff.Permanent(fmt.Errorf("op=ai.chat: %w: %v", domain.ErrAIUnavailable, err))
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			observability.AIRequestsTotal.WithLabelValues("chat", "rate_limited").Inc()
			slog.Warn("ai provider rate limited",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.AIModel))
			return fmt.Errorf("op=ai.chat: %w", domain.ErrAIRateLimited)
		case resp.StatusCode == http.StatusUnauthorized:
			observability.AIRequestsTotal.WithLabelValues("chat", "unauthorized").Inc()
			return backoff.Permanent(fmt.Errorf("op=ai.chat: %w", domain.ErrAIUnauthorized))
		case resp.StatusCode == http.StatusForbidden:
			observability.AIRequestsTotal.WithLabelValues("chat", "forbidden").Inc()
			return backoff.Permanent(fmt.Errorf("op=ai.chat: %w", domain.ErrAIForbidden))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			observability.AIRequestsTotal.WithLabelValues("chat", "error").Inc()
			msg := apiErrorMessage(bodyBytes)
			slog.Warn("ai provider non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("model", c.cfg.AIModel),
				slog.String("message", msg))
			return backoff.Permanent(fmt.Errorf("op=ai.chat: %w: status %d: %s", domain.ErrAIUnavailable, resp.StatusCode, msg))
		}

		if err := json.Unmarshal(bodyBytes, &out); err != nil {
			observability.AIRequestsTotal.WithLabelValues("chat", "decode_error").Inc()
			return backoff.Permanent(fmt.Errorf("op=ai.chat: %w: %v", domain.ErrAIInvalidResponse, err))
		}
		observability.AIRequestsTotal.WithLabelValues("chat", "ok").Inc()
		return nil
	}

	if err := backoff.Retry(op, c.retryPolicy(ctx)); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("op=ai.chat: %w: empty choices", domain.ErrAIInvalidResponse)
	}
	return out.Choices[0].Message.Content, nil
}

// retryPolicy waits the configured initial interval after the first
// failed attempt and doubles from there, honoring ctx cancellation so
// abandoned requests do not leak outstanding retries.
func (c *Client) retryPolicy(ctx domain.Context) backoff.BackOffContext {
	attempts, initial, multiplier := c.cfg.GetAIBackoffConfig()
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = initial
	expo.Multiplier = multiplier
	expo.RandomizationFactor = 0
	expo.MaxElapsedTime = 0
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(expo, uint64(attempts-1)), ctx)
}

func apiErrorMessage(body []byte) string {
	var ae apiError
	if err := json.Unmarshal(body, &ae); err == nil && ae.Error.Message != "" {
		return ae.Error.Message
	}
	snippet := string(body)
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	return snippet
}
