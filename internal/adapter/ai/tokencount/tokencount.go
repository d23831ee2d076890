// Package tokencount bounds prompt sizes for LLM API calls.
//
// It uses tiktoken-go, a Go port of OpenAI's tiktoken library, so the
// prompt budget is enforced in real model tokens rather than bytes.
package tokencount

import (
	"strings"
	"sync"

	"log/slog"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting for LLM models.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{encodingCache: make(map[string]*tiktoken.Tiktoken)}
}

// getEncodingForModel returns the tiktoken encoding for a model,
// caching encodings for reuse.
func (c *Counter) getEncodingForModel(model string) (*tiktoken.Tiktoken, error) {
	normalized := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[normalized]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encodingCache[normalized]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(normalized)
	if err != nil {
		// cl100k_base covers GPT-4, GPT-3.5-turbo and most modern models.
		slog.Debug("falling back to cl100k_base encoding",
			slog.String("model", model),
			slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encodingCache[normalized] = enc
	return enc, nil
}

// Count returns the token count of text for model. On encoder failure
// it falls back to a conservative 4-bytes-per-token estimate.
func (c *Counter) Count(model, text string) int {
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// Truncate cuts text down to at most budget tokens for model, keeping
// the prefix. Text already within budget is returned unchanged.
func (c *Counter) Truncate(model, text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		limit := budget * 4
		if len(text) <= limit {
			return text
		}
		return text[:limit]
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return enc.Decode(tokens[:budget])
}

// normalizeModelName maps provider-prefixed model IDs onto names
// tiktoken recognizes.
func normalizeModelName(model string) string {
	if idx := strings.LastIndex(model, "/"); idx >= 0 {
		model = model[idx+1:]
	}
	return strings.TrimSuffix(model, ":free")
}
