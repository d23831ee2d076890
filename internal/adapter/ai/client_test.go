package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/resume-parser/internal/config"
	"github.com/talentsift/resume-parser/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:                   "test",
		AIAPIKey:                 "test-key",
		AIBaseURL:                baseURL,
		AIModel:                  "gpt-4o-mini",
		AIMaxAttempts:            3,
		AIBackoffInitialInterval: 10 * time.Millisecond,
		AIBackoffMultiplier:      2.0,
		AIRequestTimeout:         5 * time.Second,
	}
}

func completion(content string) string {
	return `{"choices":[{"message":{"content":` + jsonString(content) + `}}]}`
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		switch r {
		case '"':
			out += `\"`
		case '\\':
			out += `\\`
		case '\n':
			out += `\n`
		default:
			out += string(r)
		}
	}
	return out + `"`
}

func TestChatJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(completion(`{"ok":true}`)))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	got, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)
}

func TestChatJSONRetriesRateLimitThreeAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIRateLimited))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestChatJSONRateLimitThenSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(completion("recovered")))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	got, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestChatJSONUnauthorizedNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIUnauthorized))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatJSONForbiddenNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIForbidden))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatJSONServerErrorSurfacesMessage(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIUnavailable))
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatJSONMissingKey(t *testing.T) {
	cfg := testConfig("http://unused")
	cfg.AIAPIKey = ""
	c := NewClient(cfg)
	_, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestChatJSONContextCancellationStopsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.AIBackoffInitialInterval = 500 * time.Millisecond
	cfg.AppEnv = "prod" // use the configured interval, not the test shortcut
	c := NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.ChatJSON(ctx, "sys", "user", 100)
	require.Error(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestChatJSONEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "sys", "user", 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIInvalidResponse))
}
