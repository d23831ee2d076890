package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/talentsift/resume-parser/internal/domain"
)

// ResultCache is a read-through cache for completed result envelopes.
type ResultCache interface {
	Get(ctx domain.Context, key string) ([]byte, bool, error)
	Set(ctx domain.Context, key string, val []byte, ttl time.Duration) error
}

// ResultService assembles the API response envelope for one resume,
// including conditional responses (304 Not Modified) and error-code
// mapping. Completed envelopes are served from cache when available;
// the record is immutable once completed, so cached copies never go
// stale within the TTL.
type ResultService struct {
	Repo     domain.ResumeRepository
	Cache    ResultCache
	CacheTTL time.Duration
}

// NewResultService constructs a ResultService. cache may be nil.
func NewResultService(r domain.ResumeRepository, cache ResultCache, ttl time.Duration) ResultService {
	return ResultService{Repo: r, Cache: cache, CacheTTL: ttl}
}

// Fetch returns the HTTP status code, response body, and ETag for id.
// The ETag is derived from the serialized envelope, so cached and fresh
// reads of the same completed record agree.
func (s ResultService) Fetch(ctx domain.Context, id, ifNoneMatch string) (int, map[string]any, string, error) {
	if raw, body, ok := s.cachedEnvelope(ctx, id); ok {
		return conditional(body, raw, ifNoneMatch)
	}

	resume, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return http.StatusNotFound, nil, "", fmt.Errorf("%w: resume not found", domain.ErrNotFound)
		}
		return http.StatusInternalServerError, nil, "", err
	}

	body := envelope(resume)
	raw, err := json.Marshal(body)
	if err != nil {
		return http.StatusInternalServerError, nil, "", fmt.Errorf("op=result.fetch: %w", err)
	}
	if resume.Status == domain.StatusCompleted {
		s.cacheEnvelope(ctx, id, raw)
	}
	return conditional(body, raw, ifNoneMatch)
}

func conditional(body map[string]any, raw []byte, ifNoneMatch string) (int, map[string]any, string, error) {
	etag := makeETag(raw)
	if etag == ifNoneMatch {
		return http.StatusNotModified, nil, etag, nil
	}
	return http.StatusOK, body, etag, nil
}

// List returns summary envelopes for the most recent resumes.
func (s ResultService) List(ctx domain.Context, limit int) ([]map[string]any, error) {
	resumes, err := s.Repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(resumes))
	for _, r := range resumes {
		m := map[string]any{
			"id":         r.ID,
			"filename":   r.Filename,
			"status":     string(r.Status),
			"created_at": r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if r.Status == domain.StatusCompleted && r.Scores != nil {
			m["overallScore"] = r.Scores.OverallScore
		}
		out = append(out, m)
	}
	return out, nil
}

func envelope(r domain.Resume) map[string]any {
	m := map[string]any{"id": r.ID, "status": string(r.Status)}
	switch r.Status {
	case domain.StatusFailed:
		m["error"] = map[string]any{
			"code":    errorCodeFromMessage(r.Error),
			"message": r.Error,
		}
	case domain.StatusCompleted:
		if r.Parsed != nil {
			m["parsedResume"] = r.Parsed
		}
		if r.Scores != nil {
			m["scores"] = r.Scores
		}
	}
	return m
}

func (s ResultService) cachedEnvelope(ctx domain.Context, id string) ([]byte, map[string]any, bool) {
	if s.Cache == nil {
		return nil, nil, false
	}
	raw, ok, err := s.Cache.Get(ctx, id)
	if err != nil {
		slog.Warn("result cache read failed", slog.String("resume_id", id), slog.Any("error", err))
		return nil, nil, false
	}
	if !ok {
		return nil, nil, false
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, nil, false
	}
	return raw, body, true
}

func (s ResultService) cacheEnvelope(ctx domain.Context, id string, raw []byte) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, id, raw, s.CacheTTL); err != nil {
		slog.Warn("result cache write failed", slog.String("resume_id", id), slog.Any("error", err))
	}
}

func makeETag(raw []byte) string {
	sum := sha256.Sum256(raw)
	return `"` + hex.EncodeToString(sum[:8]) + `"`
}

// errorCodeFromMessage maps a stored failure message to a stable code.
func errorCodeFromMessage(msg string) string {
	switch {
	case containsFold(msg, "rate limit"):
		return "UPSTREAM_RATE_LIMIT"
	case containsFold(msg, "unauthorized"), containsFold(msg, "forbidden"):
		return "UPSTREAM_AUTH"
	case containsFold(msg, "timeout"), containsFold(msg, "deadline exceeded"):
		return "UPSTREAM_TIMEOUT"
	case containsFold(msg, "invalid json"), containsFold(msg, "invalid response"), containsFold(msg, "refused"):
		return "UPSTREAM_INVALID_RESPONSE"
	case containsFold(msg, "enqueue"), containsFold(msg, "persist"):
		return "INTERNAL"
	default:
		return "PROCESSING_FAILED"
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
