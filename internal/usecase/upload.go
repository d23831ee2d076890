// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"time"

	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	"github.com/talentsift/resume-parser/internal/adapter/observability"
	"github.com/talentsift/resume-parser/internal/domain"
)

// UploadService validates an uploaded resume, extracts its text
// synchronously, persists the pending record, and enqueues the parse
// job. Validation and extraction failures surface immediately; the
// parse itself happens on the worker.
type UploadService struct {
	Repo      domain.ResumeRepository
	Queue     domain.Queue
	Extractor domain.TextExtractor
	MaxBytes  int64
}

// NewUploadService constructs an UploadService with its dependencies.
func NewUploadService(r domain.ResumeRepository, q domain.Queue, x domain.TextExtractor, maxBytes int64) UploadService {
	return UploadService{Repo: r, Queue: q, Extractor: x, MaxBytes: maxBytes}
}

// Ingest accepts raw upload bytes and returns the new resume id.
func (s UploadService) Ingest(ctx domain.Context, content []byte, filename, declaredMIME string) (string, error) {
	mime := declaredMIME
	if mime == "" {
		mime = mimetype.Detect(content).String()
	}
	if !domain.AllowedMediaType(mime) {
		return "", fmt.Errorf("op=upload.ingest: %w: %s", domain.ErrInvalidFileType, mime)
	}
	if sniffed := mimetype.Detect(content); !sniffed.Is(mime) {
		slog.Debug("declared media type differs from sniffed content",
			slog.String("declared", mime),
			slog.String("sniffed", sniffed.String()),
			slog.String("filename", filename))
	}
	size := int64(len(content))
	if size == 0 {
		return "", fmt.Errorf("op=upload.ingest: %w: empty file", domain.ErrInvalidArgument)
	}
	if size > s.MaxBytes {
		return "", fmt.Errorf("op=upload.ingest: %w: %d bytes", domain.ErrFileTooLarge, size)
	}

	text, err := s.Extractor.Extract(ctx, domain.RawDocument{Content: content, MediaType: mime, Size: size})
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	id, err := s.Repo.Create(ctx, domain.Resume{
		Filename:  filename,
		MIME:      mime,
		Size:      size,
		Text:      text,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return "", err
	}

	if _, err := s.Queue.EnqueueParse(ctx, domain.ParseTaskPayload{ResumeID: id}); err != nil {
		msg := "enqueue failed"
		_ = s.Repo.UpdateStatus(ctx, id, domain.StatusFailed, &msg)
		return "", err
	}
	observability.EnqueueJob("parse")
	slog.Info("resume accepted",
		slog.String("resume_id", id),
		slog.String("mime", mime),
		slog.Int64("size", size),
		slog.Int("text_len", len(text)))
	return id, nil
}
