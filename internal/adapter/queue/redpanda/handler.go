package redpanda

import (
	"context"

	"github.com/talentsift/resume-parser/internal/adapter/observability"
	"github.com/talentsift/resume-parser/internal/domain"
)

// ParseRunner is the slice of the parse use case the handler needs.
type ParseRunner interface {
	Process(ctx domain.Context, resumeID string) error
}

// ParseHandler adapts the parse use case to the consumer Handler
// interface and records job metrics around each run.
type ParseHandler struct {
	Runner ParseRunner
}

func (h *ParseHandler) Handle(ctx context.Context, payload domain.ParseTaskPayload) error {
	observability.StartProcessingJob("parse")
	if err := h.Runner.Process(ctx, payload.ResumeID); err != nil {
		observability.FailJob("parse")
		return err
	}
	observability.CompleteJob("parse")
	return nil
}
