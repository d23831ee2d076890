package usecase

import (
	"errors"
	"fmt"

	"log/slog"

	"github.com/talentsift/resume-parser/internal/adapter/observability"
	"github.com/talentsift/resume-parser/internal/domain"
	"github.com/talentsift/resume-parser/internal/scoring"
)

// Extraction path labels recorded per parsed resume.
const (
	PathAI                = "ai"
	PathHeuristic         = "heuristic"
	PathHeuristicFallback = "heuristic_fallback"
)

// HeuristicParser is the rule-based extraction path. It is total: any
// input yields a resume, at worst an empty one.
type HeuristicParser interface {
	Parse(text string) domain.ParsedResume
}

// Orchestrator chooses the extraction path for one resume text. AI runs
// first when configured; any AI failure falls back to the heuristic
// parser unless the deployment requires AI, in which case the failure
// propagates.
type Orchestrator struct {
	AI         domain.ResumeExtractor
	Heuristic  HeuristicParser
	AIRequired bool
}

// NewOrchestrator constructs an Orchestrator. ai may be nil when no AI
// endpoint is configured.
func NewOrchestrator(ai domain.ResumeExtractor, heuristic HeuristicParser, aiRequired bool) Orchestrator {
	return Orchestrator{AI: ai, Heuristic: heuristic, AIRequired: aiRequired}
}

// Extract returns the parsed resume and the path that produced it.
func (o Orchestrator) Extract(ctx domain.Context, text string) (domain.ParsedResume, string, error) {
	if o.AI == nil {
		return o.Heuristic.Parse(text), PathHeuristic, nil
	}
	parsed, err := o.AI.ExtractResume(ctx, text)
	if err == nil {
		return parsed, PathAI, nil
	}
	if o.AIRequired {
		return domain.ParsedResume{}, "", fmt.Errorf("op=parse.extract: ai required: %w", err)
	}
	slog.Warn("ai extraction failed, falling back to heuristic parser",
		slog.Any("error", err),
		slog.Bool("rate_limited", errors.Is(err, domain.ErrAIRateLimited)))
	return o.Heuristic.Parse(text), PathHeuristicFallback, nil
}

// ParseService executes one parse job end to end: load the stored text,
// extract, score, and persist the outcome with the matching status
// transition.
type ParseService struct {
	Repo         domain.ResumeRepository
	Orchestrator Orchestrator
}

// NewParseService constructs a ParseService.
func NewParseService(r domain.ResumeRepository, o Orchestrator) ParseService {
	return ParseService{Repo: r, Orchestrator: o}
}

// Process runs the parse job for the given resume id.
func (s ParseService) Process(ctx domain.Context, resumeID string) error {
	resume, err := s.Repo.Get(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("op=parse.process: %w", err)
	}
	if resume.Status == domain.StatusCompleted {
		slog.Info("parse job already completed, skipping", slog.String("resume_id", resumeID))
		return nil
	}
	if err := s.Repo.UpdateStatus(ctx, resumeID, domain.StatusProcessing, nil); err != nil {
		return fmt.Errorf("op=parse.process: %w", err)
	}

	parsed, path, err := s.Orchestrator.Extract(ctx, resume.Text)
	if err != nil {
		msg := err.Error()
		_ = s.Repo.UpdateStatus(ctx, resumeID, domain.StatusFailed, &msg)
		return err
	}
	scores := scoring.Score(parsed)

	if err := s.Repo.SaveResult(ctx, resumeID, parsed, scores); err != nil {
		msg := "persist failed"
		_ = s.Repo.UpdateStatus(ctx, resumeID, domain.StatusFailed, &msg)
		return fmt.Errorf("op=parse.process: %w", err)
	}

	observability.ExtractionPathTotal.WithLabelValues(path).Inc()
	observability.OverallScoreHistogram.Observe(float64(scores.OverallScore))
	slog.Info("parse job completed",
		slog.String("resume_id", resumeID),
		slog.String("path", path),
		slog.Int("overall_score", scores.OverallScore),
		slog.Int("skills", len(parsed.Skills)),
		slog.Int("experience", len(parsed.Experience)))
	return nil
}
