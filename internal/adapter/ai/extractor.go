package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"log/slog"

	"github.com/talentsift/resume-parser/internal/adapter/ai/tokencount"
	"github.com/talentsift/resume-parser/internal/domain"
)

// Completion budget for the structured extraction output.
const extractMaxTokens = 2000

// refusalMarkers identify completions where the model declined instead
// of parsing. Resume content (names, employers) can trip over-eager
// safety behavior; these are surfaced as invalid responses so the
// orchestrator falls back.
var refusalMarkers = []string{
	"i cannot", "i can't", "i'm sorry", "i am sorry",
	"as an ai", "i'm unable", "i am unable",
}

// Extractor implements domain.ResumeExtractor on top of an AIClient.
type Extractor struct {
	client  domain.AIClient
	counter *tokencount.Counter
	model   string
	budget  int
}

// NewExtractor constructs an Extractor. budget caps the resume text
// embedded in the prompt, in model tokens.
func NewExtractor(client domain.AIClient, model string, budget int) *Extractor {
	return &Extractor{
		client:  client,
		counter: tokencount.NewCounter(),
		model:   model,
		budget:  budget,
	}
}

// aiResume mirrors domain.ParsedResume but tolerates the looser shapes
// models return for certifications and languages (bare strings next to
// structured objects).
type aiResume struct {
	PersonalInfo domain.PersonalInfo `json:"personalInfo"`
	Summary      string              `json:"summary"`
	Skills       []domain.Skill      `json:"skills"`
	Experience   []domain.Experience `json:"experience"`
	Education    []domain.Education  `json:"education"`
	Certs        []json.RawMessage   `json:"certifications"`
	Languages    []json.RawMessage   `json:"languages"`
}

// ExtractResume asks the model for a structured resume and validates
// the returned payload against the domain schema.
func (e *Extractor) ExtractResume(ctx domain.Context, text string) (domain.ParsedResume, error) {
	truncated := e.counter.Truncate(e.model, text, e.budget)
	if len(truncated) < len(text) {
		slog.Info("resume text truncated for prompt budget",
			slog.Int("original_len", len(text)),
			slog.Int("truncated_len", len(truncated)),
			slog.Int("budget_tokens", e.budget))
	}

	raw, err := e.client.ChatJSON(ctx, extractSystemPrompt, buildExtractPrompt(truncated), extractMaxTokens)
	if err != nil {
		return domain.ParsedResume{}, err
	}
	if isRefusal(raw) {
		return domain.ParsedResume{}, fmt.Errorf("op=ai.extract: %w: model refused", domain.ErrAIInvalidResponse)
	}

	cleaned := CleanJSONResponse(raw)
	var payload aiResume
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		slog.Warn("ai extraction returned invalid JSON", slog.Any("error", err))
		return domain.ParsedResume{}, fmt.Errorf("op=ai.extract: %w: invalid JSON", domain.ErrAIInvalidResponse)
	}

	r := domain.ParsedResume{
		PersonalInfo:   payload.PersonalInfo,
		Summary:        payload.Summary,
		Skills:         normalizeSkills(payload.Skills),
		Experience:     payload.Experience,
		Education:      payload.Education,
		Certifications: normalizeCertifications(payload.Certs),
		Languages:      normalizeLanguages(payload.Languages),
	}
	return r, nil
}

func isRefusal(raw string) bool {
	probe := strings.ToLower(raw)
	if len(probe) > 200 {
		probe = probe[:200]
	}
	if strings.Contains(probe, "{") {
		return false
	}
	for _, m := range refusalMarkers {
		if strings.Contains(probe, m) {
			return true
		}
	}
	return false
}

func normalizeSkills(skills []domain.Skill) []domain.Skill {
	out := make([]domain.Skill, 0, len(skills))
	for _, s := range skills {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		if s.Level < 0 {
			s.Level = 0
		}
		if s.Level > 100 {
			s.Level = 100
		}
		switch s.Category {
		case domain.SkillCategoryTechnical, domain.SkillCategoryDesign, domain.SkillCategoryCloud:
		default:
			s.Category = domain.SkillCategoryOther
		}
		out = append(out, s)
	}
	return out
}

// normalizeCertifications accepts both {"name": ...} objects and bare
// strings, mapping everything onto the structured shape.
func normalizeCertifications(raw []json.RawMessage) []domain.Certification {
	out := make([]domain.Certification, 0, len(raw))
	for _, msg := range raw {
		var c domain.Certification
		if err := json.Unmarshal(msg, &c); err == nil && c.Name != "" {
			out = append(out, c)
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil && s != "" {
			out = append(out, domain.Certification{Name: s})
		}
	}
	return out
}

func normalizeLanguages(raw []json.RawMessage) []domain.Language {
	out := make([]domain.Language, 0, len(raw))
	for _, msg := range raw {
		var l domain.Language
		if err := json.Unmarshal(msg, &l); err == nil && l.Name != "" {
			out = append(out, l)
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err == nil && s != "" {
			out = append(out, domain.Language{Name: s})
		}
	}
	return out
}
