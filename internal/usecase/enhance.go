package usecase

import (
	"fmt"
	"strings"

	"log/slog"

	"github.com/talentsift/resume-parser/internal/domain"
)

// EnhanceService produces improved resume content. The AI path is
// preferred; any AI failure degrades to a deterministic template-based
// rewrite so the endpoint always answers.
type EnhanceService struct {
	Enhancer domain.ContentEnhancer
}

// NewEnhanceService constructs an EnhanceService. enhancer may be nil
// when no AI endpoint is configured.
func NewEnhanceService(e domain.ContentEnhancer) EnhanceService {
	return EnhanceService{Enhancer: e}
}

// Enhance returns improved content for resume.
func (s EnhanceService) Enhance(ctx domain.Context, resume domain.ParsedResume) (domain.Enhancement, error) {
	if s.Enhancer != nil {
		out, err := s.Enhancer.Enhance(ctx, resume)
		if err == nil {
			return out, nil
		}
		slog.Warn("ai enhancement failed, using static fallback", slog.Any("error", err))
	}
	return staticEnhancement(resume), nil
}

// complementarySkills suggests adjacent skills for ones already listed.
var complementarySkills = map[string][]string{
	"python":     {"FastAPI", "Pandas"},
	"javascript": {"TypeScript", "Node.js"},
	"typescript": {"React", "Node.js"},
	"go":         {"gRPC", "Kubernetes"},
	"react":      {"Next.js", "Redux"},
	"docker":     {"Kubernetes", "Helm"},
	"kubernetes": {"Terraform", "Prometheus"},
	"aws":        {"Terraform", "CloudFormation"},
	"sql":        {"PostgreSQL", "Data Modeling"},
	"figma":      {"Prototyping", "Design Systems"},
}

// staticEnhancement rewrites content with fixed templates. It is
// deterministic and never fails.
func staticEnhancement(r domain.ParsedResume) domain.Enhancement {
	var out domain.Enhancement

	switch {
	case r.Summary != "":
		out.EnhancedSummary = "Results-driven professional. " + r.Summary
	case len(r.Skills) > 0:
		names := make([]string, 0, 3)
		for _, s := range r.Skills {
			names = append(names, s.Name)
			if len(names) == 3 {
				break
			}
		}
		out.EnhancedSummary = fmt.Sprintf("Results-driven professional with demonstrated expertise in %s.", strings.Join(names, ", "))
	default:
		out.EnhancedSummary = "Results-driven professional with a track record of delivering measurable outcomes."
	}

	out.ImprovedExperiences = make([]domain.ImprovedExperience, 0, len(r.Experience))
	for _, e := range r.Experience {
		desc := e.Description
		if desc == "" {
			desc = fmt.Sprintf("Contributed as %s at %s.", fallbackStr(e.Position, "a team member"), fallbackStr(e.Company, "the organization"))
		}
		out.ImprovedExperiences = append(out.ImprovedExperiences, domain.ImprovedExperience{
			Description: ensureSuffix(desc, " Delivered measurable improvements against team goals."),
		})
	}

	seen := make(map[string]bool)
	for _, s := range r.Skills {
		seen[strings.ToLower(s.Name)] = true
	}
	for _, s := range r.Skills {
		for _, suggestion := range complementarySkills[strings.ToLower(s.Name)] {
			if seen[strings.ToLower(suggestion)] {
				continue
			}
			seen[strings.ToLower(suggestion)] = true
			out.SkillSuggestions = append(out.SkillSuggestions, suggestion)
			if len(out.SkillSuggestions) == 5 {
				return out
			}
		}
	}
	if len(out.SkillSuggestions) == 0 {
		out.SkillSuggestions = []string{"Communication", "Project Management"}
	}
	return out
}

func fallbackStr(s, fb string) string {
	if s == "" {
		return fb
	}
	return s
}

func ensureSuffix(desc, suffix string) string {
	if strings.HasSuffix(strings.TrimSpace(desc), strings.TrimSpace(suffix)) {
		return desc
	}
	return strings.TrimSpace(desc) + suffix
}
