package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/resume-parser/internal/domain"
)

type stubAIClient struct {
	response string
	err      error
	gotUser  string
}

func (s *stubAIClient) ChatJSON(_ domain.Context, _ string, userPrompt string, _ int) (string, error) {
	s.gotUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const validPayload = `{
  "personalInfo": {"name": "Jane Doe", "email": "jane@example.com", "phone": "", "location": "", "linkedin": "", "website": ""},
  "summary": "Engineer.",
  "skills": [{"name": "Go", "level": 90, "category": "Technical"}, {"name": "Figma", "level": 120, "category": "Nonsense"}],
  "experience": [{"company": "Acme", "position": "Engineer", "startDate": "2020", "endDate": "Present", "description": "", "achievements": []}],
  "education": [],
  "certifications": ["CKA", {"name": "AWS SA", "issuer": "Amazon"}],
  "languages": ["English", {"name": "French", "proficiency": "B2"}]
}`

func TestExtractResumeParsesAndNormalizes(t *testing.T) {
	stub := &stubAIClient{response: "```json\n" + validPayload + "\n```"}
	e := NewExtractor(stub, "gpt-4o-mini", 6000)

	got, err := e.ExtractResume(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.PersonalInfo.Name)
	require.Len(t, got.Skills, 2)
	assert.Equal(t, 100, got.Skills[1].Level)
	assert.Equal(t, domain.SkillCategoryOther, got.Skills[1].Category)

	require.Len(t, got.Certifications, 2)
	assert.Equal(t, "CKA", got.Certifications[0].Name)
	assert.Equal(t, "Amazon", got.Certifications[1].Issuer)

	require.Len(t, got.Languages, 2)
	assert.Equal(t, "English", got.Languages[0].Name)
	assert.Equal(t, "B2", got.Languages[1].Proficiency)
}

func TestExtractResumePromptCarriesText(t *testing.T) {
	stub := &stubAIClient{response: validPayload}
	e := NewExtractor(stub, "gpt-4o-mini", 6000)

	_, err := e.ExtractResume(context.Background(), "UNIQUE-RESUME-MARKER")
	require.NoError(t, err)
	assert.Contains(t, stub.gotUser, "UNIQUE-RESUME-MARKER")
	assert.Contains(t, stub.gotUser, "personalInfo")
}

func TestExtractResumeInvalidJSON(t *testing.T) {
	stub := &stubAIClient{response: "not json at all"}
	e := NewExtractor(stub, "gpt-4o-mini", 6000)

	_, err := e.ExtractResume(context.Background(), "resume text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIInvalidResponse))
}

func TestExtractResumeRefusal(t *testing.T) {
	stub := &stubAIClient{response: "I'm sorry, but I cannot process personal documents."}
	e := NewExtractor(stub, "gpt-4o-mini", 6000)

	_, err := e.ExtractResume(context.Background(), "resume text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIInvalidResponse))
}

func TestExtractResumePropagatesClientError(t *testing.T) {
	wrapped := fmt.Errorf("op=ai.chat: %w", domain.ErrAIRateLimited)
	stub := &stubAIClient{err: wrapped}
	e := NewExtractor(stub, "gpt-4o-mini", 6000)

	_, err := e.ExtractResume(context.Background(), "resume text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIRateLimited))
}

func TestEnhancerParsesPayload(t *testing.T) {
	stub := &stubAIClient{response: `{"enhancedSummary": "Better.", "improvedExperiences": [{"description": "Did X."}], "skillSuggestions": ["Kubernetes"]}`}
	e := NewEnhancer(stub)

	got, err := e.Enhance(context.Background(), domain.ParsedResume{Summary: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "Better.", got.EnhancedSummary)
	require.Len(t, got.ImprovedExperiences, 1)
	assert.Equal(t, []string{"Kubernetes"}, got.SkillSuggestions)
}

func TestEnhancerPropagatesError(t *testing.T) {
	stub := &stubAIClient{err: fmt.Errorf("op=ai.chat: %w", domain.ErrAIUnavailable)}
	e := NewEnhancer(stub)

	_, err := e.Enhance(context.Background(), domain.ParsedResume{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAIUnavailable))
}
