package ai

import (
	"fmt"
	"strings"

	"github.com/talentsift/resume-parser/internal/domain"
)

const extractSystemPrompt = `You are an expert resume parser. You extract structured data from resume text and respond with valid JSON only, no markdown, no explanation.`

// extractSchema is the literal target shape embedded in the prompt. The
// example values tell the model what each field should look like.
const extractSchema = `{
  "personalInfo": {
    "name": "John Doe",
    "email": "john@example.com",
    "phone": "+1 555 123 4567",
    "location": "San Francisco, CA",
    "linkedin": "linkedin.com/in/johndoe",
    "website": "johndoe.dev"
  },
  "summary": "Brief professional summary",
  "skills": [
    {"name": "Python", "level": 85, "category": "Technical"}
  ],
  "experience": [
    {
      "company": "Acme Corp",
      "position": "Senior Engineer",
      "startDate": "Jan 2020",
      "endDate": "Present",
      "description": "What the role involved",
      "achievements": ["Notable achievement"]
    }
  ],
  "education": [
    {"institution": "MIT", "degree": "Bachelor of Science", "field": "Computer Science", "year": "2019", "gpa": "3.8"}
  ],
  "certifications": [
    {"name": "AWS Certified Solutions Architect", "issuer": "Amazon", "date": "2022"}
  ],
  "languages": [
    {"name": "English", "proficiency": "Native"}
  ]
}`

// buildExtractPrompt embeds the schema and resume text into one user
// prompt instructing the model to return only JSON.
func buildExtractPrompt(text string) string {
	var b strings.Builder
	b.WriteString("Extract structured data from the resume below. Return ONLY a JSON object matching exactly this schema (use \"\" for missing strings, [] for missing arrays, skill level is an integer 0-100, category is one of Technical/Design/Cloud/Other):\n\n")
	b.WriteString(extractSchema)
	b.WriteString("\n\nResume text:\n\"\"\"\n")
	b.WriteString(text)
	b.WriteString("\n\"\"\"")
	return b.String()
}

const enhanceSystemPrompt = `You are a professional resume writer. You improve resume content for clarity and impact and respond with valid JSON only, no markdown, no explanation.`

func buildEnhancePrompt(r domain.ParsedResume) string {
	var b strings.Builder
	b.WriteString("Improve the resume content below. Return ONLY a JSON object of this shape:\n\n")
	b.WriteString(`{"enhancedSummary": "...", "improvedExperiences": [{"description": "..."}], "skillSuggestions": ["..."]}`)
	b.WriteString("\n\nKeep improvedExperiences aligned by index with the given experiences. Suggest at most five complementary skills.\n\n")
	b.WriteString("Summary: ")
	b.WriteString(r.Summary)
	b.WriteString("\nSkills: ")
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\nExperiences:\n")
	for i, e := range r.Experience {
		fmt.Fprintf(&b, "%d. %s at %s: %s\n", i+1, e.Position, e.Company, e.Description)
	}
	return b.String()
}
