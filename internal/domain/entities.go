package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrExtraction      = errors.New("text extraction failed")
	ErrInternal        = errors.New("internal error")

	// AI extraction failure classes. The orchestrator folds all of them
	// into a heuristic fallback unless AI is required by configuration.
	ErrAIRateLimited     = errors.New("ai rate limited")
	ErrAIUnauthorized    = errors.New("ai unauthorized")
	ErrAIForbidden       = errors.New("ai forbidden")
	ErrAIInvalidResponse = errors.New("ai invalid response")
	ErrAIUnavailable     = errors.New("ai unavailable")
)

// Allowed upload media types.
const (
	MIMEPDF   = "application/pdf"
	MIMEWord  = "application/msword"
	MIMEWordX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedMediaType reports whether m is one of the accepted resume types.
func AllowedMediaType(m string) bool {
	return m == MIMEPDF || m == MIMEWord || m == MIMEWordX
}

// RawDocument is the binary upload plus its declared media type. It lives
// only for the duration of one extraction request.
type RawDocument struct {
	Content   []byte
	MediaType string
	Size      int64
}

// PersonalInfo holds contact fields; empty string means not found.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Skill categories used by both extraction paths.
const (
	SkillCategoryTechnical = "Technical"
	SkillCategoryDesign    = "Design"
	SkillCategoryCloud     = "Cloud"
	SkillCategoryOther     = "Other"
)

type Skill struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Category string `json:"category"`
}

type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

type Language struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// ParsedResume is the structured output of the extraction pipeline.
// Field names are an external contract; the UI and storage layers bind
// to them by name.
type ParsedResume struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Summary        string          `json:"summary"`
	Skills         []Skill         `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
}

// ScoreSet carries the derived completeness scores, each in [0,100].
type ScoreSet struct {
	SkillsScore     int `json:"skillsScore"`
	ExperienceScore int `json:"experienceScore"`
	EducationScore  int `json:"educationScore"`
	OverallScore    int `json:"overallScore"`
}

// ProcessingStatus is the lifecycle of one uploaded resume.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Resume is the persisted record keyed by an opaque identifier.
// Invariants: MIME in the allowed set; Size <= the configured cap;
// Parsed and Scores are set only in the completed state.
type Resume struct {
	ID        string
	Filename  string
	MIME      string
	Size      int64
	Text      string
	Status    ProcessingStatus
	Parsed    *ParsedResume
	Scores    *ScoreSet
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enhancement is the AI content-improvement payload.
type Enhancement struct {
	EnhancedSummary     string               `json:"enhancedSummary"`
	ImprovedExperiences []ImprovedExperience `json:"improvedExperiences"`
	SkillSuggestions    []string             `json:"skillSuggestions"`
}

type ImprovedExperience struct {
	Description string `json:"description"`
}

// ParseTaskPayload is the queue message for one parse job.
type ParseTaskPayload struct {
	ResumeID string `json:"resume_id"`
}

// ResumeRepository (port)

type ResumeRepository interface {
	Create(ctx Context, r Resume) (string, error)
	Get(ctx Context, id string) (Resume, error)
	List(ctx Context, limit int) ([]Resume, error)
	UpdateStatus(ctx Context, id string, status ProcessingStatus, errMsg *string) error
	SaveResult(ctx Context, id string, parsed ParsedResume, scores ScoreSet) error
}

// Queue (port)

type Queue interface {
	EnqueueParse(ctx Context, payload ParseTaskPayload) (string, error)
}

// TextExtractor (port)
// Extract derives a plain-text representation from the raw upload or
// fails with ErrExtraction when no plausible text can be obtained.
type TextExtractor interface {
	Extract(ctx Context, doc RawDocument) (string, error)
}

// ResumeExtractor (port)
// ExtractResume asks an LLM for a ParsedResume; failures use the
// ErrAI* taxonomy above.
type ResumeExtractor interface {
	ExtractResume(ctx Context, text string) (ParsedResume, error)
}

// ContentEnhancer (port)
// Enhance rewrites resume content for impact; failures use the ErrAI*
// taxonomy above.
type ContentEnhancer interface {
	Enhance(ctx Context, resume ParsedResume) (Enhancement, error)
}

// AIClient (port)
// ChatJSON returns raw model output expected to contain one JSON object.
type AIClient interface {
	ChatJSON(ctx Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Context is an alias so the domain package does not import adapters;
// usecases and adapters pass context.Context straight through.
type Context = context.Context
