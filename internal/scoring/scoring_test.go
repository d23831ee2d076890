package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talentsift/resume-parser/internal/domain"
)

func resumeWith(skills, exps, edus int) domain.ParsedResume {
	var r domain.ParsedResume
	for i := 0; i < skills; i++ {
		r.Skills = append(r.Skills, domain.Skill{Name: "s", Level: 70, Category: domain.SkillCategoryOther})
	}
	for i := 0; i < exps; i++ {
		r.Experience = append(r.Experience, domain.Experience{Company: "c", Position: "p"})
	}
	for i := 0; i < edus; i++ {
		r.Education = append(r.Education, domain.Education{Institution: "i"})
	}
	return r
}

func TestScoreEmptyResumeAtFloors(t *testing.T) {
	got := Score(domain.ParsedResume{})
	assert.Equal(t, 30, got.SkillsScore)
	assert.Equal(t, 20, got.ExperienceScore)
	assert.Equal(t, 40, got.EducationScore)
	assert.Equal(t, 30, got.OverallScore)
}

func TestScoreBounded(t *testing.T) {
	cases := []domain.ParsedResume{
		{},
		resumeWith(1, 0, 0),
		resumeWith(20, 10, 5),
		resumeWith(100, 100, 100),
	}
	for _, r := range cases {
		got := Score(r)
		for _, v := range []int{got.SkillsScore, got.ExperienceScore, got.EducationScore, got.OverallScore} {
			assert.GreaterOrEqual(t, v, 0)
			assert.LessOrEqual(t, v, 100)
		}
	}
}

func TestScoreMonotonicInEntryCounts(t *testing.T) {
	prev := Score(domain.ParsedResume{})
	for n := 1; n <= 12; n++ {
		got := Score(resumeWith(n, n, n))
		assert.GreaterOrEqual(t, got.SkillsScore, prev.SkillsScore)
		assert.GreaterOrEqual(t, got.ExperienceScore, prev.ExperienceScore)
		assert.GreaterOrEqual(t, got.EducationScore, prev.EducationScore)
		assert.GreaterOrEqual(t, got.OverallScore, prev.OverallScore)
		prev = got
	}
}

func TestScoreDeterministic(t *testing.T) {
	r := resumeWith(4, 2, 1)
	assert.Equal(t, Score(r), Score(r))
}

func TestScoreSummaryBonus(t *testing.T) {
	base := resumeWith(3, 2, 1)
	short := base
	short.Summary = strings.Repeat("a", 60)
	long := base
	long.Summary = strings.Repeat("a", 150)

	plain := Score(base).OverallScore
	assert.Equal(t, plain+5, Score(short).OverallScore)
	assert.Equal(t, plain+10, Score(long).OverallScore)
}

func TestScoreSaturates(t *testing.T) {
	got := Score(resumeWith(50, 50, 50))
	assert.Equal(t, 95, got.SkillsScore)
	assert.Equal(t, 95, got.ExperienceScore)
	assert.Equal(t, 90, got.EducationScore)
}
