// Package scoring derives completeness scores from a parsed resume.
// Scores are a coarse proxy for how much structure was extracted, not a
// qualitative judgment of the content.
package scoring

import "github.com/talentsift/resume-parser/internal/domain"

// Per-dimension weights and clamp bands. Floors are non-zero so an
// empty resume still reads as "scored", distinguishing it from an
// unscored record.
const (
	skillsPerEntry  = 12
	skillsBonus     = 20
	skillsBonusOver = 5
	skillsFloor     = 30
	skillsCeil      = 95

	expPerEntry  = 20
	expBonus     = 25
	expBonusOver = 2
	expFloor     = 20
	expCeil      = 95

	eduPerEntry  = 25
	eduBonus     = 15
	eduBonusOver = 1
	eduFloor     = 40
	eduCeil      = 90

	overallCeil = 100
)

// Score computes the score set for r. Pure, deterministic, and total:
// any well-formed resume scores, the all-empty case at the floors.
func Score(r domain.ParsedResume) domain.ScoreSet {
	skills := len(r.Skills) * skillsPerEntry
	if len(r.Skills) > skillsBonusOver {
		skills += skillsBonus
	}
	exp := len(r.Experience) * expPerEntry
	if len(r.Experience) > expBonusOver {
		exp += expBonus
	}
	edu := len(r.Education) * eduPerEntry
	if len(r.Education) > eduBonusOver {
		edu += eduBonus
	}

	s := domain.ScoreSet{
		SkillsScore:     clamp(skills, skillsFloor, skillsCeil),
		ExperienceScore: clamp(exp, expFloor, expCeil),
		EducationScore:  clamp(edu, eduFloor, eduCeil),
	}

	overall := roundedMean(s.SkillsScore, s.ExperienceScore, s.EducationScore)
	switch {
	case len(r.Summary) > 100:
		overall += 10
	case len(r.Summary) > 50:
		overall += 5
	}
	if overall > overallCeil {
		overall = overallCeil
	}
	s.OverallScore = overall
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundedMean(a, b, c int) int {
	return (a + b + c + 1) / 3
}
