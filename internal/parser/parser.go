// Package parser derives a structured resume from extracted plain text
// using keyword anchors and pattern matching. It is the terminal
// fallback of the extraction pipeline: it never fails, and absent data
// yields empty fields rather than errors.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/talentsift/resume-parser/internal/domain"
	"github.com/talentsift/resume-parser/pkg/textx"
)

const (
	maxSkills         = 20
	maxCertifications = 10
	maxLanguages      = 10
	maxSummaryLen     = 500

	// Lines longer than this are prose, not section headers.
	maxHeaderLen = 60
	// Boundary lines are short; longer lines merely mention the keyword.
	maxBoundaryLen = 40
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// Ordered phone formats; the first family that matches wins.
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,3}[\s.\-]?\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}`),
		regexp.MustCompile(`\(\d{3}\)[\s.\-]?\d{3}[\s.\-]?\d{4}`),
		regexp.MustCompile(`\d{3}[\s.\-]\d{3}[\s.\-]\d{4}`),
		regexp.MustCompile(`\b\d{10}\b`),
	}

	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/[A-Za-z0-9\-_/%]+`)
	urlRe      = regexp.MustCompile(`https?://[^\s,;]+`)

	yearRe    = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	gpaRe     = regexp.MustCompile(`(?i)gpa[:\s]*([0-4](?:\.\d{1,2})?)`)
	bulletRe  = regexp.MustCompile(`^[\-•*·▪]\s+`)
	numericRe = regexp.MustCompile(`^\d+$`)
	wordRe    = regexp.MustCompile(`^[A-Za-z][A-Za-z.'\-]*$`)

	degreeRe = regexp.MustCompile(`(?i)\b(?:bachelor|master|doctor|phd|associate|diploma|certificate)(?:[a-z']*)(?:\s+of\s+[a-z]+)?(?:\s+in\s+[a-z][a-z ]*)?`)

	locationRe = regexp.MustCompile(`^[A-Z][A-Za-z.\- ]+,\s*[A-Za-z][A-Za-z.\- ]*$`)

	tokenSplitRe = regexp.MustCompile(`[,\n•|;]+|\s+[-–—]\s+`)
	dateSplitRe  = regexp.MustCompile(`(?i)\s*[-–—]\s*|\s+to\s+`)
	presentRe    = regexp.MustCompile(`(?i)present|current`)
)

// Section header synonyms and the keyword set that terminates a section
// body when a later header is reached.
var (
	skillsHeaders     = []string{"technical skills", "core competencies", "skills"}
	experienceHeaders = []string{"work experience", "professional experience", "employment history", "experience"}
	educationHeaders  = []string{"education", "academic background"}
	certHeaders       = []string{"certifications", "certification", "licenses", "certificates"}
	langHeaders       = []string{"languages", "language proficiency"}
	summaryHeaders    = []string{"summary", "objective", "profile", "about"}

	nextSectionWords = []string{
		"experience", "education", "skills", "projects",
		"certifications", "certification", "languages", "references",
		"summary", "objective",
	}

	nameBoilerplate = []string{"resume", "curriculum", "vitae", "cv"}
)

type vocabSkill struct {
	name     string
	lower    string
	category string
}

// Parser is a stateless heuristic resume parser. Safe for concurrent use.
type Parser struct {
	skills    []vocabSkill
	skillCat  map[string]string
	languages []string
	degrees   []string
}

// New loads the embedded keyword vocabulary and returns a ready Parser.
func New() (*Parser, error) {
	v, err := loadVocabulary()
	if err != nil {
		return nil, err
	}
	p := &Parser{skillCat: make(map[string]string), languages: v.Languages, degrees: v.Degrees}
	// Fixed category order keeps the fallback scan deterministic.
	for _, key := range []string{"technical", "design", "cloud", "other"} {
		cat := categoryFor(key)
		for _, name := range v.Skills[key] {
			lower := strings.ToLower(name)
			p.skills = append(p.skills, vocabSkill{name: name, lower: lower, category: cat})
			p.skillCat[lower] = cat
		}
	}
	return p, nil
}

// Parse extracts a best-effort structured resume from text. It never
// fails; unrecognized input yields empty fields.
func (p *Parser) Parse(text string) domain.ParsedResume {
	lines := splitLines(text)
	var r domain.ParsedResume
	r.PersonalInfo = p.extractPersonalInfo(text, lines)
	r.Skills = p.extractSkills(text, lines)
	r.Experience = p.extractExperience(lines)
	r.Education = p.extractEducation(lines)
	r.Certifications = p.extractCertifications(lines)
	r.Languages = p.extractLanguages(lines)
	r.Summary = p.extractSummary(text, lines, r.Skills, r.Experience)
	return r
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, len(raw))
	for i, l := range raw {
		out[i] = strings.TrimSpace(l)
	}
	return out
}

func (p *Parser) extractPersonalInfo(text string, lines []string) domain.PersonalInfo {
	var pi domain.PersonalInfo
	pi.Email = emailRe.FindString(text)
	for _, re := range phoneRes {
		if m := re.FindString(text); m != "" {
			pi.Phone = m
			break
		}
	}
	pi.LinkedIn = linkedinRe.FindString(text)
	for _, u := range urlRe.FindAllString(text, -1) {
		if !strings.Contains(strings.ToLower(u), "linkedin") {
			pi.Website = u
			break
		}
	}
	pi.Name = p.extractName(lines)
	pi.Location = extractLocation(lines)
	return pi
}

// extractName scans the first ten non-empty lines for a short line of
// 2-5 alphabetic tokens, falling back to the first plausible line.
func (p *Parser) extractName(lines []string) string {
	top := topLines(lines, 10)
	for _, line := range top {
		if strings.Contains(line, "@") || containsDigit(line) {
			continue
		}
		if len(line) < 3 || len(line) > 50 {
			continue
		}
		if containsAnyFold(line, nameBoilerplate) {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) < 2 || len(tokens) > 5 {
			continue
		}
		ok := true
		for _, tok := range tokens {
			if !wordRe.MatchString(tok) {
				ok = false
				break
			}
		}
		if ok {
			return line
		}
	}
	for _, line := range top {
		if len(line) < 5 || len(line) > 50 {
			continue
		}
		if emailRe.MatchString(line) || isDigit(line[0]) {
			continue
		}
		if phoneLine(line) {
			continue
		}
		return line
	}
	return ""
}

func extractLocation(lines []string) string {
	for _, line := range topLines(lines, 10) {
		if containsDigit(line) || strings.Contains(line, "@") || len(line) > 50 {
			continue
		}
		if locationRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// section returns the lines following the first header matching one of
// headers, up to the next section boundary.
func (p *Parser) section(lines []string, headers []string) []string {
	start := -1
	for i, line := range lines {
		if line == "" || len(line) > maxHeaderLen {
			continue
		}
		if containsAnyFold(line, headers) {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return nil
	}
	var body []string
	for _, line := range lines[start:] {
		if isSectionBoundary(line) {
			break
		}
		body = append(body, line)
	}
	return body
}

// isSectionBoundary treats a short line starting with a known section
// keyword as the beginning of the next section. Body text that happens
// to start a short line with one of these words will misfire; this is a
// known limitation of the keyword approach.
func isSectionBoundary(line string) bool {
	if line == "" || len(line) > maxBoundaryLen {
		return false
	}
	lower := strings.ToLower(line)
	for _, w := range nextSectionWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}
	return false
}

func (p *Parser) extractSkills(text string, lines []string) []domain.Skill {
	lowerText := strings.ToLower(text)
	if body := p.section(lines, skillsHeaders); len(body) > 0 {
		tokens := splitTokens(body, maxSkills)
		if len(tokens) > 0 {
			out := make([]domain.Skill, 0, len(tokens))
			for _, tok := range tokens {
				out = append(out, domain.Skill{
					Name:     tok,
					Level:    evidenceLevel(lowerText, strings.ToLower(tok)),
					Category: p.categoryOf(tok),
				})
			}
			return out
		}
	}
	// No usable section: fall back to a vocabulary membership scan.
	var out []domain.Skill
	for _, vs := range p.skills {
		if countTerm(lowerText, vs.lower) == 0 {
			continue
		}
		out = append(out, domain.Skill{
			Name:     vs.name,
			Level:    evidenceLevel(lowerText, vs.lower),
			Category: vs.category,
		})
		if len(out) == maxSkills {
			break
		}
	}
	return out
}

func (p *Parser) categoryOf(name string) string {
	if cat, ok := p.skillCat[strings.ToLower(name)]; ok {
		return cat
	}
	return domain.SkillCategoryOther
}

// evidenceLevel maps how often a skill is mentioned to a proficiency
// default in [70,100]: one mention scores 70, each further mention adds
// five points. A coarse evidence weight, not a real assessment.
func evidenceLevel(lowerText, lowerTerm string) int {
	n := countTerm(lowerText, lowerTerm)
	if n < 1 {
		n = 1
	}
	level := 70 + 5*(n-1)
	if level > 100 {
		level = 100
	}
	return level
}

func (p *Parser) extractExperience(lines []string) []domain.Experience {
	body := p.section(lines, experienceHeaders)
	var out []domain.Experience
	for _, chunk := range splitChunks(body) {
		var exp domain.Experience
		dateIdx := -1
		for i := 0; i < len(chunk) && i < 3; i++ {
			if isDateLine(chunk[i]) {
				exp.StartDate, exp.EndDate = parseDateRange(chunk[i])
				dateIdx = i
				break
			}
		}
		var desc []string
		assigned := 0
		for i, line := range chunk {
			if i == dateIdx {
				continue
			}
			if bulletRe.MatchString(line) {
				exp.Achievements = append(exp.Achievements, strings.TrimSpace(bulletRe.ReplaceAllString(line, "")))
				continue
			}
			switch assigned {
			case 0:
				exp.Position = line
				assigned++
			case 1:
				exp.Company = line
				assigned++
			default:
				desc = append(desc, line)
			}
		}
		exp.Description = strings.Join(desc, " ")
		if exp.Position != "" || exp.Company != "" {
			out = append(out, exp)
		}
	}
	return out
}

func isDateLine(line string) bool {
	if !yearRe.MatchString(line) {
		return false
	}
	lower := strings.ToLower(line)
	return strings.ContainsAny(line, "-–—") ||
		strings.Contains(lower, " to ") ||
		presentRe.MatchString(lower)
}

func parseDateRange(line string) (string, string) {
	parts := dateSplitRe.Split(line, 2)
	start := strings.TrimSpace(parts[0])
	end := ""
	if len(parts) > 1 {
		end = strings.TrimSpace(parts[1])
	}
	if presentRe.MatchString(line) {
		end = "Present"
	}
	return start, end
}

func (p *Parser) extractEducation(lines []string) []domain.Education {
	body := p.section(lines, educationHeaders)
	var out []domain.Education
	for _, line := range body {
		if len(line) < 10 {
			continue
		}
		year := yearRe.FindString(line)
		hasDegree := containsAnyFold(line, p.degrees)
		if year == "" && !hasDegree {
			continue
		}
		var edu domain.Education
		edu.Year = year
		rest := line
		if m := degreeRe.FindString(line); m != "" {
			phrase := strings.TrimSpace(m)
			if idx := strings.Index(strings.ToLower(phrase), " in "); idx >= 0 {
				edu.Degree = strings.TrimSpace(phrase[:idx])
				edu.Field = strings.TrimSpace(phrase[idx+4:])
			} else {
				edu.Degree = phrase
			}
			rest = strings.Replace(rest, m, "", 1)
		}
		if g := gpaRe.FindStringSubmatch(line); g != nil {
			edu.GPA = g[1]
			rest = strings.Replace(rest, g[0], "", 1)
		}
		if year != "" {
			rest = strings.Replace(rest, year, "", 1)
		}
		edu.Institution = strings.Trim(textx.CollapseSpaces(rest), ",.-–—| ")
		out = append(out, edu)
	}
	return out
}

func (p *Parser) extractCertifications(lines []string) []domain.Certification {
	body := p.section(lines, certHeaders)
	tokens := splitTokens(body, maxCertifications)
	out := make([]domain.Certification, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, domain.Certification{Name: tok})
	}
	return out
}

// extractLanguages reads the languages section and keeps tokens whose
// name matches the known language vocabulary, normalizing to the
// vocabulary spelling. "English (Fluent)" and "English: Fluent" carry
// their proficiency along.
func (p *Parser) extractLanguages(lines []string) []domain.Language {
	body := p.section(lines, langHeaders)
	var out []domain.Language
	for _, tok := range splitTokens(body, maxLanguages*2) {
		name, prof := splitProficiency(tok)
		canon := p.canonicalLanguage(name)
		if canon == "" {
			continue
		}
		out = append(out, domain.Language{Name: canon, Proficiency: prof})
		if len(out) == maxLanguages {
			break
		}
	}
	return out
}

func splitProficiency(tok string) (string, string) {
	if open := strings.Index(tok, "("); open >= 0 {
		name := strings.TrimSpace(tok[:open])
		prof := strings.Trim(tok[open:], "() ")
		return name, prof
	}
	if idx := strings.Index(tok, ":"); idx >= 0 {
		return strings.TrimSpace(tok[:idx]), strings.TrimSpace(tok[idx+1:])
	}
	return tok, ""
}

func (p *Parser) canonicalLanguage(name string) string {
	for _, l := range p.languages {
		if strings.EqualFold(l, name) {
			return l
		}
	}
	return ""
}

func (p *Parser) extractSummary(text string, lines []string, skills []domain.Skill, exps []domain.Experience) string {
	if body := p.section(lines, summaryHeaders); len(body) > 0 {
		var picked []string
		for _, line := range body {
			if len(line) <= 20 || strings.Contains(line, "@") {
				continue
			}
			if isDigit(line[0]) {
				continue
			}
			picked = append(picked, line)
			if len(picked) == 3 {
				break
			}
		}
		if len(picked) > 0 {
			return truncate(strings.Join(picked, " "), maxSummaryLen)
		}
	}
	if len(skills) > 0 {
		names := make([]string, 0, 3)
		for _, s := range skills {
			names = append(names, s.Name)
			if len(names) == 3 {
				break
			}
		}
		summary := "Professional with experience in " + strings.Join(names, ", ") + "."
		if n := len(exps); n == 1 {
			summary += " Background covers 1 prior role."
		} else if n > 1 {
			summary += fmt.Sprintf(" Background covers %d prior roles.", n)
		}
		return truncate(summary, maxSummaryLen)
	}
	// Low-confidence fallback: stitch together real words from the body.
	var words []string
	for _, w := range strings.Fields(text) {
		if len(w) <= 3 || strings.Contains(w, "@") || numericRe.MatchString(w) {
			continue
		}
		words = append(words, w)
		if len(words) == 45 {
			break
		}
	}
	if len(words) > 5 {
		return truncate(strings.Join(words[5:], " "), maxSummaryLen)
	}
	return ""
}

// splitTokens splits section lines on the delimiter set, trims
// punctuation, drops implausible tokens, and deduplicates preserving
// first-seen order.
func splitTokens(body []string, limit int) []string {
	if len(body) == 0 {
		return nil
	}
	joined := strings.Join(body, "\n")
	seen := make(map[string]bool)
	var out []string
	for _, part := range tokenSplitRe.Split(joined, -1) {
		tok := strings.Trim(strings.TrimSpace(part), "-•*·. \t")
		if tok == "" || len(tok) > 50 || numericRe.MatchString(tok) {
			continue
		}
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tok)
		if len(out) == limit {
			break
		}
	}
	return out
}

func splitChunks(body []string) [][]string {
	var chunks [][]string
	var cur []string
	for _, line := range body {
		if line == "" {
			if len(cur) > 0 {
				chunks = append(chunks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

// countTerm counts boundary-delimited occurrences of term in lowerText.
func countTerm(lowerText, term string) int {
	if term == "" {
		return 0
	}
	n := 0
	for idx := 0; ; {
		j := strings.Index(lowerText[idx:], term)
		if j < 0 {
			break
		}
		pos := idx + j
		end := pos + len(term)
		if (pos == 0 || !isAlnum(lowerText[pos-1])) && (end >= len(lowerText) || !isAlnum(lowerText[end])) {
			n++
		}
		idx = end
	}
	return n
}

func topLines(lines []string, n int) []string {
	var out []string
	for _, line := range lines {
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func containsAnyFold(line string, words []string) bool {
	lower := strings.ToLower(line)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func phoneLine(line string) bool {
	for _, re := range phoneRes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max])
}
