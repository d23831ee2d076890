// Package textx provides small text utilities used across the project.
package textx

import "strings"

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// StripNonPrintable replaces every byte outside the printable ASCII range
// (keeping newlines) with a space. Binary document streams decode into
// long runs of such bytes; turning them into spaces lets the whitespace
// collapse pass drop them.
func StripNonPrintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || (r >= 32 && r <= 126) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// CollapseSpaces folds any run of whitespace into a single space and trims.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeLines collapses space runs within each line while preserving
// the line structure the section parser depends on. Lines that become
// empty are kept as blank separators but runs of blanks fold to one.
func NormalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = CollapseSpaces(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// HasLetter reports whether s contains at least one ASCII letter.
func HasLetter(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
