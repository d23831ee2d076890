// Package textx contains tests for the text utilities.
package textx

import "testing"

func TestSanitizeText(t *testing.T) {
	in := "he\x00llo\nwo\x7frld\t!"
	got := SanitizeText(in)
	if got != "hello\nworld\t!" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestStripNonPrintable(t *testing.T) {
	in := "a\x01b\nc\x7fd"
	got := StripNonPrintable(in)
	if got != "a b\nc d" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("  a \t b\n\nc  "); got != "a b c" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestNormalizeLines(t *testing.T) {
	in := "John  Doe \n\n\n\nSkills:\n  Go,   Python  \n"
	want := "John Doe\n\nSkills:\nGo, Python"
	if got := NormalizeLines(in); got != want {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestHasLetter(t *testing.T) {
	if HasLetter("1234 %%") {
		t.Fatal("digits should not count as letters")
	}
	if !HasLetter("12a4") {
		t.Fatal("expected letter to be found")
	}
}
