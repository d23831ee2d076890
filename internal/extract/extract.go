// Package extract derives best-effort plain text from uploaded resume
// documents without structural format parsing. Binary or compressed
// streams that yield no readable text are reported as extraction
// failures for the upload rather than crashing the pipeline.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/talentsift/resume-parser/internal/domain"
	"github.com/talentsift/resume-parser/pkg/textx"
)

// Plausibility floors for the decoded text, per media type.
const (
	minPDFChars   = 100
	minWordChars  = 50
	minOtherChars = 10
)

// pdfMarkers are structural tokens of the PDF format; lines carrying them
// are container syntax, not document text.
var pdfMarkers = []string{"%PDF", "obj", "endobj", "stream", "endstream", "xref", "trailer"}

// Extractor implements domain.TextExtractor by decoding raw bytes as text.
type Extractor struct{}

// New constructs an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract returns the cleaned plain text of doc or domain.ErrExtraction
// when the decoded text falls below the plausibility floor for its type.
func (e *Extractor) Extract(_ context.Context, doc domain.RawDocument) (string, error) {
	switch doc.MediaType {
	case domain.MIMEPDF:
		return e.extractPDF(doc.Content)
	case domain.MIMEWord, domain.MIMEWordX:
		return e.decodePlain(doc.Content, minWordChars)
	default:
		return e.decodePlain(doc.Content, minOtherChars)
	}
}

// extractPDF decodes the byte stream as text and keeps the lines that
// look like document content: non-empty, free of PDF structural markers,
// holding at least one letter, and longer than a couple of characters.
func (e *Extractor) extractPDF(content []byte) (string, error) {
	raw := string(content)
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) <= 2 {
			continue
		}
		if containsMarker(trimmed) {
			continue
		}
		if !textx.HasLetter(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	text := textx.NormalizeLines(textx.StripNonPrintable(strings.Join(kept, "\n")))
	if len(text) <= minPDFChars {
		return "", fmt.Errorf("op=extract.pdf: %w: decoded %d readable chars", domain.ErrExtraction, len(text))
	}
	return text, nil
}

func (e *Extractor) decodePlain(content []byte, min int) (string, error) {
	text := textx.SanitizeText(textx.StripNonPrintable(string(content)))
	text = textx.NormalizeLines(text)
	if len(text) <= min {
		return "", fmt.Errorf("op=extract.decode: %w: decoded %d readable chars", domain.ErrExtraction, len(text))
	}
	return text, nil
}

func containsMarker(line string) bool {
	for _, m := range pdfMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}
