package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/resume-parser/internal/domain"
)

func pdfDoc(body string) domain.RawDocument {
	return domain.RawDocument{Content: []byte(body), MediaType: domain.MIMEPDF, Size: int64(len(body))}
}

func TestExtractPDFKeepsTextDropsStructure(t *testing.T) {
	body := strings.Join([]string{
		"%PDF-1.4",
		"1 0 obj",
		"<< /Length 44 >>",
		"stream",
		"John Doe Senior Software Engineer with ten years of experience",
		"building distributed systems in Go and Python for cloud platforms",
		"endstream",
		"endobj",
		"xref",
		"trailer",
		"%%EOF",
	}, "\n")

	got, err := New().Extract(context.Background(), pdfDoc(body))
	require.NoError(t, err)
	assert.Contains(t, got, "John Doe Senior Software Engineer")
	assert.NotContains(t, got, "%PDF")
	assert.NotContains(t, got, "stream")
	assert.NotContains(t, got, "xref")
	assert.NotContains(t, got, "trailer")
}

func TestExtractPDFBelowFloorFails(t *testing.T) {
	// Structural lines only; nothing readable survives filtering.
	body := "%PDF-1.4\n1 0 obj\nstream\nendstream\nendobj\nxref\ntrailer"
	_, err := New().Extract(context.Background(), pdfDoc(body))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}

func TestExtractPDFShortReadableTextFails(t *testing.T) {
	body := "%PDF-1.4\nJohn Doe curriculum vitae\n%%EOF"
	_, err := New().Extract(context.Background(), pdfDoc(body))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}

func TestExtractPDFDropsNumericAndShortLines(t *testing.T) {
	body := strings.Join([]string{
		"0 12 345",
		"ab",
		"An experienced platform engineer who designs and operates large",
		"scale Kubernetes clusters with strong observability practices in place",
	}, "\n")
	got, err := New().Extract(context.Background(), pdfDoc(body))
	require.NoError(t, err)
	assert.NotContains(t, got, "345")
	assert.NotContains(t, got, "ab\n")
}

func TestExtractWordDecodesPlainText(t *testing.T) {
	body := "Jane Smith\nProduct Designer\nSkills: Figma, Sketch, Prototyping"
	doc := domain.RawDocument{Content: []byte(body), MediaType: domain.MIMEWordX, Size: int64(len(body))}
	got, err := New().Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, got, "Jane Smith")
	assert.Contains(t, got, "Figma")
}

func TestExtractWordBelowFloorFails(t *testing.T) {
	doc := domain.RawDocument{Content: []byte("\x00\x01\x02 short"), MediaType: domain.MIMEWord, Size: 9}
	_, err := New().Extract(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtraction))
}

func TestExtractOtherTypeUsesLowFloor(t *testing.T) {
	body := "plain resume text"
	doc := domain.RawDocument{Content: []byte(body), MediaType: "text/plain", Size: int64(len(body))}
	got, err := New().Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, "plain resume text", got)
}

func TestExtractPreservesLineStructure(t *testing.T) {
	body := strings.Join([]string{
		"Jane Smith jane@example.com experienced product designer with strong",
		"visual design skills and a decade of shipped consumer products",
		"",
		"Skills",
		"Figma, Sketch, Prototyping",
	}, "\n")
	doc := domain.RawDocument{Content: []byte(body), MediaType: domain.MIMEWordX, Size: int64(len(body))}
	got, err := New().Extract(context.Background(), doc)
	require.NoError(t, err)
	assert.Contains(t, got, "\nSkills\n")
}
