package parser

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/talentsift/resume-parser/internal/domain"
)

//go:embed vocab.yaml
var vocabYAML []byte

// vocabulary is the static keyword inventory backing the fallback
// extraction paths: skill terms grouped by category, spoken-language
// names, and degree keywords.
type vocabulary struct {
	Skills    map[string][]string `yaml:"skills"`
	Languages []string            `yaml:"languages"`
	Degrees   []string            `yaml:"degrees"`
}

func loadVocabulary() (*vocabulary, error) {
	var v vocabulary
	if err := yaml.Unmarshal(vocabYAML, &v); err != nil {
		return nil, fmt.Errorf("op=parser.vocab: %w", err)
	}
	if len(v.Skills) == 0 || len(v.Degrees) == 0 {
		return nil, fmt.Errorf("op=parser.vocab: empty vocabulary")
	}
	return &v, nil
}

// categoryFor maps a yaml category key to its canonical value.
func categoryFor(key string) string {
	switch key {
	case "technical":
		return domain.SkillCategoryTechnical
	case "design":
		return domain.SkillCategoryDesign
	case "cloud":
		return domain.SkillCategoryCloud
	default:
		return domain.SkillCategoryOther
	}
}
