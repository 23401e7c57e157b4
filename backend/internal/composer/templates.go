package composer

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// LanguageHints is the instructed wording for one label language
type LanguageHints struct {
	JSONHint  string `yaml:"json_hint"`
	Inputs    string `yaml:"inputs"`
	LabelHint string `yaml:"label_hint"`
}

// Templates is the request wording used by the message builder and the
// random diversifier.
type Templates struct {
	DefaultInstruction string                   `yaml:"default_instruction"`
	Languages          map[string]LanguageHints `yaml:"languages"`
	Diversification    struct {
		Styles     []string `yaml:"styles"`
		Approaches []string `yaml:"approaches"`
	} `yaml:"diversification"`
}

// ParseTemplates decodes and checks a templates document
func ParseTemplates(data []byte) (*Templates, error) {
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if t.DefaultInstruction == "" {
		return nil, fmt.Errorf("templates: default_instruction is empty")
	}
	for lang, hints := range t.Languages {
		if hints.JSONHint == "" || hints.Inputs == "" || hints.LabelHint == "" {
			return nil, fmt.Errorf("templates: language %q is missing a hint", lang)
		}
	}
	return &t, nil
}

// DefaultTemplates returns the embedded templates
func DefaultTemplates() *Templates {
	return defaultTemplates
}

var defaultTemplates = mustParseTemplates(templatesYAML)

func mustParseTemplates(data []byte) *Templates {
	t, err := ParseTemplates(data)
	if err != nil {
		panic(err)
	}
	return t
}
