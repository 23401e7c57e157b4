package composer

import (
	"strings"

	"visiostar-nodes/backend/internal/adapter"
	"visiostar-nodes/backend/internal/constants"
)

// BuildMessages assembles the chat messages for a request. The JSON hint
// asks for {"bg", "typo"}; the label hint asks for the two bilingual labeled
// lines the fallback extractor understands.
func (t *Templates) BuildMessages(req Request) []adapter.Message {
	hints, ok := t.Languages[req.Language]
	if !ok {
		hints = t.Languages[constants.LanguageCodeEnglish]
	}

	inputs := strings.NewReplacer("{topic}", req.Topic, "{title}", req.Title).Replace(hints.Inputs)
	content := inputs + "\n" + hints.LabelHint
	if req.FormatMode == constants.FormatModeAutoJSONFirst {
		content = hints.JSONHint + inputs + "\n" + hints.LabelHint
	}

	instruction := req.Instruction
	if strings.TrimSpace(instruction) == "" {
		instruction = t.DefaultInstruction
	}

	if req.UseSystemRole {
		return []adapter.Message{
			{Role: adapter.RoleSystem, Content: instruction},
			{Role: adapter.RoleUser, Content: content},
		}
	}
	return []adapter.Message{
		{Role: adapter.RoleUser, Content: strings.TrimSpace(instruction) + "\n\n" + content},
	}
}

// BuildMessages uses the embedded templates
func BuildMessages(req Request) []adapter.Message {
	return defaultTemplates.BuildMessages(req)
}
