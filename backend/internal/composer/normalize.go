package composer

import (
	"fmt"

	"go.uber.org/zap"

	"visiostar-nodes/backend/internal/constants"
	"visiostar-nodes/backend/pkg/logger"
)

// Source names the stage that produced a Result
type Source string

const (
	SourceStructured Source = "structured"
	SourceLabels     Source = "labels"
	SourceError      Source = "error"
)

// Field names used in diagnostic placeholders
const (
	FieldBackground = "background"
	FieldTypography = "typography"
)

// Result is the composer's output: two strings that are always set.
// Missing lists the fields replaced by a diagnostic placeholder.
type Result struct {
	Background string   `json:"bg_prompt" yaml:"bg_prompt"`
	Typography string   `json:"typo_prompt" yaml:"typo_prompt"`
	Source     Source   `json:"source" yaml:"source"`
	Missing    []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	Seed       *int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// Normalize turns a raw model answer into a Result. In auto_json_first mode
// a structured result with at least one field wins outright; otherwise the
// label heuristics decide. Empty fields become diagnostic placeholders.
// Normalize holds no state and is safe for concurrent use.
func Normalize(raw, formatMode string) Result {
	log := logger.Get()

	pair, source := Pair{}, SourceLabels
	if formatMode == constants.FormatModeAutoJSONFirst {
		if out := ExtractStructured(raw); out.Found {
			pair, source = out.Pair, SourceStructured
		}
	}
	if source == SourceLabels {
		pair = ExtractLabels(raw)
	}

	result := Result{Background: pair.Background, Typography: pair.Typography, Source: source}
	if result.Background == "" {
		result.Background = Diagnostic(FieldBackground, raw)
		result.Missing = append(result.Missing, FieldBackground)
	}
	if result.Typography == "" {
		result.Typography = Diagnostic(FieldTypography, raw)
		result.Missing = append(result.Missing, FieldTypography)
	}

	if len(result.Missing) > 0 {
		log.Warn("Composer fields not recovered",
			zap.String("source", string(source)),
			zap.Strings("missing", result.Missing),
			zap.String("raw_preview", truncateRunes(raw, 120)),
		)
	} else {
		log.Debug("Composer fields recovered", zap.String("source", string(source)))
	}

	return result
}

// Diagnostic builds the placeholder for a field that could not be recovered
func Diagnostic(field, raw string) string {
	return fmt.Sprintf("%s%s | RAW: %s", constants.ParseErrorMarker, field, truncateRunes(raw, constants.RawPreviewLimit))
}

// truncateRunes keeps at most n characters of s
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
