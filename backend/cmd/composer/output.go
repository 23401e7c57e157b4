package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"visiostar-nodes/backend/internal/composer"
	"visiostar-nodes/backend/internal/promptlist"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// writeOutput renders v in the chosen format. text is the plain form: one
// value per line.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case outputText:
		return writeText(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeText(w io.Writer, v any) error {
	var err error
	switch val := v.(type) {
	case composer.Result:
		_, err = fmt.Fprintf(w, "%s\n%s\n", val.Background, val.Typography)
	case promptlist.List:
		for _, p := range val.Prompts {
			if _, err = fmt.Fprintln(w, p); err != nil {
				return err
			}
		}
	default:
		_, err = fmt.Fprintln(w, val)
	}
	return err
}
