package composer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Pair is a background/typography prompt pair; either side may be empty.
type Pair struct {
	Background string
	Typography string
}

// Outcome is the result of one extraction attempt: Found with a pair, or
// NotFound.
type Outcome struct {
	Found bool
	Pair  Pair
}

// NotFound is the outcome of an extraction that recovered nothing
var NotFound = Outcome{}

// Found wraps a recovered pair
func Found(p Pair) Outcome {
	return Outcome{Found: true, Pair: p}
}

// Alias tables, checked in order; the first key holding a non-empty value wins.
var (
	backgroundKeys = []string{"bg", "background", "background_prompt"}
	typographyKeys = []string{"typo", "typography", "typography_prompt", "text_layout"}
)

var fencedBlock = regexp.MustCompile("(?i)```(?:json)?\\s*([\\s\\S]+?)```")

// ExtractStructured looks for a JSON object (or key: value lines) in raw and
// resolves the two fields through the alias tables. A parsed object where
// neither field resolves is NotFound.
func ExtractStructured(raw string) Outcome {
	obj, ok := extractObject(raw)
	if !ok {
		return NotFound
	}

	pair := Pair{
		Background: strings.TrimSpace(resolveField(obj, backgroundKeys)),
		Typography: strings.TrimSpace(resolveField(obj, typographyKeys)),
	}
	if pair.Background == "" && pair.Typography == "" {
		return NotFound
	}
	return Found(pair)
}

// extractObject tries, in order: a fenced block, the outermost {...} region,
// then key/value lines. A fenced block that fails to parse falls through; a
// brace region that fails to parse ends the search.
func extractObject(raw string) (map[string]any, bool) {
	if raw == "" {
		return nil, false
	}

	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		if obj, ok := parseObject(strings.TrimSpace(m[1])); ok {
			return obj, true
		}
	}

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			return parseObject(raw[start : end+1])
		}
	}

	return keyValueLines(raw)
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// keyValueLines splits each line on its first ASCII or full-width colon.
// Keys are lower-cased; a repeated key keeps its last value.
func keyValueLines(raw string) (map[string]any, bool) {
	obj := make(map[string]any)
	for _, line := range splitLines(raw) {
		idx := colonIndex(line)
		if idx < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		obj[key] = strings.TrimSpace(line[idx+colonWidth(line[idx:]):])
	}
	if len(obj) == 0 {
		return nil, false
	}
	return obj, true
}

// resolveField returns the first alias value that is present and non-empty.
// Non-string JSON values are rendered as text.
func resolveField(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if s := valueString(obj[key]); s != "" {
			return s
		}
	}
	return ""
}

func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	case float64:
		if val == 0 {
			return ""
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		if len(val) == 0 {
			return ""
		}
	case map[string]any:
		if len(val) == 0 {
			return ""
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
