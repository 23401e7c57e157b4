package composer

import (
	"regexp"
	"strings"
)

// labelPair is one (background, typography) label alternative. Each pattern
// is anchored at line start and must be followed by an ASCII or full-width
// colon.
type labelPair struct {
	background *regexp.Regexp
	typography *regexp.Regexp
}

func newLabelPair(background, typography string) labelPair {
	return labelPair{
		background: labelPattern(background),
		typography: labelPattern(typography),
	}
}

// \p{Zs} covers the ideographic space that shows up in Chinese answers.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^(?:` + label + `)[\s\p{Zs}]*[:：]`)
}

// labelSet is ordered from most to least specific.
var labelSet = []labelPair{
	newLabelPair(`背景提示语`, `文字排版提示语`),
	newLabelPair(`背景`, `排版`),
	newLabelPair(`background[\s\p{Zs}]*prompt`, `(?:typography|text[\s\p{Zs}]*layout)[\s\p{Zs}]*prompt`),
	newLabelPair(`background`, `typography|text[\s\p{Zs}]*layout|title[\s\p{Zs}]*layout`),
	newLabelPair(`bg`, `typo|typography`),
}

var numberedLine = regexp.MustCompile(`^[\s\p{Zs}]*\p{Nd}+[).：:][\s\p{Zs}]*`)

// ExtractLabels recovers the pair from line heuristics: bilingual labels
// first, then a numbered list, then the first two lines. It never fails;
// with no usable text both fields are empty.
func ExtractLabels(raw string) Pair {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return Pair{}
	}

	var bg, ty string
	for _, lp := range labelSet {
		mBg := firstLabeled(lines, lp.background)
		mTy := firstLabeled(lines, lp.typography)
		if mBg == "" && mTy == "" {
			continue
		}
		if bg == "" {
			bg = mBg
		}
		if ty == "" {
			ty = mTy
		}
		if bg != "" && ty != "" {
			return Pair{Background: bg, Typography: ty}
		}
	}

	var numbered []string
	for _, line := range lines {
		if numberedLine.MatchString(line) {
			numbered = append(numbered, strings.TrimSpace(numberedLine.ReplaceAllString(line, "")))
		}
	}
	if len(numbered) >= 2 {
		return Pair{Background: numbered[0], Typography: numbered[1]}
	}

	if len(lines) >= 2 {
		return Pair{Background: lines[0], Typography: lines[1]}
	}
	return Pair{Background: lines[0]}
}

// firstLabeled returns the text after the colon on the first line matching
// the label, or "" when no line matches.
func firstLabeled(lines []string, label *regexp.Regexp) string {
	for _, line := range lines {
		if !label.MatchString(line) {
			continue
		}
		idx := colonIndex(line)
		return strings.TrimSpace(line[idx+colonWidth(line[idx:]):])
	}
	return ""
}

// splitLines returns the trimmed, non-empty lines of s. Every Unicode line
// boundary counts, not just '\n'.
func splitLines(s string) []string {
	fields := strings.FieldsFunc(s, isLineBreak)
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// colonIndex is the byte offset of the first ':' or '：' in s, or -1.
func colonIndex(s string) int {
	return strings.IndexAny(s, ":：")
}

func colonWidth(s string) int {
	if strings.HasPrefix(s, "：") {
		return len("：")
	}
	return 1
}
