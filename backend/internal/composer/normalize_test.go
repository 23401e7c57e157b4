package composer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visiostar-nodes/backend/internal/constants"
)

const autoMode = constants.FormatModeAutoJSONFirst

func TestNormalize_BareJSON(t *testing.T) {
	got := Normalize(`{"bg": "sea", "typo": "bold title"}`, autoMode)

	assert.Equal(t, "sea", got.Background)
	assert.Equal(t, "bold title", got.Typography)
	assert.Equal(t, SourceStructured, got.Source)
	assert.Empty(t, got.Missing)
}

func TestNormalize_FencedJSONWithProse(t *testing.T) {
	raw := "Sure, here it is.\n```json\n{\n  \"bg\": \"  golden hour harbor, film grain \",\n  \"typo\": \"SUMMER TIDES in wide serif caps\"\n}\n```\nLet me know!"

	got := Normalize(raw, autoMode)

	assert.Equal(t, "golden hour harbor, film grain", got.Background)
	assert.Equal(t, "SUMMER TIDES in wide serif caps", got.Typography)
}

func TestNormalize_ChineseLabels(t *testing.T) {
	got := Normalize("背景提示语: warm sunset\n文字排版提示语: serif caps", autoMode)

	assert.Equal(t, "warm sunset", got.Background)
	assert.Equal(t, "serif caps", got.Typography)
	assert.Equal(t, SourceLabels, got.Source)
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize("", autoMode)

	assert.Equal(t, "ParseError: missing background | RAW: ", got.Background)
	assert.Equal(t, "ParseError: missing typography | RAW: ", got.Typography)
	assert.Equal(t, []string{FieldBackground, FieldTypography}, got.Missing)
}

func TestNormalize_SingleLine(t *testing.T) {
	got := Normalize("just one line", autoMode)

	assert.Equal(t, "just one line", got.Background)
	assert.Equal(t, "ParseError: missing typography | RAW: just one line", got.Typography)
	assert.Equal(t, []string{FieldTypography}, got.Missing)
}

func TestNormalize_TruncatesRawPreview(t *testing.T) {
	raw := strings.Repeat("字", 600)

	got := Normalize(raw, autoMode)

	prefix := constants.ParseErrorMarker + FieldTypography + " | RAW: "
	require.True(t, strings.HasPrefix(got.Typography, prefix))
	tail := strings.TrimPrefix(got.Typography, prefix)
	assert.Equal(t, constants.RawPreviewLimit, utf8.RuneCountInString(tail))
	assert.Equal(t, raw, got.Background)
}

func TestNormalize_PartialStructuredIsNotMixedWithLabels(t *testing.T) {
	raw := "{\"bg\": \"sea\"}\n文字排版提示语: serif"

	got := Normalize(raw, autoMode)

	assert.Equal(t, SourceStructured, got.Source)
	assert.Equal(t, "sea", got.Background)
	assert.True(t, strings.HasPrefix(got.Typography, constants.ParseErrorMarker+FieldTypography))
	assert.Equal(t, []string{FieldTypography}, got.Missing)
}

func TestNormalize_BlankStructuredFallsBackToLabels(t *testing.T) {
	raw := "{\"bg\": \"  \", \"typo\": \"\"}\nbg: from label\ntypo: label typo"

	got := Normalize(raw, autoMode)

	assert.Equal(t, SourceLabels, got.Source)
	assert.Equal(t, "from label", got.Background)
	assert.Equal(t, "label typo", got.Typography)
}

func TestNormalize_LabelsOnlySkipsJSON(t *testing.T) {
	raw := "{\"bg\": \"sea\", \"typo\": \"bold\"}"

	got := Normalize(raw, constants.FormatModeLabelsOnly)

	assert.Equal(t, SourceLabels, got.Source)
	assert.Equal(t, raw, got.Background)
	assert.Equal(t, []string{FieldTypography}, got.Missing)
}

func TestNormalize_StructuredFailureMatchesLabelPath(t *testing.T) {
	inputs := []string{
		"背景提示语: warm sunset\n文字排版提示语: serif caps",
		"1) ocean\n2) bold",
		"first\nsecond",
		"bg: x\ntypo: {not json}",
		"```json\n{oops}\n```",
		"no structure at all",
		"",
	}

	for _, raw := range inputs {
		require.False(t, ExtractStructured(raw).Found, raw)

		auto := Normalize(raw, autoMode)
		labels := Normalize(raw, constants.FormatModeLabelsOnly)

		assert.Equal(t, labels, auto, raw)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		`{"bg": "sea", "typo": "bold title"}`,
		"背景: 雾\n排版: 细体",
		"one",
		"",
	}

	for _, raw := range inputs {
		assert.Equal(t, Normalize(raw, autoMode), Normalize(raw, autoMode), raw)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "", truncateRunes("", 3))
	assert.Equal(t, "ab", truncateRunes("ab", 3))
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	assert.Equal(t, "背景提", truncateRunes("背景提示语", 3))
}
