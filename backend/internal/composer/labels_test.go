package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLabels(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Pair
	}{
		{
			name: "chinese labels",
			raw:  "背景提示语: warm sunset\n文字排版提示语: serif caps",
			want: Pair{Background: "warm sunset", Typography: "serif caps"},
		},
		{
			name: "full width colon and ideographic space",
			raw:  "背景提示语　：海边黄昏\n文字排版提示语：粗体标题",
			want: Pair{Background: "海边黄昏", Typography: "粗体标题"},
		},
		{
			name: "english prompt labels, case insensitive",
			raw:  "Background Prompt：a foggy pier\nTYPOGRAPHY PROMPT: condensed grotesk",
			want: Pair{Background: "a foggy pier", Typography: "condensed grotesk"},
		},
		{
			name: "short labels",
			raw:  "bg: sea\ntypo: bold",
			want: Pair{Background: "sea", Typography: "bold"},
		},
		{
			name: "text layout label",
			raw:  "Background: dunes\nText Layout: stacked caps",
			want: Pair{Background: "dunes", Typography: "stacked caps"},
		},
		{
			name: "fields found by different label pairs",
			raw:  "背景提示语: A\nTypography: B",
			want: Pair{Background: "A", Typography: "B"},
		},
		{
			name: "higher priority label is not overwritten",
			raw:  "bg: low\n背景提示语: high\ntypo: t",
			want: Pair{Background: "high", Typography: "t"},
		},
		{
			name: "labels beat numbered list",
			raw:  "1) numbered bg\n2) numbered typo\n背景提示语: label bg\n文字排版提示语: label typo",
			want: Pair{Background: "label bg", Typography: "label typo"},
		},
		{
			name: "numbered list",
			raw:  "Sure!\n1) ocean at dawn\n2. bold serif\n3: extra",
			want: Pair{Background: "ocean at dawn", Typography: "bold serif"},
		},
		{
			name: "single label degrades to positional lines",
			raw:  "背景提示语: A\nsomething else",
			want: Pair{Background: "背景提示语: A", Typography: "something else"},
		},
		{
			name: "first two lines",
			raw:  "first line\n\n   second line  \nthird",
			want: Pair{Background: "first line", Typography: "second line"},
		},
		{
			name: "crlf",
			raw:  "a\r\nb\r\n",
			want: Pair{Background: "a", Typography: "b"},
		},
		{
			name: "one line",
			raw:  "just one line",
			want: Pair{Background: "just one line"},
		},
		{
			name: "empty",
			raw:  "",
			want: Pair{},
		},
		{
			name: "whitespace only",
			raw:  " \n\t\n  ",
			want: Pair{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractLabels(tt.raw))
		})
	}
}

func TestSplitLines(t *testing.T) {
	lines := splitLines("  a  \r\n\n b \v c\u2028d")

	assert.Equal(t, []string{"a", "b", "c", "d"}, lines)
}

func TestFirstLabeled_EmptyValue(t *testing.T) {
	// A matching line with nothing after the colon still counts as the match.
	lines := []string{"bg:", "bg: later"}

	got := firstLabeled(lines, labelPattern("bg"))

	assert.Equal(t, "", got)
}
