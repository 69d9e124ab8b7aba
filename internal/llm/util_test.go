package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"weeks\": []}\n```",
			expected: `{"weeks": []}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"weeks\": []}\n```",
			expected: `{"weeks": []}`,
		},
		{
			name:     "code block with other language tag",
			input:    "```javascript\n{\"items\": []}\n```",
			expected: `{"items": []}`,
		},
		{
			name:     "plain JSON",
			input:    `{"experience_match_score": 70}`,
			expected: `{"experience_match_score": 70}`,
		},
		{
			name:     "preamble before object",
			input:    "Here is the analysis:\n{\"summary\": \"Strong backend fit\"}",
			expected: `{"summary": "Strong backend fit"}`,
		},
		{
			name:     "preamble before array",
			input:    "Videos:\n[\"rfscVS0vtbw\", \"UmnCZ7-9yDY\"]",
			expected: `["rfscVS0vtbw", "UmnCZ7-9yDY"]`,
		},
		{
			name:     "trailing chatter",
			input:    "{\"items\": [1]}\n\nLet me know if you want more weeks!",
			expected: `{"items": [1]}`,
		},
		{
			name:     "fence after preamble",
			input:    "Sure.\n```json\n{\"a\": {\"b\": 1}}\n```",
			expected: `{"a": {"b": 1}}`,
		},
		{
			name:     "braces and escaped quotes inside strings",
			input:    `Result: {"title": "Use {braces} and \"quotes\""}`,
			expected: `{"title": "Use {braces} and \"quotes\""}`,
		},
		{
			name:     "unterminated object left for the parser",
			input:    `{"weeks": [`,
			expected: `{"weeks": [`,
		},
		{
			name:     "no JSON at all",
			input:    "  model refused  ",
			expected: "model refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"k": [1, 2]}`, extractJSONObject(`{"k": [1, 2]} tail`))
	assert.Equal(t, `[[1], [2]]`, extractJSONArray(`[[1], [2]] tail`))
	assert.Equal(t, "", extractJSONObject("not json"))
	assert.Equal(t, "", extractJSONArray(`{"k": 1}`))
	assert.Equal(t, "", extractJSONObject(""))
}
