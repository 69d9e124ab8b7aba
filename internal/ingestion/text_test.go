package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: "   \n  \n  ", want: ""},
		{name: "collapses spaces", input: "Line    with \t multiple    spaces", want: "Line with multiple spaces"},
		{name: "line endings", input: "Line 1\r\nLine 2\rLine 3", want: "Line 1\nLine 2\nLine 3"},
		{name: "blank lines", input: "Line 1\n\n\n\n\nLine 2", want: "Line 1\n\nLine 2"},
		{name: "bullet indent kept", input: "Skills\n  - Go\n  -   Postgres", want: "Skills\n  - Go\n  - Postgres"},
		{name: "unicode", input: "Test with émojis 🚀  and spéciàl", want: "Test with émojis 🚀 and spéciàl"},
		{name: "nul bytes", input: "Go\x00lang", want: "Golang"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
}
