package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text no tags",
			input:    "Hello world",
			expected: "Hello world",
		},
		{
			name:     "single paragraph",
			input:    "<p>Hello world</p>",
			expected: "Hello world",
		},
		{
			name:     "paragraphs become spaced words",
			input:    "<p>First paragraph</p><p>Second paragraph</p>",
			expected: "First paragraph Second paragraph",
		},
		{
			name:     "nested inline markup",
			input:    "<p>A <emphasis>very</emphasis> <strong>good</strong> book</p>",
			expected: "A very good book",
		},
		{
			name:     "self closing and empty lines",
			input:    "<p>One</p>\n\t<empty-line/>\n<p>Two</p>",
			expected: "One Two",
		},
		{
			name:     "entities decoded",
			input:    "<p>Tom &amp; Jerry &#8212; &lt;classic&gt;</p>",
			expected: "Tom & Jerry — <classic>",
		},
		{
			name:     "cyrillic text",
			input:    "<p>Роман о <emphasis>любви</emphasis></p>",
			expected: "Роман о любви",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, StripTags(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "Иван", Truncate("Иванов", 4))
	assert.Equal(t, "", Truncate("abc", 0))
}
