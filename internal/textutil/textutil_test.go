package textutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "plain paragraph",
			content: "<p>Paris was great</p>",
			want:    3,
		},
		{
			name:    "empty content",
			content: "",
			want:    0,
		},
		{
			name:    "markup only",
			content: "<div><br/></div>",
			want:    0,
		},
		{
			name:    "adjacent tags split words",
			content: "<p>one</p><p>two</p>",
			want:    2,
		},
		{
			name:    "entities decode before counting",
			content: "fish &amp; chips",
			want:    3,
		},
		{
			name:    "attributes are not words",
			content: `<span style="font-weight: bold">bold text</span>`,
			want:    2,
		},
		{
			name:    "whitespace runs collapse",
			content: "one \n\t two   three",
			want:    3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWords(tt.content))
		})
	}
}

func TestStripMarkup(t *testing.T) {
	got := StripMarkup("<p>Hello <b>world</b></p>")
	assert.Equal(t, "hello world", strings.Join(strings.Fields(strings.ToLower(got)), " "))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Trip", "trip"},
		{"spaces and punctuation", "A Day in Paris!", "a-day-in-paris"},
		{"runs collapse", "one --- two", "one-two"},
		{"leading and trailing trimmed", "  ~hello~  ", "hello"},
		{"unicode collapses", "café diary", "caf-diary"},
		{"empty falls back", "", "entry"},
		{"symbols only fall back", "!!!", "entry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}

	t.Run("long names truncate to 50", func(t *testing.T) {
		long := strings.Repeat("abcde ", 20)
		slug := Slugify(long)
		assert.LessOrEqual(t, len(slug), 50)
		assert.NotEqual(t, "-", slug[len(slug)-1:])
	})
}
