package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryClone(t *testing.T) {
	orig := &Entry{
		ID:        "1700000000000-abcd1234",
		Name:      "Trip",
		Content:   "<p>Paris was great</p>",
		Tags:      []string{"travel", "france"},
		CreatedAt: time.Now().UTC(),
		AudioFiles: []AudioFile{
			{Path: "audio/clip-1.webm", MimeType: "audio/webm", Bytes: 2048},
		},
	}

	cp := orig.Clone()
	cp.Tags[0] = "mutated"
	cp.AudioFiles[0].Path = "elsewhere"

	assert.Equal(t, "travel", orig.Tags[0], "clone must not share tag storage")
	assert.Equal(t, "audio/clip-1.webm", orig.AudioFiles[0].Path)
}

func TestEntryHasTag(t *testing.T) {
	e := &Entry{Tags: []string{"travel", "food"}}

	assert.True(t, e.HasTag("food"))
	assert.False(t, e.HasTag("work"))
	assert.False(t, (&Entry{}).HasTag("any"))
}
