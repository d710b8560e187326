package ids

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewEntryID(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{13}-[0-9a-f]{8}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewEntryID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "id %s generated twice", id)
		seen[id] = true
	}
}
