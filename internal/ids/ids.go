// Package ids generates unique entry identifiers.
package ids

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewEntryID returns a new entry id of the form <unix-millis>-<suffix>.
// The millisecond prefix keeps ids roughly sortable by creation time; the
// random suffix guarantees uniqueness within a store.
func NewEntryID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), randomSuffix())
}

// randomSuffix returns an 8-character random block.
func randomSuffix() string {
	u := uuid.New().String()
	return strings.ReplaceAll(u, "-", "")[:8]
}
