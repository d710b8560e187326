package types

import "time"

// AudioFile references a binary clip stored outside the entry record.
type AudioFile struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType"`
	Bytes    int64  `json:"bytes"`
}

// Entry is a single journal record.
//
// ID is opaque and immutable once assigned. WordCount is always recomputed
// from Content at write time and never trusted from input. Tags preserve
// insertion order for display; matching is order-insensitive.
type Entry struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Content    string      `json:"content"`
	Mood       string      `json:"mood"`
	Tags       []string    `json:"tags"`
	Favorite   bool        `json:"favorite"`
	WordCount  int         `json:"wordCount"`
	FontFamily string      `json:"fontFamily"`
	FontSize   string      `json:"fontSize"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
	AudioFiles []AudioFile `json:"audioFiles,omitempty"`
}

// EntryDraft carries the caller-supplied fields for a save or update.
// Everything a backend assigns (id, timestamps, word count) is absent.
type EntryDraft struct {
	Name       string
	Content    string
	Mood       string
	FontFamily string
	FontSize   string
	Tags       []string
}

// Clone returns a deep copy of the entry. Backends return clones so callers
// cannot mutate stored state through the returned pointer.
func (e *Entry) Clone() *Entry {
	cp := *e
	if e.Tags != nil {
		cp.Tags = make([]string, len(e.Tags))
		copy(cp.Tags, e.Tags)
	}
	if e.AudioFiles != nil {
		cp.AudioFiles = make([]AudioFile, len(e.AudioFiles))
		copy(cp.AudioFiles, e.AudioFiles)
	}
	return &cp
}

// HasTag reports whether the entry carries the given tag.
func (e *Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
