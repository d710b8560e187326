package storage

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/simnote-app/simnote/internal/filestore"
	"github.com/simnote-app/simnote/pkg/types"
)

// Entries returns all entries, newest-created-first. Read failures are
// logged and yield an empty list rather than an error; this layer never
// takes the host down over a read.
func (j *Journal) Entries() []*types.Entry {
	entries, err := j.primary.Entries()
	if err != nil {
		j.logger.Error("listing entries failed", "error", err)
		return []*types.Entry{}
	}
	if entries == nil {
		return []*types.Entry{}
	}
	return entries
}

// EntryByID returns the entry with the given id, or ok=false.
func (j *Journal) EntryByID(id string) (*types.Entry, bool) {
	entry, err := j.primary.Entry(id)
	if err != nil {
		if err != types.ErrNotFound && err != types.ErrInvalidID {
			j.logger.Error("getting entry failed", "id", id, "error", err)
		}
		return nil, false
	}
	return entry, true
}

// SaveEntry creates a new entry, then mirrors the result.
func (j *Journal) SaveEntry(draft types.EntryDraft) (*types.Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, err := j.primary.SaveEntry(draft)
	if err != nil {
		return nil, err
	}
	j.refreshStreaks()
	j.replicate("save", func(fs *filestore.Store) error {
		return fs.WriteEntry(entry)
	})
	return entry, nil
}

// UpdateEntry accepts a stable id or a positional index into the current
// newest-first list, for callers written against the older array-based
// contract. An unresolvable reference returns ok=false, never an error.
func (j *Journal) UpdateEntry(ref string, draft types.EntryDraft) (*types.Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	id, ok := j.resolve(ref)
	if !ok {
		return nil, false
	}
	entry, err := j.primary.UpdateEntry(id, draft)
	if err != nil {
		j.logger.Error("updating entry failed", "id", id, "error", err)
		return nil, false
	}
	j.refreshStreaks()
	j.replicate("update", func(fs *filestore.Store) error {
		return fs.WriteEntry(entry)
	})
	return entry, true
}

// DeleteEntry removes the entry addressed by id or index. Returns false on
// an unresolvable reference or a primary failure.
func (j *Journal) DeleteEntry(ref string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	id, ok := j.resolve(ref)
	if !ok {
		return false
	}
	if err := j.primary.DeleteEntry(id); err != nil {
		j.logger.Error("deleting entry failed", "id", id, "error", err)
		return false
	}
	j.refreshStreaks()
	j.replicate("delete", func(fs *filestore.Store) error {
		err := fs.DeleteEntry(id)
		if err == types.ErrNotFound {
			// Never mirrored; nothing to remove.
			return nil
		}
		return err
	})
	return true
}

// ToggleFavorite flips the favorite flag of the addressed entry and returns
// the new state. ok=false means the reference did not resolve or the
// primary write failed.
func (j *Journal) ToggleFavorite(ref string) (state, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	id, resolved := j.resolve(ref)
	if !resolved {
		return false, false
	}
	state, err := j.primary.ToggleFavorite(id)
	if err != nil {
		j.logger.Error("toggling favorite failed", "id", id, "error", err)
		return false, false
	}
	entry, err := j.primary.Entry(id)
	if err == nil {
		j.replicate("favorite", func(fs *filestore.Store) error {
			return fs.WriteEntry(entry)
		})
	}
	return state, true
}

// AllTags returns the distinct tags across all entries, in first-seen order
// over the newest-first list.
func (j *Journal) AllTags() []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, e := range j.Entries() {
		for _, t := range e.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// SetDailyMood records today's standalone mood sample.
func (j *Journal) SetDailyMood(mood string) error {
	return j.SetDailyMoodOn(time.Now().UTC().Format("2006-01-02"), mood)
}

// SetDailyMoodOn records the mood sample for an explicit ISO date.
func (j *Journal) SetDailyMoodOn(date, mood string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.primary.SetDailyMood(date, mood)
}

// DailyMoods returns the retained mood samples keyed by ISO date.
func (j *Journal) DailyMoods() map[string]types.DailyMood {
	moods, err := j.primary.DailyMoods()
	if err != nil {
		j.logger.Error("listing daily moods failed", "error", err)
		return map[string]types.DailyMood{}
	}
	return moods
}

// ExportJSON emits the bulk export document from the primary backend.
func (j *Journal) ExportJSON() ([]byte, error) {
	return j.primary.ExportJSON()
}

// ImportJSON merges a bulk export document and returns the number of
// entries applied. A malformed payload imports zero entries; import never
// returns an error to the caller.
func (j *Journal) ImportJSON(data []byte) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	n, err := j.primary.ImportJSON(data)
	if err != nil {
		j.logger.Error("import failed", "error", err)
		return n
	}
	if n > 0 {
		j.refreshStreaks()
		entries, err := j.primary.Entries()
		if err == nil {
			j.replicate("import", func(fs *filestore.Store) error {
				return fs.SyncAll(entries)
			})
		}
	}
	return n
}

// ClearAllData wipes the primary backend, the backup blob, and the file
// mirror.
func (j *Journal) ClearAllData() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.primary.Clear(); err != nil {
		return err
	}
	if err := j.store.Delete(backupKey); err != nil {
		j.logger.Warn("clearing backup blob failed", "error", err)
	}
	if j.files != nil {
		files := j.files
		j.mirror("clear files", func() error {
			return files.Clear()
		})
	}
	return nil
}

// resolve maps an id-or-index reference to a stable id against a snapshot
// of the current ordered entry list, taken once at the top of each mutating
// call. Index references are only meaningful against the list the caller
// last observed.
func (j *Journal) resolve(ref string) (string, bool) {
	entries, err := j.primary.Entries()
	if err != nil {
		j.logger.Error("resolving reference failed", "ref", ref, "error", err)
		return "", false
	}
	for _, e := range entries {
		if e.ID == ref {
			return ref, true
		}
	}
	if idx, err := strconv.Atoi(ref); err == nil && idx >= 0 && idx < len(entries) {
		return entries[idx].ID, true
	}
	return "", false
}

// backupDocument serializes the full entry list for the backup blob.
func backupDocument(entries []*types.Entry) (json.RawMessage, error) {
	if entries == nil {
		entries = []*types.Entry{}
	}
	return json.Marshal(struct {
		SavedAt time.Time      `json:"savedAt"`
		Entries []*types.Entry `json:"entries"`
	}{
		SavedAt: time.Now().UTC(),
		Entries: entries,
	})
}
