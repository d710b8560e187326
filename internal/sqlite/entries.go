package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/simnote-app/simnote/internal/ids"
	"github.com/simnote-app/simnote/internal/textutil"
	"github.com/simnote-app/simnote/pkg/types"
)

const entryColumns = "id, name, content, mood, tags, favorite, word_count, font_family, font_size, created_at, updated_at, audio_files"

// timeColumnLayout is fixed-width UTC. The timestamp columns are TEXT and
// ORDER BY compares them lexicographically; time.RFC3339Nano trims trailing
// fractional zeros, which would let a shorter timestamp sort after a longer
// one within the same second.
const timeColumnLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entries returns all entries ordered newest-created-first. The id carries a
// millisecond prefix, so it breaks created_at ties in creation order.
func (b *Backend) Entries() ([]*types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	return b.loadEntriesLocked()
}

func (b *Backend) loadEntriesLocked() ([]*types.Entry, error) {
	rows, err := b.db.Query(
		"SELECT " + entryColumns + " FROM entries ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []*types.Entry
	for rows.Next() {
		entry, err := hydrateEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return entries, nil
}

// Entry returns the entry with the given id.
func (b *Backend) Entry(id string) (*types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	if id == "" {
		return nil, types.ErrInvalidID
	}
	return b.entryLocked(id)
}

func (b *Backend) entryLocked(id string) (*types.Entry, error) {
	rows, err := b.db.Query("SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting entry %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting entry %s: %w", id, err)
		}
		return nil, types.ErrNotFound
	}
	entry, err := hydrateEntry(rows)
	if err != nil {
		return nil, fmt.Errorf("hydrating entry %s: %w", id, err)
	}
	return entry, nil
}

// SaveEntry creates a new entry from the draft, assigning id and timestamps
// and computing the word count.
func (b *Backend) SaveEntry(draft types.EntryDraft) (*types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	if draft.Name == "" {
		return nil, types.ErrInvalidName
	}

	now := time.Now().UTC()
	entry := &types.Entry{
		ID:         ids.NewEntryID(),
		Name:       draft.Name,
		Content:    draft.Content,
		Mood:       draft.Mood,
		Tags:       normalizeTags(draft.Tags),
		FontFamily: draft.FontFamily,
		FontSize:   draft.FontSize,
		WordCount:  textutil.CountWords(draft.Content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := b.insertLocked(entry); err != nil {
		return nil, err
	}
	b.afterMutation()
	return entry, nil
}

// UpdateEntry is read-modify-write: fetch the row, apply the draft,
// recompute the word count, persist.
func (b *Backend) UpdateEntry(id string, draft types.EntryDraft) (*types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}

	entry, err := b.entryLocked(id)
	if err != nil {
		return nil, err
	}
	entry.Name = draft.Name
	entry.Content = draft.Content
	entry.Mood = draft.Mood
	entry.Tags = normalizeTags(draft.Tags)
	entry.FontFamily = draft.FontFamily
	entry.FontSize = draft.FontSize
	entry.WordCount = textutil.CountWords(draft.Content)
	entry.UpdatedAt = time.Now().UTC()

	if err := b.updateLocked(entry); err != nil {
		return nil, err
	}
	b.afterMutation()
	return entry, nil
}

// DeleteEntry removes the entry with the given id.
func (b *Backend) DeleteEntry(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	res, err := b.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	b.afterMutation()
	return nil
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (b *Backend) ToggleFavorite(id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false, types.ErrClosed
	}

	entry, err := b.entryLocked(id)
	if err != nil {
		return false, err
	}
	entry.Favorite = !entry.Favorite
	entry.UpdatedAt = time.Now().UTC()
	if err := b.updateLocked(entry); err != nil {
		return false, err
	}
	b.afterMutation()
	return entry.Favorite, nil
}

func (b *Backend) insertLocked(entry *types.Entry) error {
	tags, audio, err := encodeJSONColumns(entry)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.Name, entry.Content, entry.Mood, tags,
		boolToInt(entry.Favorite), entry.WordCount, entry.FontFamily, entry.FontSize,
		entry.CreatedAt.UTC().Format(timeColumnLayout), entry.UpdatedAt.UTC().Format(timeColumnLayout), audio,
	)
	if err != nil {
		return fmt.Errorf("inserting entry %s: %w", entry.ID, err)
	}
	return nil
}

func (b *Backend) updateLocked(entry *types.Entry) error {
	tags, audio, err := encodeJSONColumns(entry)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		`UPDATE entries SET name = ?, content = ?, mood = ?, tags = ?, favorite = ?,
		 word_count = ?, font_family = ?, font_size = ?, created_at = ?, updated_at = ?,
		 audio_files = ? WHERE id = ?`,
		entry.Name, entry.Content, entry.Mood, tags, boolToInt(entry.Favorite),
		entry.WordCount, entry.FontFamily, entry.FontSize,
		entry.CreatedAt.UTC().Format(timeColumnLayout), entry.UpdatedAt.UTC().Format(timeColumnLayout),
		audio, entry.ID,
	)
	if err != nil {
		return fmt.Errorf("updating entry %s: %w", entry.ID, err)
	}
	return nil
}

// upsertLocked inserts the entry or replaces an existing row wholesale.
// Import uses it after the last-write-wins check has already passed.
func (b *Backend) upsertLocked(entry *types.Entry) error {
	tags, audio, err := encodeJSONColumns(entry)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		"INSERT OR REPLACE INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.Name, entry.Content, entry.Mood, tags,
		boolToInt(entry.Favorite), entry.WordCount, entry.FontFamily, entry.FontSize,
		entry.CreatedAt.UTC().Format(timeColumnLayout), entry.UpdatedAt.UTC().Format(timeColumnLayout), audio,
	)
	if err != nil {
		return fmt.Errorf("upserting entry %s: %w", entry.ID, err)
	}
	return nil
}

// hydrateEntry converts the current row of a query over entryColumns into a
// *types.Entry.
func hydrateEntry(rows *sql.Rows) (*types.Entry, error) {
	var e types.Entry
	var tags, audio, createdAt, updatedAt string
	var favorite int
	if err := rows.Scan(
		&e.ID, &e.Name, &e.Content, &e.Mood, &tags, &favorite, &e.WordCount,
		&e.FontFamily, &e.FontSize, &createdAt, &updatedAt, &audio,
	); err != nil {
		return nil, err
	}
	e.Favorite = favorite != 0

	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("parsing tags: %w", err)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if err := json.Unmarshal([]byte(audio), &e.AudioFiles); err != nil {
		return nil, fmt.Errorf("parsing audio files: %w", err)
	}

	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &e, nil
}

func encodeJSONColumns(entry *types.Entry) (tags, audio string, err error) {
	entryTags := entry.Tags
	if entryTags == nil {
		entryTags = []string{}
	}
	tagsData, err := json.Marshal(entryTags)
	if err != nil {
		return "", "", fmt.Errorf("marshaling tags: %w", err)
	}
	audioFiles := entry.AudioFiles
	if audioFiles == nil {
		audioFiles = []types.AudioFile{}
	}
	audioData, err := json.Marshal(audioFiles)
	if err != nil {
		return "", "", fmt.Errorf("marshaling audio files: %w", err)
	}
	return string(tagsData), string(audioData), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// normalizeTags trims tags, drops empties, and deduplicates while keeping
// insertion order for display.
func normalizeTags(tags []string) []string {
	out := []string{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
