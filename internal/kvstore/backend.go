package kvstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/simnote-app/simnote/internal/exchange"
	"github.com/simnote-app/simnote/internal/ids"
	"github.com/simnote-app/simnote/internal/textutil"
	"github.com/simnote-app/simnote/pkg/types"
)

// Storage keys. The simnote_ prefix matches the app's historical
// localStorage layout so migrated stores keep their key names.
const (
	keyEntries       = "simnote_entries"
	keyDailyMoods    = "simnote_daily_moods"
	keySchemaVersion = "simnote_schema_version"
	metaKeyPrefix    = "simnote_meta_"
)

// moodRetentionDays bounds daily-mood history in this lightweight backend.
// The relational backend keeps full history.
const moodRetentionDays = 30

// Compile-time interface check.
var _ types.Backend = (*Backend)(nil)

// Backend implements the storage contract over the flat key-value store.
// It is the fallback when no relational engine can be opened.
type Backend struct {
	mu     sync.Mutex
	store  *Store
	logger *slog.Logger
	closed bool
}

// Open creates the key-value backend over the store file in dataDir,
// running the legacy-record migration and mood pruning once.
func Open(dataDir string, logger *slog.Logger) (*Backend, error) {
	store, err := OpenStore(dataDir)
	if err != nil {
		return nil, err
	}
	return OpenWithStore(store, logger)
}

// OpenWithStore wraps an already-open store. The facade uses this form so
// the backend and the backup blob share one file handle.
func OpenWithStore(store *Store, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{store: store, logger: logger}
	if err := b.migrate(); err != nil {
		return nil, fmt.Errorf("migrating key-value store: %w", err)
	}
	if err := b.pruneMoods(); err != nil {
		return nil, fmt.Errorf("pruning daily moods: %w", err)
	}
	return b, nil
}

// Name returns the backend name constant.
func (b *Backend) Name() string { return types.BackendKV }

// Entries returns all entries ordered newest-created-first.
func (b *Backend) Entries() ([]*types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	entries, err := b.loadEntries()
	if err != nil {
		return nil, err
	}
	out := make([]*types.Entry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out, nil
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
	entries, err := b.loadEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return nil, types.ErrNotFound
}

// SaveEntry creates a new entry from the draft.
func (b *Backend) SaveEntry(draft types.EntryDraft) (*types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	if draft.Name == "" {
		return nil, types.ErrInvalidName
	}

	entries, err := b.loadEntries()
	if err != nil {
		return nil, err
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

	entries = append([]*types.Entry{entry}, entries...)
	if err := b.storeEntries(entries); err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

// UpdateEntry replaces the draft fields of an existing entry.
func (b *Backend) UpdateEntry(id string, draft types.EntryDraft) (*types.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	entries, err := b.loadEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID != id {
			continue
		}
		e.Name = draft.Name
		e.Content = draft.Content
		e.Mood = draft.Mood
		e.Tags = normalizeTags(draft.Tags)
		e.FontFamily = draft.FontFamily
		e.FontSize = draft.FontSize
		e.WordCount = textutil.CountWords(draft.Content)
		e.UpdatedAt = time.Now().UTC()
		if err := b.storeEntries(entries); err != nil {
			return nil, err
		}
		return e.Clone(), nil
	}
	return nil, types.ErrNotFound
}

// DeleteEntry removes the entry with the given id.
func (b *Backend) DeleteEntry(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	entries, err := b.loadEntries()
	if err != nil {
		return err
	}
	for i, e := range entries {
		if e.ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			return b.storeEntries(entries)
		}
	}
	return types.ErrNotFound
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (b *Backend) ToggleFavorite(id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false, types.ErrClosed
	}
	entries, err := b.loadEntries()
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.ID == id {
			e.Favorite = !e.Favorite
			e.UpdatedAt = time.Now().UTC()
			if err := b.storeEntries(entries); err != nil {
				return false, err
			}
			return e.Favorite, nil
		}
	}
	return false, types.ErrNotFound
}

// SetDailyMood records the mood sample for the given ISO date, overwriting
// any sample already stored for that date.
func (b *Backend) SetDailyMood(date, mood string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	moods, err := b.loadMoods()
	if err != nil {
		return err
	}
	moods[date] = types.DailyMood{Date: date, Mood: mood, Timestamp: time.Now().UTC()}
	return b.storeMoods(moods)
}

// DailyMoods returns all retained mood samples keyed by ISO date.
func (b *Backend) DailyMoods() (map[string]types.DailyMood, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	return b.loadMoods()
}

// GetMeta returns the raw JSON value stored under key.
func (b *Backend) GetMeta(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	raw, ok := b.store.Get(metaKeyPrefix + key)
	if !ok {
		return nil, types.ErrNotFound
	}
	return raw, nil
}

// SetMeta replaces the JSON value stored under key.
func (b *Backend) SetMeta(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	return b.store.Set(metaKeyPrefix+key, json.RawMessage(value))
}

// ExportJSON emits the bulk export document.
func (b *Backend) ExportJSON() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	entries, err := b.loadEntries()
	if err != nil {
		return nil, err
	}
	moods, err := b.loadMoods()
	if err != nil {
		return nil, err
	}
	return exchange.Marshal(entries, moods)
}

// ImportJSON merges a bulk export document, last-write-wins by updatedAt.
// A malformed payload imports zero records without error.
func (b *Backend) ImportJSON(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, types.ErrClosed
	}

	doc, ok := exchange.Parse(data)
	if !ok {
		b.logger.Warn("import payload malformed, nothing imported")
		return 0, nil
	}

	entries, err := b.loadEntries()
	if err != nil {
		return 0, err
	}
	byID := make(map[string]int, len(entries))
	for i, e := range entries {
		byID[e.ID] = i
	}

	imported := 0
	for _, incoming := range doc.Entries {
		idx, exists := byID[incoming.ID]
		if exists {
			if !exchange.ShouldReplace(entries[idx], incoming) {
				continue
			}
			entries[idx] = incoming
		} else {
			byID[incoming.ID] = len(entries)
			entries = append(entries, incoming)
		}
		imported++
	}

	if imported > 0 {
		sortNewestFirst(entries)
		if err := b.storeEntries(entries); err != nil {
			return 0, err
		}
	}

	if len(doc.DailyMoods) > 0 {
		moods, err := b.loadMoods()
		if err != nil {
			return imported, err
		}
		for _, m := range doc.DailyMoods {
			moods[m.Date] = m
		}
		if err := b.storeMoods(moods); err != nil {
			return imported, err
		}
	}

	return imported, nil
}

// Clear removes all entries, moods, and metadata while keeping the schema
// version so migration does not rerun on a wiped store.
func (b *Backend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	if err := b.store.Delete(keyEntries); err != nil {
		return err
	}
	if err := b.store.Delete(keyDailyMoods); err != nil {
		return err
	}
	for _, k := range b.store.Keys(metaKeyPrefix) {
		if err := b.store.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// Close marks the backend closed. The underlying store file needs no
// teardown.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// loadEntries decodes the entry list, newest-created-first.
func (b *Backend) loadEntries() ([]*types.Entry, error) {
	raw, ok := b.store.Get(keyEntries)
	if !ok {
		return nil, nil
	}
	var entries []*types.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", keyEntries, err)
	}
	sortNewestFirst(entries)
	return entries, nil
}

func (b *Backend) storeEntries(entries []*types.Entry) error {
	if entries == nil {
		entries = []*types.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling entries: %w", err)
	}
	return b.store.Set(keyEntries, data)
}

func (b *Backend) loadMoods() (map[string]types.DailyMood, error) {
	moods := make(map[string]types.DailyMood)
	raw, ok := b.store.Get(keyDailyMoods)
	if !ok {
		return moods, nil
	}
	if err := json.Unmarshal(raw, &moods); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", keyDailyMoods, err)
	}
	for date, m := range moods {
		if m.Date == "" {
			m.Date = date
			moods[date] = m
		}
	}
	return moods, nil
}

func (b *Backend) storeMoods(moods map[string]types.DailyMood) error {
	data, err := json.Marshal(moods)
	if err != nil {
		return fmt.Errorf("marshaling daily moods: %w", err)
	}
	return b.store.Set(keyDailyMoods, data)
}

// pruneMoods drops samples older than the retention window. Runs at open.
func (b *Backend) pruneMoods() error {
	moods, err := b.loadMoods()
	if err != nil {
		return err
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -moodRetentionDays).Format("2006-01-02")
	pruned := false
	for date := range moods {
		if date < cutoff {
			delete(moods, date)
			pruned = true
		}
	}
	if !pruned {
		return nil
	}
	return b.storeMoods(moods)
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

// sortNewestFirst orders entries by CreatedAt descending, id as tiebreaker.
func sortNewestFirst(entries []*types.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
