package types

import "errors"

// Metadata keys used by the storage layer itself. Callers may store
// additional keys; whole-value replace semantics apply to every key.
const (
	MetaSchemaVersion = "schemaVersion"
	MetaStreaks       = "streaks"
)

// Backend name constants, reported by Backend.Name.
const (
	BackendSQLite       = "sqlite"
	BackendSQLiteMemory = "sqlite-memory"
	BackendKV           = "kv"
)

// Backend is the uniform contract every storage backend implements.
// The facade selects one implementation at open time and performs all
// primary reads and writes through it.
type Backend interface {
	// Name returns the backend name constant.
	Name() string

	// Entries returns all entries ordered newest-created-first.
	Entries() ([]*Entry, error)

	// Entry returns the entry with the given id.
	// Returns ErrNotFound if no such entry exists.
	Entry(id string) (*Entry, error)

	// SaveEntry creates a new entry from the draft. The backend assigns
	// the id and timestamps and computes the word count.
	SaveEntry(draft EntryDraft) (*Entry, error)

	// UpdateEntry replaces the draft fields of an existing entry and bumps
	// its updated timestamp. Returns ErrNotFound if the id is unknown.
	UpdateEntry(id string, draft EntryDraft) (*Entry, error)

	// DeleteEntry removes the entry. Returns ErrNotFound if the id is unknown.
	DeleteEntry(id string) error

	// ToggleFavorite flips the favorite flag and returns the new state.
	ToggleFavorite(id string) (bool, error)

	// SetDailyMood records the mood sample for the given ISO date,
	// overwriting any sample already stored for that date.
	SetDailyMood(date, mood string) error

	// DailyMoods returns all retained mood samples keyed by ISO date.
	DailyMoods() (map[string]DailyMood, error)

	// GetMeta returns the raw JSON value stored under key, or ErrNotFound.
	GetMeta(key string) ([]byte, error)

	// SetMeta replaces the JSON value stored under key.
	SetMeta(key string, value []byte) error

	// ExportJSON emits the bulk export document
	// {version, exportedAt, entries, dailyMoods}.
	ExportJSON() ([]byte, error)

	// ImportJSON merges a bulk export document into the store and returns
	// the number of entries applied. Entry conflicts resolve last-write-wins
	// by updatedAt; daily moods overwrite by date. A malformed payload
	// imports zero records without error.
	ImportJSON(data []byte) (int, error)

	// Clear removes all entries, moods, and metadata.
	Clear() error

	// Close releases backend resources. Idempotent.
	Close() error
}

// Standard storage errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidID   = errors.New("invalid id")
	ErrInvalidName = errors.New("name must not be empty")
	ErrClosed      = errors.New("store is closed")
)
