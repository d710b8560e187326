// Package sqlite implements the relational storage backend for SimNote.
// It is the primary backend whenever an embedded SQL engine can be opened:
// file-backed against the data directory, or in-memory with a durable
// binary snapshot kept in the key-value blob store.
package sqlite

// Schema DDL. Idempotent: every statement tolerates an existing object so
// reopening an initialized database is a no-op.
const (
	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    mood TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    favorite INTEGER NOT NULL DEFAULT 0,
    word_count INTEGER NOT NULL DEFAULT 0,
    font_family TEXT NOT NULL DEFAULT '',
    font_size TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    audio_files TEXT NOT NULL DEFAULT '[]'
);`

	createMetadata = `CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

	createDailyMoods = `CREATE TABLE IF NOT EXISTS daily_moods (
    date TEXT PRIMARY KEY,
    mood TEXT NOT NULL,
    timestamp TEXT NOT NULL
);`

	idxEntriesCreated = `CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at);`
	idxEntriesMood    = `CREATE INDEX IF NOT EXISTS idx_entries_mood ON entries(mood);`
)

// schemaDDL lists all statements in execution order.
var schemaDDL = []string{
	createEntries,
	createMetadata,
	createDailyMoods,
	idxEntriesCreated,
	idxEntriesMood,
}
