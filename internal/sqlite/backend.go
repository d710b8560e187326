package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/simnote-app/simnote/internal/kvstore"
	"github.com/simnote-app/simnote/pkg/types"
)

// DBFileName is the database file created in the data directory in file mode.
const DBFileName = "simnote.db"

// schemaVersion is seeded into the metadata table when the database is
// first created.
const schemaVersion = 2

// snapshotInterval is the fixed timer for durable snapshot writes in memory
// mode, independent of mutation-triggered snapshots. It bounds data loss on
// ungraceful termination.
const snapshotInterval = 30 * time.Second

// Compile-time interface check.
var _ types.Backend = (*Backend)(nil)

// Backend implements the storage contract over an embedded SQLite engine.
type Backend struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
	name   string
	closed bool

	// Memory-mode snapshot state. Nil blob store means file mode: the
	// database file itself is durable and no snapshots are taken.
	blob          *kvstore.Store
	scratchPath   string
	snapshotTimer *time.Timer
	snapshotWG    sync.WaitGroup
}

// Open opens the file-backed engine in dataDir, creating the database and
// seeding the schema version on first use.
func Open(dataDir string, logger *slog.Logger) (*Backend, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return open(filepath.Join(dataDir, DBFileName), types.BackendSQLite, nil, logger)
}

// OpenMemory opens the engine against a scratch file outside the data
// directory, restoring from the snapshot blob in the key-value store when
// one exists. Every mutation triggers an asynchronous snapshot back into the
// blob store, and a fixed timer snapshots regardless of mutations.
func OpenMemory(blob *kvstore.Store, scratchDir string, logger *slog.Logger) (*Backend, error) {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	scratch, err := os.CreateTemp(scratchDir, "simnote-scratch-*.db")
	if err != nil {
		return nil, fmt.Errorf("creating scratch db: %w", err)
	}
	scratchPath := scratch.Name()
	scratch.Close()

	// Restore the last durable snapshot before opening.
	if data, ok := blob.GetBlob(snapshotKey); ok {
		if err := os.WriteFile(scratchPath, data, 0o644); err != nil {
			os.Remove(scratchPath)
			return nil, fmt.Errorf("restoring snapshot: %w", err)
		}
	} else {
		// CreateTemp leaves an empty file; SQLite wants to create its own.
		os.Remove(scratchPath)
	}

	b, err := open(scratchPath, types.BackendSQLiteMemory, blob, logger)
	if err != nil {
		os.Remove(scratchPath)
		return nil, err
	}
	b.scratchPath = scratchPath
	b.startSnapshotTimer()
	return b, nil
}

func open(path, name string, blob *kvstore.Store, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	b := &Backend{db: db, logger: logger, name: name, blob: blob}
	if err := b.seedVersion(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// seedVersion writes the schema version metadata row on first creation.
// The version never regresses: an existing row is left untouched.
func (b *Backend) seedVersion() error {
	version, err := json.Marshal(schemaVersion)
	if err != nil {
		return err
	}
	_, err = b.db.Exec(
		"INSERT OR IGNORE INTO metadata (key, value) VALUES (?, ?)",
		types.MetaSchemaVersion, string(version),
	)
	if err != nil {
		return fmt.Errorf("seeding schema version: %w", err)
	}
	return nil
}

// Name returns the backend name constant.
func (b *Backend) Name() string { return b.name }

// Close stops the snapshot timer, waits for in-flight snapshots, takes a
// final one in memory mode, and closes the engine. Idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.stopSnapshotTimer()
	b.mu.Unlock()

	b.snapshotWG.Wait()

	if b.blob != nil {
		if err := b.snapshot(); err != nil {
			b.logger.Warn("final snapshot failed", "error", err)
		}
	}

	err := b.db.Close()
	if b.scratchPath != "" {
		os.Remove(b.scratchPath)
	}
	return err
}

// afterMutation persists durable state following any successful write. In
// memory mode that is an asynchronous snapshot into the blob store; in file
// mode the database file is already durable.
func (b *Backend) afterMutation() {
	if b.blob == nil {
		return
	}
	b.snapshotWG.Add(1)
	go func() {
		defer b.snapshotWG.Done()
		if err := b.snapshot(); err != nil {
			b.logger.Warn("snapshot failed", "error", err)
		}
	}()
}

// GetMeta returns the raw JSON value stored under key.
func (b *Backend) GetMeta(key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	var value string
	err := b.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting metadata %s: %w", key, err)
	}
	return []byte(value), nil
}

// SetMeta replaces the JSON value stored under key.
func (b *Backend) SetMeta(key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	_, err := b.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("setting metadata %s: %w", key, err)
	}
	b.afterMutation()
	return nil
}

// SetDailyMood records the mood sample for the given ISO date, overwriting
// any sample already stored for that date. Full history is retained.
func (b *Backend) SetDailyMood(date, mood string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	_, err := b.db.Exec(
		`INSERT INTO daily_moods (date, mood, timestamp) VALUES (?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET mood = excluded.mood, timestamp = excluded.timestamp`,
		date, mood, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("setting daily mood: %w", err)
	}
	b.afterMutation()
	return nil
}

// DailyMoods returns all mood samples keyed by ISO date.
func (b *Backend) DailyMoods() (map[string]types.DailyMood, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, types.ErrClosed
	}
	return b.loadMoodsLocked()
}

func (b *Backend) loadMoodsLocked() (map[string]types.DailyMood, error) {
	rows, err := b.db.Query("SELECT date, mood, timestamp FROM daily_moods")
	if err != nil {
		return nil, fmt.Errorf("querying daily moods: %w", err)
	}
	defer rows.Close()

	moods := make(map[string]types.DailyMood)
	for rows.Next() {
		var m types.DailyMood
		var ts string
		if err := rows.Scan(&m.Date, &m.Mood, &ts); err != nil {
			return nil, fmt.Errorf("scanning daily mood: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			m.Timestamp = parsed
		}
		moods[m.Date] = m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily moods: %w", err)
	}
	return moods, nil
}

// Clear removes all entries, moods, and metadata, then reseeds the schema
// version row.
func (b *Backend) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return types.ErrClosed
	}
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"entries", "daily_moods", "metadata"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing clear: %w", err)
	}
	if err := b.seedVersion(); err != nil {
		return err
	}
	b.afterMutation()
	return nil
}
