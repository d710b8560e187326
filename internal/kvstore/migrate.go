package kvstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/simnote-app/simnote/internal/ids"
	"github.com/simnote-app/simnote/internal/textutil"
)

// schemaVersion is the current key-value record shape. Version 1 stores were
// flat arrays written before entries carried ids, tags, favorites, or
// explicit timestamps.
const schemaVersion = 2

// migrate lifts legacy flat records into the current entry shape. It runs
// once: the stored schema version gates it, is bumped on success, and never
// regresses. Running migrate on an already-current store is a no-op.
func (b *Backend) migrate() error {
	if b.storedVersion() >= schemaVersion {
		return nil
	}

	raw, ok := b.store.Get(keyEntries)
	if ok {
		var records []map[string]any
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("parsing legacy entries: %w", err)
		}

		migrated := 0
		for _, rec := range records {
			if migrateRecord(rec) {
				migrated++
			}
		}

		data, err := json.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling migrated entries: %w", err)
		}
		if err := b.store.Set(keyEntries, data); err != nil {
			return err
		}
		if migrated > 0 {
			b.logger.Info("migrated legacy entries",
				"count", migrated, "schema_version", schemaVersion)
		}
	}

	version, err := json.Marshal(schemaVersion)
	if err != nil {
		return err
	}
	return b.store.Set(keySchemaVersion, version)
}

// storedVersion reads the schema version counter, zero when absent.
func (b *Backend) storedVersion() int {
	raw, ok := b.store.Get(keySchemaVersion)
	if !ok {
		return 0
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}

// migrateRecord backfills one legacy record in place and reports whether
// anything changed.
func migrateRecord(rec map[string]any) bool {
	changed := false

	// Oldest records titled the field "title" rather than "name".
	if _, ok := stringField(rec, "name"); !ok {
		if title, ok := stringField(rec, "title"); ok {
			rec["name"] = title
			delete(rec, "title")
			changed = true
		}
	}

	if id, ok := stringField(rec, "id"); !ok || id == "" {
		rec["id"] = ids.NewEntryID()
		changed = true
	}
	if _, ok := rec["tags"]; !ok || rec["tags"] == nil {
		rec["tags"] = []any{}
		changed = true
	}
	if _, ok := rec["favorite"]; !ok {
		rec["favorite"] = false
		changed = true
	}

	createdAt, ok := stringField(rec, "createdAt")
	if !ok || createdAt == "" {
		createdAt = legacyTimestamp(rec)
		rec["createdAt"] = createdAt
		changed = true
	}
	if updatedAt, ok := stringField(rec, "updatedAt"); !ok || updatedAt == "" {
		rec["updatedAt"] = createdAt
		changed = true
	}

	if _, ok := rec["wordCount"]; !ok {
		content, _ := stringField(rec, "content")
		rec["wordCount"] = textutil.CountWords(content)
		changed = true
	}

	return changed
}

// legacyTimestamp derives a creation timestamp from the legacy "date" field,
// falling back to now when absent or unparseable.
func legacyTimestamp(rec map[string]any) string {
	if date, ok := stringField(rec, "date"); ok && date != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, date); err == nil {
				return t.UTC().Format(time.RFC3339)
			}
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func stringField(rec map[string]any, key string) (string, bool) {
	v, ok := rec[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
