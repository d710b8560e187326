package kvstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simnote-app/simnote/pkg/types"
)

// seedLegacyStore writes a pre-migration store file: flat records with no
// ids, tags, favorites, or explicit timestamps.
func seedLegacyStore(t *testing.T, dir string, records []map[string]any) *Store {
	t.Helper()
	s, err := OpenStore(dir)
	require.NoError(t, err)
	data, err := json.Marshal(records)
	require.NoError(t, err)
	require.NoError(t, s.Set(keyEntries, data))
	return s
}

func TestMigrateBackfillsLegacyRecords(t *testing.T) {
	dir := t.TempDir()
	seedLegacyStore(t, dir, []map[string]any{
		{
			"title":   "Old one",
			"content": "<p>hello legacy world</p>",
			"date":    "2023-06-01",
		},
		{
			"name":      "Newer one",
			"content":   "short",
			"createdAt": "2023-07-01T10:00:00Z",
		},
	})

	b, err := Open(dir, nil)
	require.NoError(t, err)

	entries, err := b.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.NotNil(t, e.Tags)
		assert.False(t, e.Favorite)
		assert.False(t, e.CreatedAt.IsZero())
		assert.False(t, e.UpdatedAt.Before(e.CreatedAt))
	}

	// The legacy "title" field became "name", the "date" field seeded the
	// creation timestamp.
	var old *types.Entry
	for _, e := range entries {
		if e.Name == "Old one" {
			old = e
		}
	}
	require.NotNil(t, old)
	assert.Equal(t, 3, old.WordCount)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), old.CreatedAt.UTC())
}

func TestMigrateIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	seedLegacyStore(t, dir, []map[string]any{
		{"name": "only", "content": "one two three", "date": "2023-06-01"},
	})

	b1, err := Open(dir, nil)
	require.NoError(t, err)
	first, err := b1.Entries()
	require.NoError(t, err)
	require.NoError(t, b1.Close())

	b2, err := Open(dir, nil)
	require.NoError(t, err)
	second, err := b2.Entries()
	require.NoError(t, err)

	// Second run changed nothing: same ids, same timestamps.
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].CreatedAt, second[0].CreatedAt)
	assert.Equal(t, schemaVersion, b2.storedVersion())
}

func TestMigrateVersionNeverRegresses(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStore(dir)
	require.NoError(t, err)
	future, err := json.Marshal(schemaVersion + 5)
	require.NoError(t, err)
	require.NoError(t, s.Set(keySchemaVersion, future))

	b, err := OpenWithStore(s, nil)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion+5, b.storedVersion())
}

func TestMigrateUnparseableDateFallsBackToNow(t *testing.T) {
	dir := t.TempDir()
	seedLegacyStore(t, dir, []map[string]any{
		{"name": "odd", "content": "x", "date": "June the first"},
	})

	before := time.Now().UTC().Add(-time.Minute)
	b, err := Open(dir, nil)
	require.NoError(t, err)

	entries, err := b.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].CreatedAt.After(before))
}
