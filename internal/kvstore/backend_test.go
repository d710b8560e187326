package kvstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simnote-app/simnote/pkg/types"
)

func openBackend(t *testing.T) *Backend {
	t.Helper()
	b, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	b := openBackend(t)

	saved, err := b.SaveEntry(types.EntryDraft{
		Name:       "Trip",
		Content:    "<p>Paris was great</p>",
		Mood:       "happy",
		FontFamily: "Arial",
		FontSize:   "14px",
		Tags:       []string{"travel"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 3, saved.WordCount)
	assert.False(t, saved.Favorite)
	assert.Equal(t, []string{"travel"}, saved.Tags)
	assert.False(t, saved.UpdatedAt.Before(saved.CreatedAt))

	got, err := b.Entry(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Name, got.Name)
	assert.Equal(t, saved.Content, got.Content)
	assert.Equal(t, saved.Mood, got.Mood)
	assert.Equal(t, saved.FontFamily, got.FontFamily)
	assert.Equal(t, saved.FontSize, got.FontSize)
}

func TestEntriesNewestFirst(t *testing.T) {
	b := openBackend(t)

	first, err := b.SaveEntry(types.EntryDraft{Name: "first"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := b.SaveEntry(types.EntryDraft{Name: "second"})
	require.NoError(t, err)

	entries, err := b.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
}

func TestUpdateEntryRecomputesWordCount(t *testing.T) {
	b := openBackend(t)

	saved, err := b.SaveEntry(types.EntryDraft{Name: "n", Content: "one two"})
	require.NoError(t, err)

	updated, err := b.UpdateEntry(saved.ID, types.EntryDraft{
		Name:    "n2",
		Content: "<p>one two three four</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.WordCount)
	assert.Equal(t, "n2", updated.Name)
	assert.True(t, updated.UpdatedAt.After(saved.CreatedAt) || updated.UpdatedAt.Equal(saved.CreatedAt))

	_, err = b.UpdateEntry("no-such-id", types.EntryDraft{Name: "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDeleteEntry(t *testing.T) {
	b := openBackend(t)

	saved, err := b.SaveEntry(types.EntryDraft{Name: "gone"})
	require.NoError(t, err)

	require.NoError(t, b.DeleteEntry(saved.ID))

	_, err = b.Entry(saved.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, b.DeleteEntry(saved.ID), types.ErrNotFound)
}

func TestToggleFavorite(t *testing.T) {
	b := openBackend(t)

	saved, err := b.SaveEntry(types.EntryDraft{Name: "fav"})
	require.NoError(t, err)

	on, err := b.ToggleFavorite(saved.ID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := b.ToggleFavorite(saved.ID)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = b.ToggleFavorite("no-such-id")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestDailyMoodOverwrites(t *testing.T) {
	b := openBackend(t)

	require.NoError(t, b.SetDailyMood("2024-01-15", "happy"))
	require.NoError(t, b.SetDailyMood("2024-01-15", "tired"))

	moods, err := b.DailyMoods()
	require.NoError(t, err)
	require.Len(t, moods, 1)
	assert.Equal(t, "tired", moods["2024-01-15"].Mood)
}

func TestMoodPruning(t *testing.T) {
	dir := t.TempDir()
	b, err := Open(dir, nil)
	require.NoError(t, err)

	old := time.Now().UTC().AddDate(0, 0, -40).Format("2006-01-02")
	recent := time.Now().UTC().Format("2006-01-02")
	require.NoError(t, b.SetDailyMood(old, "forgotten"))
	require.NoError(t, b.SetDailyMood(recent, "kept"))
	require.NoError(t, b.Close())

	// Pruning happens at open.
	reopened, err := Open(dir, nil)
	require.NoError(t, err)
	moods, err := reopened.DailyMoods()
	require.NoError(t, err)
	assert.NotContains(t, moods, old)
	assert.Contains(t, moods, recent)
}

func TestMetaReplaceSemantics(t *testing.T) {
	b := openBackend(t)

	_, err := b.GetMeta("settings")
	assert.ErrorIs(t, err, types.ErrNotFound)

	require.NoError(t, b.SetMeta("settings", []byte(`{"theme":"dark"}`)))
	require.NoError(t, b.SetMeta("settings", []byte(`{"theme":"light"}`)))

	v, err := b.GetMeta("settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"light"}`, string(v))
}

func TestImportLastWriteWins(t *testing.T) {
	b := openBackend(t)

	saved, err := b.SaveEntry(types.EntryDraft{Name: "original", Content: "keep me"})
	require.NoError(t, err)

	older := saved.Clone()
	older.Name = "stale"
	older.UpdatedAt = saved.UpdatedAt.Add(-time.Hour)
	newer := saved.Clone()
	newer.Name = "fresh"
	newer.UpdatedAt = saved.UpdatedAt.Add(time.Hour)

	payload := func(e *types.Entry) []byte {
		data, err := json.Marshal(map[string]any{"version": 2, "entries": []*types.Entry{e}})
		require.NoError(t, err)
		return data
	}

	n, err := b.ImportJSON(payload(older))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	got, err := b.Entry(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Name)

	n, err = b.ImportJSON(payload(newer))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, err = b.Entry(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got.Name)
}

func TestImportMalformedReturnsZero(t *testing.T) {
	b := openBackend(t)

	n, err := b.ImportJSON([]byte("definitely not json"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestImportMoodObjectForm(t *testing.T) {
	b := openBackend(t)

	date := time.Now().UTC().Format("2006-01-02")
	payload := []byte(`{"version": 2, "entries": [], "dailyMoods": {"` + date + `": {"mood": "calm"}}}`)

	_, err := b.ImportJSON(payload)
	require.NoError(t, err)

	moods, err := b.DailyMoods()
	require.NoError(t, err)
	assert.Equal(t, "calm", moods[date].Mood)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := openBackend(t)
	dst := openBackend(t)

	_, err := src.SaveEntry(types.EntryDraft{Name: "a", Content: "alpha beta", Tags: []string{"t1"}})
	require.NoError(t, err)
	_, err = src.SaveEntry(types.EntryDraft{Name: "b", Content: "gamma"})
	require.NoError(t, err)
	date := time.Now().UTC().Format("2006-01-02")
	require.NoError(t, src.SetDailyMood(date, "happy"))

	data, err := src.ExportJSON()
	require.NoError(t, err)

	n, err := dst.ImportJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	entries, err := dst.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	moods, err := dst.DailyMoods()
	require.NoError(t, err)
	assert.Equal(t, "happy", moods[date].Mood)
}

func TestClearKeepsSchemaVersion(t *testing.T) {
	b := openBackend(t)

	_, err := b.SaveEntry(types.EntryDraft{Name: "wiped"})
	require.NoError(t, err)
	require.NoError(t, b.SetMeta("k", []byte(`1`)))
	require.NoError(t, b.SetDailyMood("2024-01-15", "x"))

	require.NoError(t, b.Clear())

	entries, err := b.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = b.GetMeta("k")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, schemaVersion, b.storedVersion())
}

func TestTagNormalization(t *testing.T) {
	b := openBackend(t)

	saved, err := b.SaveEntry(types.EntryDraft{
		Name: "tags",
		Tags: []string{" travel ", "travel", "", "food"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"travel", "food"}, saved.Tags)
}
