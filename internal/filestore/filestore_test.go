package filestore

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simnote-app/simnote/pkg/types"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func testEntry(id, name string) *types.Entry {
	now := time.Now().UTC().Truncate(time.Second)
	return &types.Entry{
		ID:        id,
		Name:      name,
		Content:   "<p>some words here</p>",
		Mood:      "calm",
		Tags:      []string{"t"},
		WordCount: 3,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestWriteAndReadBack(t *testing.T) {
	s := openStore(t)
	entry := testEntry("1700000000000-aaaa0001", "A Day in Paris!")

	require.NoError(t, s.WriteEntry(entry))

	// Filename is slug plus id.
	_, err := os.Stat(filepath.Join(s.Dir(), "a-day-in-paris-1700000000000-aaaa0001.json"))
	require.NoError(t, err)

	entries, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, entry.Name, entries[0].Name)
	assert.Equal(t, entry.Content, entries[0].Content)
	assert.Equal(t, entry.Tags, entries[0].Tags)
}

func TestReadAllSkipsUnparseableFiles(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.WriteEntry(testEntry("1700000000000-aaaa0002", "Good")))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "broken-entry.json"), []byte("{oops"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "no-id.json"), []byte("{}"), 0o644))

	entries, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Good", entries[0].Name)
}

func TestAttachmentExtraction(t *testing.T) {
	s := openStore(t)
	payload := base64.StdEncoding.EncodeToString([]byte("fake webm audio bytes"))

	entry := testEntry("1700000000000-aaaa0003", "Voice note")
	entry.Content = `<p>listen:</p><audio src="data:audio/webm;base64,` + payload + `"></audio>`

	require.NoError(t, s.WriteEntry(entry))

	// The stored record carries a reference path, never the inline payload.
	entries, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	stored := entries[0]
	assert.NotContains(t, stored.Content, "base64")
	assert.Contains(t, stored.Content, "voice-note-1700000000000-aaaa0003_audio/clip-1.webm")

	require.Len(t, stored.AudioFiles, 1)
	assert.Equal(t, "audio/webm", stored.AudioFiles[0].MimeType)
	assert.Equal(t, int64(len("fake webm audio bytes")), stored.AudioFiles[0].Bytes)

	// Exactly one clip file, extension per the declared mime type.
	audioDir := filepath.Join(s.Dir(), "voice-note-1700000000000-aaaa0003_audio")
	files, err := os.ReadDir(audioDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "clip-1.webm", files[0].Name())

	blob, err := os.ReadFile(filepath.Join(audioDir, files[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "fake webm audio bytes", string(blob))
}

func TestResaveRepopulatesAttachments(t *testing.T) {
	s := openStore(t)
	id := "1700000000000-aaaa0004"

	first := base64.StdEncoding.EncodeToString([]byte("first clip"))
	entry := testEntry(id, "Clips")
	entry.Content = `data:audio/webm;base64,` + first

	require.NoError(t, s.WriteEntry(entry))

	// Re-save with new inline data: the attachment dir is cleared and
	// repopulated.
	second := base64.StdEncoding.EncodeToString([]byte("second clip replacing the first"))
	entry.Content = `data:audio/mpeg;base64,` + second
	require.NoError(t, s.WriteEntry(entry))

	audioDir := filepath.Join(s.Dir(), "clips-"+id+"_audio")
	files, err := os.ReadDir(audioDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "clip-1.mp3", files[0].Name())
}

func TestResavePreservesFileReferences(t *testing.T) {
	s := openStore(t)
	id := "1700000000000-aaaa0005"

	payload := base64.StdEncoding.EncodeToString([]byte("clip data"))
	entry := testEntry(id, "Keep refs")
	entry.Content = `data:audio/webm;base64,` + payload
	require.NoError(t, s.WriteEntry(entry))

	entries, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	stored := entries[0]

	// Re-save the stored form: content holds a file reference, no inline
	// data, so the attachment and its reference survive unchanged.
	require.NoError(t, s.WriteEntry(stored))

	again, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, stored.Content, again[0].Content)
	assert.Equal(t, stored.AudioFiles, again[0].AudioFiles)

	audioDir := filepath.Join(s.Dir(), "keep-refs-"+id+"_audio")
	files, err := os.ReadDir(audioDir)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestDeleteRemovesFileAndAttachments(t *testing.T) {
	s := openStore(t)
	id := "1700000000000-aaaa0006"

	payload := base64.StdEncoding.EncodeToString([]byte("doomed clip"))
	entry := testEntry(id, "Doomed")
	entry.Content = `data:audio/webm;base64,` + payload
	require.NoError(t, s.WriteEntry(entry))

	require.NoError(t, s.DeleteEntry(id))

	_, err := os.Stat(filepath.Join(s.Dir(), "doomed-"+id+".json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(s.Dir(), "doomed-"+id+"_audio"))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.DeleteEntry(id), types.ErrNotFound)
}

func TestRenameDropsStaleFile(t *testing.T) {
	s := openStore(t)
	id := "1700000000000-aaaa0007"

	entry := testEntry(id, "Old title")
	require.NoError(t, s.WriteEntry(entry))

	entry.Name = "New title"
	require.NoError(t, s.WriteEntry(entry))

	files, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"new-title-" + id + ".json"}, names)
}

func TestSyncAllRemovesOrphans(t *testing.T) {
	s := openStore(t)

	keep := testEntry("1700000000000-aaaa0008", "Keep")
	drop := testEntry("1700000000000-aaaa0009", "Drop")
	require.NoError(t, s.WriteEntry(keep))
	require.NoError(t, s.WriteEntry(drop))

	require.NoError(t, s.SyncAll([]*types.Entry{keep}))

	entries, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].ID)
}

func TestSyncAllHandlesImportedIDShapes(t *testing.T) {
	s := openStore(t)

	// Imported ids take any shape: no hyphen, or more segments than the
	// native <millis>-<suffix> form.
	keep := testEntry("imported", "Keep Me")
	drop := testEntry("a-b-c-d", "Drop Me")
	require.NoError(t, s.WriteEntry(keep))
	require.NoError(t, s.WriteEntry(drop))

	require.NoError(t, s.SyncAll([]*types.Entry{keep}))

	entries, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.ID, entries[0].ID)

	_, err = os.Stat(filepath.Join(s.Dir(), "drop-me-a-b-c-d.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestClear(t *testing.T) {
	s := openStore(t)
	payload := base64.StdEncoding.EncodeToString([]byte("x"))
	entry := testEntry("1700000000000-aaaa0010", "Wipe")
	entry.Content = `data:audio/webm;base64,` + payload
	require.NoError(t, s.WriteEntry(entry))

	require.NoError(t, s.Clear())

	files, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	for _, f := range files {
		assert.False(t, strings.HasSuffix(f.Name(), ".json"), "entry file survived clear: %s", f.Name())
		assert.False(t, strings.HasSuffix(f.Name(), audioDirSuffix), "audio dir survived clear: %s", f.Name())
	}
}
