// Package filestore persists each journal entry as an individual JSON
// document in a user-chosen directory, with inline audio payloads extracted
// to sibling attachment files. The facade mirrors every mutation here when a
// files directory is configured; the package also serves standalone
// export-to-folder use.
package filestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/simnote-app/simnote/internal/kvstore"
	"github.com/simnote-app/simnote/internal/textutil"
	"github.com/simnote-app/simnote/pkg/types"
)

// DocumentVersion is the per-entry file format version.
const DocumentVersion = 1

// audioDirSuffix names the per-entry attachment directory next to the
// entry file.
const audioDirSuffix = "_audio"

// document is the on-disk shape of one entry file.
type document struct {
	FormatVersion int               `json:"formatVersion"`
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Content       string            `json:"content"`
	Mood          string            `json:"mood"`
	Tags          []string          `json:"tags"`
	Favorite      bool              `json:"favorite"`
	WordCount     int               `json:"wordCount"`
	FontFamily    string            `json:"fontFamily"`
	FontSize      string            `json:"fontSize"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	ExportedAt    time.Time         `json:"exportedAt"`
	AudioFiles    []types.AudioFile `json:"audioFiles"`
}

// Store writes and reads per-entry files in a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New opens (creating if needed) the entry directory.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating files dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// WriteEntry materializes one entry as <slug-of-name>-<id>.json. Inline
// base64 audio payloads in the content are decoded into the entry's
// attachment directory and replaced with reference paths, so the document
// itself never carries binary blobs. If the content already holds file
// references, the existing attachment list is preserved.
func (s *Store) WriteEntry(entry *types.Entry) error {
	base := fileBase(entry)

	// The slug follows the title; drop any file written under an older name.
	if err := s.removeStaleFiles(entry.ID, base); err != nil {
		s.logger.Warn("could not remove stale entry files", "id", entry.ID, "error", err)
	}

	content, audioFiles, err := s.extractAttachments(entry, base)
	if err != nil {
		return fmt.Errorf("extracting attachments for %s: %w", entry.ID, err)
	}

	doc := document{
		FormatVersion: DocumentVersion,
		ID:            entry.ID,
		Name:          entry.Name,
		Content:       content,
		Mood:          entry.Mood,
		Tags:          entry.Tags,
		Favorite:      entry.Favorite,
		WordCount:     entry.WordCount,
		FontFamily:    entry.FontFamily,
		FontSize:      entry.FontSize,
		CreatedAt:     entry.CreatedAt,
		UpdatedAt:     entry.UpdatedAt,
		ExportedAt:    time.Now().UTC(),
		AudioFiles:    audioFiles,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if doc.AudioFiles == nil {
		doc.AudioFiles = []types.AudioFile{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling entry %s: %w", entry.ID, err)
	}
	return kvstore.WriteFileAtomic(filepath.Join(s.dir, base+".json"), data)
}

// ReadAll enumerates every entry file in the directory and parses each one
// independently. A file that fails to parse is skipped and logged; the
// listing as a whole still succeeds.
func (s *Store) ReadAll() ([]*types.Entry, error) {
	names, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}

	var entries []*types.Entry
	for _, de := range names {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, de.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable entry file", "file", de.Name(), "error", err)
			continue
		}
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil || doc.ID == "" {
			s.logger.Warn("skipping unparseable entry file", "file", de.Name(), "error", err)
			continue
		}
		entries = append(entries, docToEntry(&doc))
	}
	return entries, nil
}

// DeleteEntry removes the entry file and its attachment directory as one
// logical, best-effort sequential operation. Returns ErrNotFound when no
// file carries the id.
func (s *Store) DeleteEntry(id string) error {
	path, ok, err := s.findByID(id)
	if err != nil {
		return err
	}
	if !ok {
		return types.ErrNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing entry file: %w", err)
	}
	audioDir := strings.TrimSuffix(path, ".json") + audioDirSuffix
	if err := os.RemoveAll(audioDir); err != nil {
		// The record itself is gone; a leftover attachment dir is logged,
		// not surfaced.
		s.logger.Warn("could not remove attachment dir", "dir", audioDir, "error", err)
	}
	return nil
}

// SyncAll mirrors the full entry list: every entry is written and files for
// ids no longer present are removed along with their attachment dirs.
func (s *Store) SyncAll(entries []*types.Entry) error {
	keep := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := s.WriteEntry(e); err != nil {
			return err
		}
		keep[e.ID] = true
	}

	names, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", s.dir, err)
	}
	for _, de := range names {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, de.Name())
		id := s.readDocID(path)
		if id == "" {
			// A file with no recoverable id is left alone, same as ReadAll.
			s.logger.Warn("skipping unparseable entry file", "file", de.Name())
			continue
		}
		if keep[id] {
			continue
		}
		if err := os.Remove(path); err != nil {
			s.logger.Warn("could not remove orphan entry file", "file", de.Name(), "error", err)
			continue
		}
		audioDir := strings.TrimSuffix(path, ".json") + audioDirSuffix
		if err := os.RemoveAll(audioDir); err != nil {
			s.logger.Warn("could not remove attachment dir", "dir", audioDir, "error", err)
		}
	}
	return nil
}

// Clear removes every entry file and attachment directory in the store.
func (s *Store) Clear() error {
	names, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", s.dir, err)
	}
	for _, de := range names {
		path := filepath.Join(s.dir, de.Name())
		if de.IsDir() && strings.HasSuffix(de.Name(), audioDirSuffix) {
			if err := os.RemoveAll(path); err != nil {
				return err
			}
			continue
		}
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".json") {
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}
	return nil
}

// fileBase builds the <slug>-<id> stem shared by the entry file and its
// attachment directory.
func fileBase(entry *types.Entry) string {
	return textutil.Slugify(entry.Name) + "-" + entry.ID
}

// readDocID recovers the entry id from the document itself. File names are
// display artifacts: the slug may contain hyphens and imported ids take any
// shape, so a name cannot encode the slug/id boundary unambiguously.
func (s *Store) readDocID(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var doc struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ""
	}
	return doc.ID
}

// findByID locates the entry file carrying the given id regardless of slug.
func (s *Store) findByID(id string) (string, bool, error) {
	names, err := os.ReadDir(s.dir)
	if err != nil {
		return "", false, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	suffix := "-" + id + ".json"
	for _, de := range names {
		if !de.IsDir() && strings.HasSuffix(de.Name(), suffix) {
			return filepath.Join(s.dir, de.Name()), true, nil
		}
	}
	return "", false, nil
}

// removeStaleFiles deletes entry files for the same id written under a
// different slug, keeping exactly one file per entry.
func (s *Store) removeStaleFiles(id, currentBase string) error {
	names, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	suffix := "-" + id + ".json"
	for _, de := range names {
		if de.IsDir() || !strings.HasSuffix(de.Name(), suffix) {
			continue
		}
		if de.Name() == currentBase+".json" {
			continue
		}
		stale := filepath.Join(s.dir, de.Name())
		if err := os.Remove(stale); err != nil {
			return err
		}
		staleAudio := strings.TrimSuffix(stale, ".json") + audioDirSuffix
		if err := os.RemoveAll(staleAudio); err != nil {
			return err
		}
	}
	return nil
}

func docToEntry(doc *document) *types.Entry {
	return &types.Entry{
		ID:         doc.ID,
		Name:       doc.Name,
		Content:    doc.Content,
		Mood:       doc.Mood,
		Tags:       doc.Tags,
		Favorite:   doc.Favorite,
		WordCount:  doc.WordCount,
		FontFamily: doc.FontFamily,
		FontSize:   doc.FontSize,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		AudioFiles: doc.AudioFiles,
	}
}
