// Package kvstore implements the flat key-value storage backend and the
// shared key-value file that backs it. The same file also holds the facade's
// backup blob and the relational engine's memory-mode snapshot, so the store
// type is exported separately from the backend.
package kvstore

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// StoreFileName is the single JSON document holding every key.
const StoreFileName = "simnote.json"

// Store is a flat key to JSON-value map persisted as one file. Every Set
// rewrites the whole file atomically, the same way a localStorage-class
// store rewrites its backing database.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// OpenStore loads (or creates) the key-value file under dataDir.
// A missing file yields an empty store; a corrupt file is an error.
func OpenStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	s := &Store{
		path: filepath.Join(dataDir, StoreFileName),
		data: make(map[string]json.RawMessage),
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", s.path, err)
		}
	}
	return s, nil
}

// Get returns the raw JSON value stored under key.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores value under key and persists the whole file.
func (s *Store) Set(key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persistLocked()
}

// Delete removes key and persists. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.persistLocked()
}

// Keys returns all keys with the given prefix, sorted.
func (s *Store) Keys(prefix string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.data {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clear removes every key and persists the empty document.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]json.RawMessage)
	return s.persistLocked()
}

// SetBlob stores arbitrary bytes under key, base64-wrapped so the backing
// document stays valid JSON.
func (s *Store) SetBlob(key string, blob []byte) error {
	encoded, err := json.Marshal(base64.StdEncoding.EncodeToString(blob))
	if err != nil {
		return fmt.Errorf("encoding blob %s: %w", key, err)
	}
	return s.Set(key, encoded)
}

// GetBlob returns the bytes stored by SetBlob, or ok=false if absent or
// not a valid base64 string value.
func (s *Store) GetBlob(key string) ([]byte, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, false
	}
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false
	}
	return blob, true
}

// persistLocked writes the whole document atomically using the temp-file,
// fsync, rename pattern. The caller must hold s.mu.
func (s *Store) persistLocked() error {
	doc, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}
	return WriteFileAtomic(s.path, doc)
}

// WriteFileAtomic writes data to path via a temp file in the same directory,
// fsyncs, and renames into place so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".simnote-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
