// Package store provides the public API for opening the SimNote journal.
// It hides backend selection, migration, and replication behind a single
// factory while keeping implementation details internal.
package store

import (
	"log/slog"

	"github.com/simnote-app/simnote/internal/storage"
	"github.com/simnote-app/simnote/pkg/types"
)

// Journal is the storage facade handed to application collaborators.
// Exactly one instance per process is intended; construct it at startup and
// pass it down rather than reaching for a global.
type Journal = storage.Journal

// Options tune facade construction.
type Options = storage.Options

// Open initializes the journal: it selects a primary backend per the
// configured policy, migrates legacy data once, and enables the file mirror
// when configured.
//
// Example:
//
//	journal, err := store.Open(types.Config{
//	    Backend: types.SelectAuto,
//	    DataDir: dataDir,
//	}, store.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//	defer journal.Close()
func Open(cfg types.Config, opts Options) (*Journal, error) {
	j := storage.New(cfg, opts)
	if err := j.Init(); err != nil {
		return nil, err
	}
	return j, nil
}

// OpenDefault opens the journal with the default logger and options.
func OpenDefault(cfg types.Config) (*Journal, error) {
	return Open(cfg, Options{Logger: slog.Default()})
}
