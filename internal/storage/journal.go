// Package storage implements the journal facade: the single entry point the
// rest of the application talks to. It selects a primary backend once at
// init, performs every CRUD operation there, and mirrors each mutation into
// the per-entry file store and a backup blob on a best-effort basis.
package storage

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/simnote-app/simnote/internal/filestore"
	"github.com/simnote-app/simnote/internal/kvstore"
	"github.com/simnote-app/simnote/pkg/types"
)

// backupKey is the key-value store key holding the full-list backup blob.
const backupKey = "simnote_backup_entries"

// MirrorErrorFunc receives replication failures. Mirror writes are
// best-effort: failures land here and in the log, never in the caller's
// result.
type MirrorErrorFunc func(op string, err error)

// Options tune facade construction. The zero value is usable.
type Options struct {
	Logger *slog.Logger

	// OnMirrorError, when set, observes every failed mirror write.
	OnMirrorError MirrorErrorFunc

	// ScratchDir hosts the memory-mode engine's working file. Defaults to
	// the system temp directory.
	ScratchDir string
}

// Journal is the storage facade. All methods are safe for use from one
// goroutine at a time per entry; mutations are additionally serialized
// internally.
type Journal struct {
	cfg  config
	once sync.Once
	err  error

	mu       sync.Mutex
	primary  types.Backend
	store    *kvstore.Store
	files    *filestore.Store
	logger   *slog.Logger
	onMirror MirrorErrorFunc
	mirrorWG sync.WaitGroup
	closed   bool
}

type config struct {
	types.Config
	Options
}

// New builds an uninitialized facade. Init (or the first operation through
// pkg/store) opens backends, runs migration, and is idempotent.
func New(cfg types.Config, opts Options) *Journal {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Journal{
		cfg:      config{Config: cfg, Options: opts},
		logger:   opts.Logger,
		onMirror: opts.OnMirrorError,
	}
}

// Init opens the key-value store, selects the primary backend (running the
// legacy migration where it applies), and opens the file mirror when
// configured. Safe to call multiple times: every call after the first
// returns the first call's outcome.
func (j *Journal) Init() error {
	j.once.Do(func() { j.err = j.init() })
	return j.err
}

func (j *Journal) init() error {
	if err := j.cfg.Validate(); err != nil {
		return err
	}

	store, err := kvstore.OpenStore(j.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening key-value store: %w", err)
	}
	j.store = store

	primary, err := selectBackend(j.cfg.Config, store, j.cfg.ScratchDir, j.logger)
	if err != nil {
		return err
	}
	j.primary = primary
	j.logger.Info("storage ready", "backend", primary.Name())

	if j.cfg.FilesDir != "" {
		files, err := filestore.New(j.cfg.FilesDir, j.logger)
		if err != nil {
			// The file mirror is an optional replica; losing it is not
			// fatal to the primary store.
			j.logger.Warn("file mirror disabled", "dir", j.cfg.FilesDir, "error", err)
		} else {
			j.files = files
		}
	}
	return nil
}

// BackendName reports which backend the selection policy chose.
func (j *Journal) BackendName() string {
	if j.primary == nil {
		return ""
	}
	return j.primary.Name()
}

// FilesEnabled reports whether the per-entry file mirror is active.
func (j *Journal) FilesEnabled() bool { return j.files != nil }

// Close waits for in-flight mirror writes and closes the primary backend.
func (j *Journal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	j.mirrorWG.Wait()
	if j.primary != nil {
		return j.primary.Close()
	}
	return nil
}

// Flush blocks until every mirror write issued so far has settled. Mirrors
// are fire-and-forget; Flush exists for shutdown and tests, not for
// callers to sequence against.
func (j *Journal) Flush() {
	j.mirrorWG.Wait()
}

// mirror runs fn on its own goroutine. It is called only after the primary
// write has completed, preserving the ordering guarantee that primary state
// is visible before any mirror write is issued. Failures are logged and
// handed to the error sink, never returned.
func (j *Journal) mirror(op string, fn func() error) {
	j.mirrorWG.Add(1)
	go func() {
		defer j.mirrorWG.Done()
		if err := fn(); err != nil {
			j.logger.Warn("mirror write failed", "op", op, "error", err)
			if j.onMirror != nil {
				j.onMirror(op, err)
			}
		}
	}()
}

// replicate issues the two standard mirror writes after a successful
// mutation: the whole current entry list into the backup blob, and the
// per-entry file sync when the mirror is enabled. The full-list backup is
// intentionally O(n) per mutation; it keeps a last-known-good snapshot
// recoverable even if the primary's medium is wiped.
func (j *Journal) replicate(op string, fileOp func(*filestore.Store) error) {
	entries, err := j.primary.Entries()
	if err != nil {
		j.logger.Warn("backup snapshot skipped", "op", op, "error", err)
		return
	}

	j.mirror(op+" backup", func() error {
		return j.writeBackup(entries)
	})
	if j.files != nil && fileOp != nil {
		files := j.files
		j.mirror(op+" files", func() error {
			return fileOp(files)
		})
	}
}

func (j *Journal) writeBackup(entries []*types.Entry) error {
	doc, err := backupDocument(entries)
	if err != nil {
		return err
	}
	return j.store.Set(backupKey, doc)
}
