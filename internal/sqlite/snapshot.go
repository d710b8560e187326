package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// snapshotKey is the blob-store key holding the serialized engine.
const snapshotKey = "simnote_sqlite_snapshot"

// snapshot serializes the whole database into the blob store. VACUUM INTO
// produces a consistent copy even while the engine is open, so the snapshot
// never observes a half-applied transaction.
func (b *Backend) snapshot() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(b.scratchPath), "simnote-snap-*.db")
	if err != nil {
		return fmt.Errorf("creating snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	// VACUUM INTO refuses to overwrite an existing file.
	os.Remove(tmpName)
	defer os.Remove(tmpName)

	if _, err := b.db.Exec("VACUUM INTO ?", tmpName); err != nil {
		return fmt.Errorf("vacuuming into snapshot: %w", err)
	}
	data, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}
	if err := b.blob.SetBlob(snapshotKey, data); err != nil {
		return fmt.Errorf("storing snapshot blob: %w", err)
	}
	return nil
}

// startSnapshotTimer arms the fixed-interval snapshot, independent of
// mutation-triggered snapshots, to bound data loss on ungraceful
// termination.
func (b *Backend) startSnapshotTimer() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snapshotTimer != nil {
		return
	}
	b.snapshotTimer = time.AfterFunc(snapshotInterval, b.timerSnapshot)
}

func (b *Backend) timerSnapshot() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	// Registered under the lock so Close cannot start waiting between the
	// closed check and the snapshot.
	b.snapshotWG.Add(1)
	b.mu.Unlock()
	defer b.snapshotWG.Done()

	if err := b.snapshot(); err != nil {
		b.logger.Warn("timer snapshot failed", "error", err)
	}

	b.mu.Lock()
	if b.snapshotTimer != nil && !b.closed {
		b.snapshotTimer.Reset(snapshotInterval)
	}
	b.mu.Unlock()
}

// stopSnapshotTimer stops the interval timer if running. The caller must
// hold b.mu.
func (b *Backend) stopSnapshotTimer() {
	if b.snapshotTimer != nil {
		b.snapshotTimer.Stop()
		b.snapshotTimer = nil
	}
}
