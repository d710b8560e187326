package storage

import (
	"fmt"
	"log/slog"

	"github.com/simnote-app/simnote/internal/kvstore"
	"github.com/simnote-app/simnote/internal/sqlite"
	"github.com/simnote-app/simnote/pkg/types"
)

// selectBackend resolves the primary backend once at init. In auto mode the
// candidates are tried in order: file-backed relational engine, memory
// relational engine with a blob snapshot, flat key-value store. A candidate
// that fails to initialize is logged and the next one is tried; the failure
// is never surfaced to the caller unless every candidate fails. The choice
// is sticky for the facade's lifetime.
func selectBackend(cfg types.Config, store *kvstore.Store, scratchDir string, logger *slog.Logger) (types.Backend, error) {
	switch cfg.Backend {
	case types.SelectSQLite:
		return sqlite.Open(cfg.DataDir, logger)
	case types.SelectMemory:
		return sqlite.OpenMemory(store, scratchDir, logger)
	case types.SelectKV:
		return kvstore.OpenWithStore(store, logger)
	}

	if b, err := sqlite.Open(cfg.DataDir, logger); err == nil {
		return b, nil
	} else {
		logger.Warn("relational engine unavailable, trying memory engine", "error", err)
	}

	if b, err := sqlite.OpenMemory(store, scratchDir, logger); err == nil {
		return b, nil
	} else {
		logger.Warn("memory engine unavailable, falling back to key-value store", "error", err)
	}

	b, err := kvstore.OpenWithStore(store, logger)
	if err != nil {
		return nil, fmt.Errorf("no storage backend available: %w", err)
	}
	return b, nil
}
