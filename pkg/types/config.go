package types

import "errors"

// Backend selection modes for Config.Backend.
const (
	SelectAuto   = "auto"
	SelectSQLite = "sqlite"
	SelectMemory = "memory"
	SelectKV     = "kv"
)

// Config holds backend selection and directory parameters for store.Open.
type Config struct {
	// Backend picks the primary backend: "auto" (default) tries the
	// file-backed relational engine, then the memory engine with a blob
	// snapshot, then the flat key-value store. The remaining values force
	// one candidate with no fallback.
	Backend string `json:"backend" yaml:"backend"`

	// DataDir is where the relational database, the key-value file, and
	// snapshot blobs live.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// FilesDir, when non-empty, enables the per-entry file mirror in that
	// directory.
	FilesDir string `json:"files_dir" yaml:"files_dir"`
}

// Config validation errors.
var (
	ErrDataDirEmpty   = errors.New("data dir must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownSelections lists the backend modes that Validate accepts.
var knownSelections = map[string]bool{
	"":           true, // defaults to auto
	SelectAuto:   true,
	SelectSQLite: true,
	SelectMemory: true,
	SelectKV:     true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return ErrDataDirEmpty
	}
	if !knownSelections[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}
