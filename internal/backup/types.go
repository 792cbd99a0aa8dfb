package backup

import (
	"time"

	"github.com/thoreinstein/snapdir/internal/copier"
	"github.com/thoreinstein/snapdir/internal/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// File and directory naming inside a backup location.
const (
	// TimestampFormat names run roots; it sorts lexically in time order.
	TimestampFormat = "20060102_150405"

	// NotesFileName is the human-readable notes file written into every root.
	NotesFileName = "backup_notes.txt"

	// ManifestFileName is the machine-readable run record written into every root.
	ManifestFileName = "manifest.json"
)

// Default configuration values.
const (
	// DefaultWorkers is the number of (location, source) pairs copied concurrently.
	DefaultWorkers = 4

	// DefaultRetentionCount is the number of runs Prune keeps when asked for no explicit count.
	DefaultRetentionCount = 5
)

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no runs exist in the backup location.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrNoSources indicates a session was started without source entries.
	ErrNoSources = errors.New("at least one source is required")

	// ErrNoLocations indicates a session was started without backup locations.
	ErrNoLocations = errors.New("at least one backup location is required")

	// ErrInvalidAlias indicates an alias that cannot name a destination subdirectory.
	ErrInvalidAlias = errors.New("invalid alias")

	// ErrDuplicateAlias indicates two sources share an alias.
	ErrDuplicateAlias = errors.New("duplicate alias")
)

// Source is one directory tree to back up, copied under <root>/<Alias>.
type Source struct {
	Path  string `json:"path"`
	Alias string `json:"alias"`
}

// Pair is one unit of work: a source copied into one backup location.
type Pair struct {
	// Location is the configured backup location.
	Location string
	// Root is <Location>/<timestamp>.
	Root string
	// Source is the source entry being copied.
	Source Source
}

// AliasDir returns the destination directory of the pair.
func (p Pair) AliasDir() string {
	return AliasDir(p.Root, p.Source.Alias)
}

// State classifies a finished run.
type State int

const (
	// StateSucceeded means no outcome failed.
	StateSucceeded State = iota
	// StatePartial means some outcomes failed and some did not.
	StatePartial
	// StateFailed means every outcome failed.
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StatePartial:
		return "partial"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Summary is the aggregate result of one run. It is built by Session.Run
// and not modified afterwards.
type Summary struct {
	// ID uniquely identifies the run.
	ID string `json:"id"`

	// Timestamp is the name of the run's root directory in every location.
	Timestamp string `json:"timestamp"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Notes is the free text supplied for the run.
	Notes string `json:"notes,omitempty"`

	Sources []Source `json:"sources"`

	// Roots lists the run roots that were created, in location order.
	Roots []string `json:"roots"`

	Copied  int `json:"copied"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	// Bytes is the total size of copied files.
	Bytes int64 `json:"bytes"`

	// Failures holds every failed outcome, in location then source order.
	Failures []copier.Outcome `json:"failures,omitempty"`

	// Cancelled is set when the run stopped dispatching work early.
	Cancelled bool `json:"cancelled,omitempty"`
}

// State derives the run state from the outcome counts.
func (s *Summary) State() State {
	switch {
	case s.Failed == 0:
		return StateSucceeded
	case s.Copied+s.Skipped == 0:
		return StateFailed
	default:
		return StatePartial
	}
}

// HasFailures reports whether any outcome failed.
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// Manifest is the run record stored as manifest.json in each root.
type Manifest struct {
	// Version is the manifest format version for forward compatibility.
	Version int `json:"version"`

	// SnapdirVersion is the version of snapdir that wrote the manifest.
	SnapdirVersion string `json:"snapdir_version"`

	Summary

	// Root is the directory the manifest was loaded from.
	// It is populated when loading from disk and not stored in JSON.
	Root string `json:"-"`
}
