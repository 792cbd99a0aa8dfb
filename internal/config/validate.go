package config

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/exclude"
	"github.com/thoreinstein/snapdir/internal/logging"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version other than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrDuplicateLocation indicates the same backup location is listed twice.
	ErrDuplicateLocation = errors.New("duplicate location")

	// ErrNegative indicates a count that must not be negative.
	ErrNegative = errors.New("must not be negative")
)

// Validate checks a Config for validity.
// Returns nil if valid, or every validation error found, in field order.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, &FieldError{Field: "version", Value: strconv.Itoa(cfg.Version), Err: ErrUnsupportedVersion})
	}

	if len(cfg.Sources) == 0 {
		errs = append(errs, backup.ErrNoSources)
	}
	aliases := make(map[string]struct{}, len(cfg.Sources))
	for i, src := range cfg.Sources {
		field := "sources[" + strconv.Itoa(i) + "]"
		if err := validatePath(src.Path); err != nil {
			errs = append(errs, &FieldError{Field: field + ".path", Value: src.Path, Err: err})
		}
		if err := backup.ValidateAlias(src.Alias); err != nil {
			errs = append(errs, &FieldError{Field: field + ".alias", Err: err})
			continue
		}
		if _, dup := aliases[src.Alias]; dup {
			errs = append(errs, &FieldError{Field: field + ".alias", Value: src.Alias, Err: backup.ErrDuplicateAlias})
		}
		aliases[src.Alias] = struct{}{}
	}

	if len(cfg.Locations) == 0 {
		errs = append(errs, backup.ErrNoLocations)
	}
	locations := make(map[string]struct{}, len(cfg.Locations))
	for i, loc := range cfg.Locations {
		field := "locations[" + strconv.Itoa(i) + "]"
		if err := validatePath(loc); err != nil {
			errs = append(errs, &FieldError{Field: field, Value: loc, Err: err})
			continue
		}
		clean := filepath.Clean(loc)
		if _, dup := locations[clean]; dup {
			errs = append(errs, &FieldError{Field: field, Value: loc, Err: ErrDuplicateLocation})
		}
		locations[clean] = struct{}{}
	}

	if _, err := exclude.ParsePatterns(cfg.Exclude.Patterns); err != nil {
		errs = append(errs, &FieldError{Field: "exclude.patterns", Err: err})
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, &FieldError{Field: "log.level", Err: err})
	}
	if cfg.Log.File != "" {
		if err := validatePath(cfg.Log.File); err != nil {
			errs = append(errs, &FieldError{Field: "log.file", Value: cfg.Log.File, Err: err})
		}
	}
	if cfg.Log.MaxSizeMB < 0 {
		errs = append(errs, &FieldError{Field: "log.max_size_mb", Value: strconv.Itoa(cfg.Log.MaxSizeMB), Err: ErrNegative})
	}
	if cfg.Log.MaxBackups < 0 {
		errs = append(errs, &FieldError{Field: "log.max_backups", Value: strconv.Itoa(cfg.Log.MaxBackups), Err: ErrNegative})
	}

	if cfg.Workers < 0 {
		errs = append(errs, &FieldError{Field: "workers", Value: strconv.Itoa(cfg.Workers), Err: ErrNegative})
	}

	return errs
}

// validatePath checks that a path is non-empty and syntactically valid.
// It does not check that the path exists.
func validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.Wrap(ErrInvalidPath, "path is empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	if cleaned := filepath.Clean(path); cleaned == "" {
		return ErrInvalidPath
	}
	return nil
}

// FieldError is a validation error for a single configuration field.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
