package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/validator"
)

// Check validates cfg and inspects the filesystem it refers to.
//
// Validation failures become errors. Conditions a run survives become
// warnings: a source that is missing or not a directory fails only that
// source, and a location that does not exist yet is created on demand.
func Check(cfg *Config) *validator.Result {
	result := &validator.Result{}

	for _, err := range Validate(cfg) {
		var fe *FieldError
		if errors.As(err, &fe) {
			var value any
			if fe.Value != "" {
				value = fe.Value
			}
			result.AddError(fe.Field, fe.Err.Error(), value)
			continue
		}
		result.AddError("", err.Error(), nil)
	}
	if cfg == nil {
		return result
	}

	for i, src := range cfg.Sources {
		if validatePath(src.Path) != nil {
			continue
		}
		field := "sources[" + strconv.Itoa(i) + "].path"
		info, err := os.Stat(src.Path)
		switch {
		case err != nil:
			result.AddWarning(field, "source is not readable; it will be recorded as failed", src.Path)
		case !info.IsDir():
			result.AddWarning(field, "source is not a directory; it will be recorded as failed", src.Path)
		}
	}

	for i, loc := range cfg.Locations {
		if validatePath(loc) != nil {
			continue
		}
		field := "locations[" + strconv.Itoa(i) + "]"
		info, err := os.Stat(loc)
		switch {
		case err != nil:
			result.AddInfo(field, "location does not exist yet; it will be created", loc)
		case !info.IsDir():
			result.AddWarning(field, "location is not a directory; every copy to it will fail", loc)
		}
		for _, src := range cfg.Sources {
			if within(src.Path, loc) {
				result.AddWarning(field, "location is inside source "+src.Alias+"; earlier runs will be copied into every new run", loc)
			}
		}
	}

	if cfg.Log.File == "" {
		result.AddInfo("log.file", "file logging is disabled", nil)
	}

	return result
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	if validatePath(dir) != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
