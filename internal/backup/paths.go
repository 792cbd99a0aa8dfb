package backup

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// RootPath returns <location>/<timestamp>.
func RootPath(location, timestamp string) string {
	return filepath.Join(location, timestamp)
}

// AliasDir returns <root>/<alias>.
func AliasDir(root, alias string) string {
	return filepath.Join(root, alias)
}

// NotesPath returns the notes file of a root.
func NotesPath(root string) string {
	return filepath.Join(root, NotesFileName)
}

// ManifestPath returns the manifest file of a root.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestFileName)
}

// ValidateAlias checks that alias can name a single directory inside a run
// root without colliding with the root's own record files.
func ValidateAlias(alias string) error {
	switch {
	case strings.TrimSpace(alias) == "":
		return errors.Wrap(ErrInvalidAlias, "alias is empty")
	case alias == "." || alias == "..":
		return errors.Wrapf(ErrInvalidAlias, "%q", alias)
	case strings.ContainsAny(alias, `/\`) || strings.ContainsRune(alias, 0):
		return errors.Wrapf(ErrInvalidAlias, "%q must be a single path element", alias)
	case alias == NotesFileName || alias == ManifestFileName:
		return errors.Wrapf(ErrInvalidAlias, "%q is reserved", alias)
	}
	return nil
}

// ValidateSources checks every alias and that aliases are unique.
func ValidateSources(sources []Source) error {
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		if s.Path == "" {
			return errors.Newf("source %q has no path", s.Alias)
		}
		if err := ValidateAlias(s.Alias); err != nil {
			return err
		}
		if _, dup := seen[s.Alias]; dup {
			return errors.Wrapf(ErrDuplicateAlias, "%q", s.Alias)
		}
		seen[s.Alias] = struct{}{}
	}
	return nil
}
