package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/pkg/fileutil"
)

// MaxManifestSize bounds how much of a manifest Get will read.
const MaxManifestSize = 64 << 20

// List returns every run recorded in a backup location, newest first.
// Directories without a readable manifest are ignored.
func List(location string) ([]Manifest, error) {
	entries, err := os.ReadDir(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup location")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifest, err := Get(location, entry.Name())
		if err != nil {
			// Not a run root, or a run interrupted before its records were written
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	// Timestamps sort lexically; same-second suffixes are compared by start time.
	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Timestamp, a.Timestamp)
	})

	return manifests, nil
}

// Get loads the manifest of the run whose root is <location>/<timestamp>.
func Get(location, timestamp string) (*Manifest, error) {
	if timestamp == "" {
		return nil, errors.New("backup timestamp is required")
	}

	root := RootPath(location, timestamp)
	data, err := fileutil.ReadFileLimit(ManifestPath(root), MaxManifestSize)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", timestamp)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	if manifest.Version > ManifestVersion {
		return nil, errors.Newf("manifest version %d is newer than supported version %d", manifest.Version, ManifestVersion)
	}

	manifest.Root = root
	return &manifest, nil
}

// Incomplete returns the roots of a location that are named like a run but
// have no manifest, in name order. Such a root is left by a run that was
// interrupted before its records were written, or by one still in progress.
func Incomplete(location string) ([]string, error) {
	entries, err := os.ReadDir(location)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading backup location")
	}

	var roots []string
	for _, entry := range entries {
		if !entry.IsDir() || !IsRunName(entry.Name()) {
			continue
		}
		root := RootPath(location, entry.Name())
		if _, err := os.Lstat(ManifestPath(root)); os.IsNotExist(err) {
			roots = append(roots, root)
		}
	}
	return roots, nil
}

// IsRunName reports whether name has the form of a run root: a timestamp
// in TimestampFormat, optionally followed by _N.
func IsRunName(name string) bool {
	base, suffix := name, ""
	if len(name) > len(TimestampFormat) {
		base, suffix = name[:len(TimestampFormat)], name[len(TimestampFormat):]
	}
	if _, err := time.Parse(TimestampFormat, base); err != nil {
		return false
	}
	if suffix == "" {
		return true
	}
	n, err := strconv.Atoi(strings.TrimPrefix(suffix, "_"))
	return strings.HasPrefix(suffix, "_") && err == nil && n > 0
}

// Prune removes the oldest runs of a location, keeping the newest keep runs.
// Incomplete roots older than the newest complete run are removed too and
// do not count towards keep; a newer one may belong to a run in progress
// and is left alone. It returns the roots that were removed. Runs are only
// ever removed by an explicit Prune; Session.Run never deletes.
func Prune(location string, keep int) ([]string, error) {
	doomed, err := PruneCandidates(location, keep)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, root := range doomed {
		if filepath.Dir(root) != filepath.Clean(location) {
			return removed, errors.Newf("refusing to remove %s outside %s", root, location)
		}
		if err := os.RemoveAll(root); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", filepath.Base(root))
		}
		removed = append(removed, root)
	}

	return removed, nil
}

// PruneCandidates returns the roots Prune(location, keep) would remove,
// without removing anything.
func PruneCandidates(location string, keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	manifests, err := List(location)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil, nil
		}
		return nil, err
	}

	var doomed []string
	for i := keep; i < len(manifests); i++ {
		doomed = append(doomed, manifests[i].Root)
	}

	incomplete, err := Incomplete(location)
	if err != nil {
		return nil, err
	}
	// Run names sort in creation order.
	newest := manifests[0].Timestamp
	for _, root := range incomplete {
		if compareRunNames(filepath.Base(root), newest) < 0 {
			doomed = append(doomed, root)
		}
	}

	return doomed, nil
}

// compareRunNames orders run names by timestamp, then by suffix number.
func compareRunNames(a, b string) int {
	ta, na := splitRunName(a)
	tb, nb := splitRunName(b)
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return na - nb
}

func splitRunName(name string) (string, int) {
	if len(name) <= len(TimestampFormat) {
		return name, 0
	}
	n, _ := strconv.Atoi(name[len(TimestampFormat)+1:])
	return name[:len(TimestampFormat)], n
}
