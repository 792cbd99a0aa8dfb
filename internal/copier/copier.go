// Package copier mirrors one source directory tree into a destination.
//
// [Copier.CopyTree] walks the source in lexical order, recreates every
// directory, copies every regular file whose name the exclusion filter
// accepts, and reports one [Outcome] per file. A failure on one entry is
// recorded and the walk continues with its siblings.
//
// Symbolic links are followed: a link to a file is copied as the target's
// content, a dangling link fails, and a link to a directory is skipped so
// that link cycles cannot recurse forever.
package copier

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/exclude"
	"github.com/thoreinstein/snapdir/internal/logging"
)

// Skip reasons reported in Outcome.Reason.
const (
	ReasonExcluded    = "excluded"
	ReasonSymlinkDir  = "symlinked directory not followed"
	ReasonIrregular   = "not a regular file"
	ReasonDestination = "backup destination not copied"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Copier copies directory trees. It holds no per-tree state, so one Copier
// may serve concurrent CopyTree calls if its observer is safe for concurrent use.
type Copier struct {
	filter   *exclude.Filter
	logger   *slog.Logger
	observer func(Outcome)
	// protect lists directories the walk must never descend into.
	protect []string
}

// Option configures a Copier.
type Option func(*Copier)

// WithFilter sets the exclusion filter. Without one nothing is excluded.
func WithFilter(f *exclude.Filter) Option {
	return func(c *Copier) {
		c.filter = f
	}
}

// WithLogger sets the logger receiving per-file events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Copier) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a callback invoked with every outcome as it is produced.
func WithObserver(fn func(Outcome)) Option {
	return func(c *Copier) {
		c.observer = fn
	}
}

// WithProtectedDirs names directories that are skipped if they turn up
// inside a source tree, matched by file identity. A run passes its own
// roots so that a location nested in a source is not copied into itself.
func WithProtectedDirs(dirs ...string) Option {
	return func(c *Copier) {
		c.protect = append(c.protect, dirs...)
	}
}

// New creates a Copier with the given options.
func New(opts ...Option) *Copier {
	c := &Copier{
		logger: logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CopyTree copies srcDir into dstDir and returns the outcome of every file.
//
// If srcDir is missing, unreadable or not a directory, a single failed
// outcome marked ErrSourceUnavailable is returned. If dstDir cannot be
// created, a single failed outcome marked ErrDestinationUnavailable is
// returned. Existing destination files are overwritten.
func (c *Copier) CopyTree(srcDir, dstDir string) []Outcome {
	t := &tree{Copier: c}

	info, err := os.Stat(srcDir)
	if err != nil {
		t.fail(srcDir, dstDir, errors.Mark(errors.Wrapf(err, "reading source %s", srcDir), errors.ErrSourceUnavailable))
		return t.outcomes
	}
	if !info.IsDir() {
		t.fail(srcDir, dstDir, errors.Mark(errors.Newf("source %s is not a directory", srcDir), errors.ErrSourceUnavailable))
		return t.outcomes
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		t.fail(srcDir, dstDir, errors.Mark(errors.Wrapf(err, "reading source %s", srcDir), errors.ErrSourceUnavailable))
		return t.outcomes
	}

	if err := os.MkdirAll(dstDir, dirPerm); err != nil {
		t.fail(srcDir, dstDir, errors.Mark(errors.Wrapf(err, "creating destination %s", dstDir), errors.ErrDestinationUnavailable))
		return t.outcomes
	}

	for _, dir := range c.protect {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			t.protected = append(t.protected, info)
		}
	}

	t.walk(srcDir, dstDir, entries)
	return t.outcomes
}

// tree accumulates the outcomes of one CopyTree call.
type tree struct {
	*Copier
	outcomes  []Outcome
	protected []os.FileInfo
}

func (t *tree) emit(o Outcome) {
	switch o.Status {
	case StatusCopied:
		t.logger.Info("copied", "source", o.Source, "dest", o.Dest, "bytes", o.Bytes)
	case StatusSkipped:
		t.logger.Info("skipped", "source", o.Source, "reason", o.Reason)
	case StatusFailed:
		t.logger.Error("copy failed", "source", o.Source, "dest", o.Dest, "error", o.Err)
	}

	t.outcomes = append(t.outcomes, o)
	if t.observer != nil {
		t.observer(o)
	}
}

func (t *tree) fail(src, dst string, err error) {
	t.emit(Outcome{Source: src, Dest: dst, Status: StatusFailed, Err: err})
}

func (t *tree) skip(src, dst, reason string) {
	t.emit(Outcome{Source: src, Dest: dst, Status: StatusSkipped, Reason: reason})
}

func (t *tree) walk(srcDir, dstDir string, entries []fs.DirEntry) {
	t.logger.Debug("entering directory", "dir", srcDir, "entries", len(entries))

	for _, e := range entries {
		src := filepath.Join(srcDir, e.Name())
		dst := filepath.Join(dstDir, e.Name())

		if e.IsDir() {
			t.copyDir(src, dst)
			continue
		}

		if t.filter.ShouldExclude(e.Name()) {
			t.skip(src, dst, ReasonExcluded)
			continue
		}

		switch {
		case e.Type()&fs.ModeSymlink != 0:
			t.copyLink(src, dst)
		case e.Type().IsRegular():
			t.copyFile(src, dst)
		default:
			t.skip(src, dst, ReasonIrregular)
		}
	}

	t.logger.Debug("leaving directory", "dir", srcDir)
}

// copyDir recreates a directory before reading it, so that empty and
// unreadable directories still appear in the destination.
func (t *tree) copyDir(src, dst string) {
	if t.isProtected(src) {
		t.skip(src, dst, ReasonDestination)
		return
	}
	if err := os.MkdirAll(dst, dirPerm); err != nil {
		t.fail(src, dst, errors.Mark(errors.Wrapf(err, "creating directory %s", dst), errors.ErrFileCopyFailed))
		return
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		t.fail(src, dst, errors.Mark(errors.Wrapf(err, "reading directory %s", src), errors.ErrFileCopyFailed))
	}
	if len(entries) == 0 && err != nil {
		return
	}

	t.walk(src, dst, entries)
}

func (t *tree) isProtected(dir string) bool {
	if len(t.protected) == 0 {
		return false
	}
	info, err := os.Lstat(dir)
	if err != nil {
		return false
	}
	for _, p := range t.protected {
		if os.SameFile(info, p) {
			return true
		}
	}
	return false
}

func (t *tree) copyLink(src, dst string) {
	info, err := os.Stat(src)
	if err != nil {
		t.fail(src, dst, errors.Mark(errors.Wrapf(err, "resolving symlink %s", src), errors.ErrFileCopyFailed))
		return
	}

	switch {
	case info.IsDir():
		t.skip(src, dst, ReasonSymlinkDir)
	case info.Mode().IsRegular():
		t.copyFile(src, dst)
	default:
		t.skip(src, dst, ReasonIrregular)
	}
}

func (t *tree) copyFile(src, dst string) {
	n, err := copyFile(src, dst)
	if err != nil {
		t.fail(src, dst, errors.Mark(errors.Wrapf(err, "copying %s", src), errors.ErrFileCopyFailed))
		return
	}
	t.emit(Outcome{Source: src, Dest: dst, Status: StatusCopied, Bytes: n})
}

// chmod is replaced in tests.
var chmod = os.Chmod

// copyFile copies the content of src to dst, replacing any existing file,
// and applies the source's permission bits. A partially written dst is removed.
func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat source file")
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Newf("%s is not a regular file", src)
	}

	// Replace rather than write through: the existing entry may be
	// read-only or a symlink.
	if existing, err := os.Lstat(dst); err == nil && !existing.IsDir() {
		if err := os.Remove(dst); err != nil {
			return 0, errors.Wrap(err, "removing existing destination file")
		}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return 0, errors.Wrap(err, "creating destination file")
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return 0, errors.Wrap(err, "copying file")
	}

	if err := out.Close(); err != nil {
		os.Remove(dst)
		return 0, errors.Wrap(err, "closing destination file")
	}

	if err := chmod(dst, info.Mode().Perm()); err != nil {
		os.Remove(dst)
		return 0, errors.Wrap(err, "setting permissions")
	}

	return n, nil
}
