package backup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/thoreinstein/snapdir/internal/copier"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/exclude"
	"github.com/thoreinstein/snapdir/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Observer receives every outcome as it is produced. Observe is called
// from several goroutines when more than one worker is configured.
type Observer interface {
	Observe(p Pair, o copier.Outcome)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(p Pair, o copier.Outcome)

// Observe calls f(p, o).
func (f ObserverFunc) Observe(p Pair, o copier.Outcome) {
	f(p, o)
}

// Session runs one backup over every (location, source) pair.
type Session struct {
	sources   []Source
	locations []string
	filter    *exclude.Filter
	notes     string
	logger    *slog.Logger
	workers   int
	now       func() time.Time
	observer  Observer
}

// Option configures a Session.
type Option func(*Session)

// WithSources sets the source entries, in the order they are processed.
func WithSources(sources ...Source) Option {
	return func(s *Session) {
		s.sources = append(s.sources, sources...)
	}
}

// WithLocations sets the backup locations, in the order they are processed.
func WithLocations(locations ...string) Option {
	return func(s *Session) {
		s.locations = append(s.locations, locations...)
	}
}

// WithFilter sets the exclusion filter shared by every pair.
func WithFilter(f *exclude.Filter) Option {
	return func(s *Session) {
		s.filter = f
	}
}

// WithNotes sets the free text written into every notes file.
func WithNotes(notes string) Option {
	return func(s *Session) {
		s.notes = notes
	}
}

// WithLogger sets the logger for run and per-file events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers sets how many pairs are copied concurrently. Values below 1
// select DefaultWorkers.
func WithWorkers(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock overrides the time source used for the run timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver registers an observer for per-file outcomes.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// NewSession creates a Session with the given options.
func NewSession(opts ...Option) *Session {
	s := &Session{
		logger:  logging.NewDiscard(),
		workers: DefaultWorkers,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs the backup and returns its summary.
//
// Per-file, per-source and per-location failures never abort the run; they
// are recorded in the summary. Run returns an error only for invalid
// session input, or when ctx is cancelled, in which case the summary covers
// the pairs that were dispatched before cancellation.
func (s *Session) Run(ctx context.Context) (*Summary, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	started := s.now()
	summary := &Summary{
		ID:        uuid.NewString(),
		StartedAt: started.UTC(),
		Notes:     s.notes,
		Sources:   slices.Clone(s.sources),
	}
	summary.Timestamp = reserveTimestamp(s.locations, started)

	logger := s.logger.With("run", summary.ID)
	logger.Info("starting backup",
		"timestamp", summary.Timestamp,
		"sources", len(s.sources),
		"locations", len(s.locations))
	for _, src := range s.sources {
		logger.Info("source", "path", src.Path, "alias", src.Alias)
	}

	roots := make([]string, len(s.locations))
	rootErrs := make([]error, len(s.locations))
	for i, loc := range s.locations {
		root := RootPath(loc, summary.Timestamp)
		if err := createRoot(root); err != nil {
			rootErrs[i] = errors.Mark(errors.Wrapf(err, "creating backup root %s", root), errors.ErrDestinationUnavailable)
			logger.Error("backup location unavailable", "location", loc, "error", rootErrs[i])
			continue
		}
		roots[i] = root
		summary.Roots = append(summary.Roots, root)
		logger.Info("created backup root", "root", root)
	}

	pairs := make([]Pair, 0, len(s.locations)*len(s.sources))
	pairErrs := make([]error, 0, cap(pairs))
	for i, loc := range s.locations {
		root := roots[i]
		if root == "" {
			root = RootPath(loc, summary.Timestamp)
		}
		for _, src := range s.sources {
			pairs = append(pairs, Pair{Location: loc, Root: root, Source: src})
			pairErrs = append(pairErrs, rootErrs[i])
		}
	}

	results := make([][]copier.Outcome, len(pairs))

	var g errgroup.Group
	g.SetLimit(s.workers)

	var cancelErr error
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			break
		}
		if pairErrs[i] != nil {
			results[i] = s.failPair(logger, p, pairErrs[i])
			continue
		}
		g.Go(func() error {
			results[i] = s.copyPair(logger, p, summary.Roots)
			return nil
		})
	}
	_ = g.Wait()

	for _, outcomes := range results {
		summary.add(outcomes...)
	}
	summary.Cancelled = cancelErr != nil
	summary.FinishedAt = s.now().UTC()

	// Counts are fixed before the records are written so every root
	// carries the same numbers.
	record := *summary
	record.Failures = slices.Clone(summary.Failures)
	for _, root := range summary.Roots {
		if err := writeRecords(root, &record); err != nil {
			err = errors.Mark(errors.Wrapf(err, "writing notes for %s", root), errors.ErrNotesWriteFailed)
			logger.Error("notes write failed", "root", root, "error", err)
			summary.add(copier.Outcome{Dest: NotesPath(root), Status: copier.StatusFailed, Err: err})
		}
	}

	logger.Info("backup finished",
		"state", summary.State(),
		"copied", summary.Copied,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"bytes", summary.Bytes)

	if cancelErr != nil {
		return summary, errors.Wrap(cancelErr, "backup cancelled")
	}
	return summary, nil
}

func (s *Session) validate() error {
	if len(s.sources) == 0 {
		return ErrNoSources
	}
	if len(s.locations) == 0 {
		return ErrNoLocations
	}
	return ValidateSources(s.sources)
}

// copyPair copies one source into one root. roots are the run's roots,
// which the copier skips should a location sit inside the source.
func (s *Session) copyPair(logger *slog.Logger, p Pair, roots []string) []copier.Outcome {
	pairLogger := logger.With("alias", p.Source.Alias, "location", p.Location)
	pairLogger.Debug("copying source", "source", p.Source.Path, "dest", p.AliasDir())

	opts := []copier.Option{
		copier.WithFilter(s.filter),
		copier.WithLogger(pairLogger),
		copier.WithProtectedDirs(roots...),
	}
	if s.observer != nil {
		opts = append(opts, copier.WithObserver(func(o copier.Outcome) {
			s.observer.Observe(p, o)
		}))
	}

	return copier.New(opts...).CopyTree(p.Source.Path, p.AliasDir())
}

// failPair records the single outcome of a pair whose root could not be created.
func (s *Session) failPair(logger *slog.Logger, p Pair, err error) []copier.Outcome {
	o := copier.Outcome{
		Source: p.Source.Path,
		Dest:   p.AliasDir(),
		Status: copier.StatusFailed,
		Err:    err,
	}
	logger.Error("copy failed",
		"alias", p.Source.Alias,
		"source", o.Source,
		"dest", o.Dest,
		"error", err)
	if s.observer != nil {
		s.observer.Observe(p, o)
	}
	return []copier.Outcome{o}
}

func (s *Summary) add(outcomes ...copier.Outcome) {
	for _, o := range outcomes {
		switch o.Status {
		case copier.StatusCopied:
			s.Copied++
			s.Bytes += o.Bytes
		case copier.StatusSkipped:
			s.Skipped++
		case copier.StatusFailed:
			s.Failed++
			s.Failures = append(s.Failures, o)
		}
	}
}

// reserveTimestamp picks a root name that does not yet exist in any
// location, so a run never merges into an earlier one. Same-second runs get
// a numeric suffix.
func reserveTimestamp(locations []string, t time.Time) string {
	base := t.Format(TimestampFormat)
	for n := 0; ; n++ {
		candidate := base
		if n > 0 {
			candidate = base + "_" + strconv.Itoa(n)
		}
		taken := false
		for _, loc := range locations {
			if _, err := os.Lstat(RootPath(loc, candidate)); err == nil {
				taken = true
				break
			}
		}
		if !taken {
			return candidate
		}
	}
}

// createRoot creates the location if needed and then the root itself. The
// root must not already exist.
func createRoot(root string) error {
	if err := os.MkdirAll(filepath.Dir(root), 0o755); err != nil {
		return err
	}
	return os.Mkdir(root, 0o755)
}
