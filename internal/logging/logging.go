package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// LevelTrace is below Debug and is reached with -vvv.
const LevelTrace = slog.LevelDebug - 4

// ErrUnknownLevel indicates a level name outside ERROR, INFO and DEBUG.
var ErrUnknownLevel = errors.New("unknown log level")

// Config describes a console logger.
type Config struct {
	// Level is the threshold; records below it are dropped.
	Level slog.Level
	// Format is FormatText (the default) or FormatJSON.
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a logger from cfg. Unknown formats fall back to text.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == FormatJSON {
		return slog.New(NewJSONHandler(out, cfg.Level))
	}
	return slog.New(NewHandler(out, &slog.HandlerOptions{Level: cfg.Level}))
}

// NewJSONHandler returns a JSON handler at level. It is used for the log
// file and for --log-format json. Levels at or below LevelTrace are named
// "TRACE".
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(LevelName(l))
				}
			}
			return a
		},
	})
}

// NewDiscard returns a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps the configuration level names ERROR, INFO and DEBUG
// (case-insensitive) to slog levels.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ERROR":
		return slog.LevelError, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	default:
		return 0, errors.Wrapf(ErrUnknownLevel, "%q (valid: ERROR, INFO, DEBUG)", name)
	}
}

// LevelFromVerbosity converts a -v count into a console level.
// 0 shows warnings and errors, 1 adds info, 2 adds debug, 3+ adds trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// FileConfig describes the rotating log file sink.
type FileConfig struct {
	// Path is the log file. Parent directories are created.
	Path string
	// MaxSizeMB is the size at which the file is rotated. Zero uses lumberjack's default.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Zero keeps all.
	MaxBackups int
	// Fresh rotates any existing file away on open so each run starts a new log.
	Fresh bool
}

// OpenFile opens a rotating log file. The caller must Close it after the
// run, whatever the run's outcome.
func OpenFile(cfg FileConfig) (io.WriteCloser, error) {
	if cfg.Path == "" {
		return nil, errors.New("log file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating log directory")
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	if cfg.Fresh {
		if _, err := os.Stat(cfg.Path); err == nil {
			if err := lj.Rotate(); err != nil {
				return nil, errors.Wrap(err, "rotating log file")
			}
		}
	}

	return lj, nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}

// testWriter sends each log line to t.Log.
type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a Trace-level logger writing to t.Log, so log lines show
// up next to the failing test or with -v.
func ForTest(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(NewHandler(testWriter{t: t}, &slog.HandlerOptions{Level: LevelTrace}))
}
