package logging

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Handler is the console handler. Each record is rendered as one line,
//
//	21:30:05 INFO  copied source=/data/a.txt dest=/mnt/b/20261018_213005/f1/a.txt
//
// and written with a single Write so lines from concurrent copy workers
// never interleave.
type Handler struct {
	opts slog.HandlerOptions
	out  io.Writer
	mu   *sync.Mutex

	// prefix holds attributes added with WithAttrs, already rendered.
	prefix string
	group  string

	palette *palette
}

type palette struct {
	time, key *color.Color
	levels    map[slog.Level]*color.Color
}

func newPalette() *palette {
	return &palette{
		time: color.New(color.FgHiBlack),
		key:  color.New(color.FgCyan),
		levels: map[slog.Level]*color.Color{
			LevelTrace:      color.New(color.FgHiBlack),
			slog.LevelDebug: color.New(color.FgMagenta),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
}

// NewHandler creates a console handler writing to out. Colors are used
// only when out supports them.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{out: out, mu: &sync.Mutex{}}
	if opts != nil {
		h.opts = *opts
	}
	if SupportsColor(out) {
		h.palette = newPalette()
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}
	return level >= threshold
}

// Handle renders r as one line.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		sb.WriteString(h.paint(h.timeColor(), r.Time.Format(time.TimeOnly)))
		sb.WriteByte(' ')
	}

	name := LevelName(r.Level)
	pad := strings.Repeat(" ", max(0, 5-len(name)))
	sb.WriteString(h.paint(h.levelColor(r.Level), name))
	sb.WriteString(pad)
	sb.WriteByte(' ')
	sb.WriteString(r.Message)
	sb.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(&sb, h.group, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *Handler) writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" {
		key = group + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(sb, key, ga)
		}
		return
	}

	var val string
	switch a.Value.Kind() {
	case slog.KindString:
		val = a.Value.String()
		if val == "" || strings.ContainsAny(val, " \t\n\"=") {
			val = strconv.Quote(val)
		}
	case slog.KindDuration:
		val = a.Value.Duration().Round(time.Millisecond).String()
	default:
		val = a.Value.String()
	}

	sb.WriteByte(' ')
	sb.WriteString(h.paint(h.keyColor(), key))
	sb.WriteByte('=')
	sb.WriteString(val)
}

// WithAttrs returns a handler that renders attrs on every line.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var sb strings.Builder
	sb.WriteString(h.prefix)
	for _, a := range attrs {
		h.writeAttr(&sb, h.group, a)
	}
	clone := *h
	clone.prefix = sb.String()
	return &clone
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group == "" {
		clone.group = name
	} else {
		clone.group += "." + name
	}
	return &clone
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) timeColor() *color.Color {
	if h.palette == nil {
		return nil
	}
	return h.palette.time
}

func (h *Handler) keyColor() *color.Color {
	if h.palette == nil {
		return nil
	}
	return h.palette.key
}

func (h *Handler) levelColor(level slog.Level) *color.Color {
	if h.palette == nil {
		return nil
	}
	switch {
	case level >= slog.LevelError:
		return h.palette.levels[slog.LevelError]
	case level >= slog.LevelWarn:
		return h.palette.levels[slog.LevelWarn]
	case level >= slog.LevelInfo:
		return h.palette.levels[slog.LevelInfo]
	case level >= slog.LevelDebug:
		return h.palette.levels[slog.LevelDebug]
	default:
		return h.palette.levels[LevelTrace]
	}
}

// LevelName returns the level's display name. It is "TRACE" for
// LevelTrace and below and slog's name otherwise.
func LevelName(level slog.Level) string {
	if level <= LevelTrace {
		return "TRACE"
	}
	return level.String()
}
