// Package exclude decides which files are left out of a backup.
//
// A [Filter] is built once from configured patterns and then consulted for
// every file of a traversal. A bare pattern such as ".sdf" is a literal
// suffix. Tagged patterns select the other matcher kinds:
//
//	.sdf          suffix (default)
//	suffix:.bak   suffix, explicit
//	prefix:~$     literal prefix
//	glob:*.tmp    path.Match glob against the base name
//
// Matching is case-sensitive unless the filter is built [WithIgnoreCase].
package exclude

import (
	"path"
	"strings"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// Kind identifies how a Matcher compares a file name.
type Kind int

const (
	// KindSuffix matches names ending with the pattern.
	KindSuffix Kind = iota
	// KindPrefix matches names starting with the pattern.
	KindPrefix
	// KindGlob matches names against a path.Match pattern.
	KindGlob
)

// String returns the tag used for the kind in configuration files.
func (k Kind) String() string {
	switch k {
	case KindSuffix:
		return "suffix"
	case KindPrefix:
		return "prefix"
	case KindGlob:
		return "glob"
	default:
		return "unknown"
	}
}

// ErrInvalidPattern indicates a pattern that cannot be turned into a Matcher.
var ErrInvalidPattern = errors.New("invalid exclusion pattern")

// Matcher is one exclusion rule.
type Matcher struct {
	Kind    Kind
	Pattern string
}

// String renders the matcher in its tagged configuration form.
func (m Matcher) String() string {
	return m.Kind.String() + ":" + m.Pattern
}

// ParsePattern parses one configured pattern.
func ParsePattern(raw string) (Matcher, error) {
	kind := KindSuffix
	pattern := raw

	if tag, rest, ok := strings.Cut(raw, ":"); ok {
		switch tag {
		case "suffix":
			kind, pattern = KindSuffix, rest
		case "prefix":
			kind, pattern = KindPrefix, rest
		case "glob":
			kind, pattern = KindGlob, rest
		}
	}

	if pattern == "" {
		return Matcher{}, errors.Wrapf(ErrInvalidPattern, "%q: empty pattern", raw)
	}
	if strings.ContainsRune(pattern, '/') {
		return Matcher{}, errors.Wrapf(ErrInvalidPattern, "%q: patterns match base names and cannot contain '/'", raw)
	}
	if kind == KindGlob {
		if _, err := path.Match(pattern, ""); err != nil {
			return Matcher{}, errors.Wrapf(ErrInvalidPattern, "%q: %v", raw, err)
		}
	}

	return Matcher{Kind: kind, Pattern: pattern}, nil
}

// ParsePatterns parses every pattern and returns the first error encountered.
func ParsePatterns(raw []string) ([]Matcher, error) {
	matchers := make([]Matcher, 0, len(raw))
	for _, r := range raw {
		m, err := ParsePattern(r)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// Filter is an immutable set of matchers. It is safe for concurrent use.
type Filter struct {
	suffixes   []string
	prefixes   []string
	globs      []string
	ignoreCase bool
}

// Option configures a Filter.
type Option func(*Filter)

// WithIgnoreCase makes every matcher compare names case-insensitively.
func WithIgnoreCase() Option {
	return func(f *Filter) {
		f.ignoreCase = true
	}
}

// New builds a Filter from already parsed matchers.
func New(matchers []Matcher, opts ...Option) *Filter {
	f := &Filter{}
	for _, opt := range opts {
		opt(f)
	}

	seen := make(map[Matcher]struct{}, len(matchers))
	for _, m := range matchers {
		if f.ignoreCase {
			m.Pattern = strings.ToLower(m.Pattern)
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}

		switch m.Kind {
		case KindSuffix:
			f.suffixes = append(f.suffixes, m.Pattern)
		case KindPrefix:
			f.prefixes = append(f.prefixes, m.Pattern)
		case KindGlob:
			f.globs = append(f.globs, m.Pattern)
		}
	}
	return f
}

// Parse is a convenience for ParsePatterns followed by New.
func Parse(raw []string, opts ...Option) (*Filter, error) {
	matchers, err := ParsePatterns(raw)
	if err != nil {
		return nil, err
	}
	return New(matchers, opts...), nil
}

// Suffixes builds a Filter that excludes names ending with any of the given
// suffixes, compared literally.
func Suffixes(suffixes ...string) *Filter {
	matchers := make([]Matcher, 0, len(suffixes))
	for _, s := range suffixes {
		if s == "" {
			continue
		}
		matchers = append(matchers, Matcher{Kind: KindSuffix, Pattern: s})
	}
	return New(matchers)
}

// ShouldExclude reports whether a file with the given base name is skipped.
// A nil Filter excludes nothing.
func (f *Filter) ShouldExclude(name string) bool {
	if f == nil {
		return false
	}
	if f.ignoreCase {
		name = strings.ToLower(name)
	}

	for _, s := range f.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	for _, p := range f.prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	for _, g := range f.globs {
		// Patterns were validated at construction.
		if ok, _ := path.Match(g, name); ok {
			return true
		}
	}
	return false
}

// Empty reports whether the filter has no matchers.
func (f *Filter) Empty() bool {
	return f == nil || len(f.suffixes)+len(f.prefixes)+len(f.globs) == 0
}
