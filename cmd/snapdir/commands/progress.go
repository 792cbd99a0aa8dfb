package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/thoreinstein/snapdir/internal/backup"
	"github.com/thoreinstein/snapdir/internal/copier"
)

// progress prints a single, continuously rewritten status line.
type progress struct {
	mu      sync.Mutex
	w       io.Writer
	copied  int
	skipped int
	failed  int
	alias   string
	red     func(a ...any) string
}

func newProgress(w io.Writer) *progress {
	return &progress{
		w:   w,
		red: color.New(color.FgRed).SprintFunc(),
	}
}

// Observe implements backup.Observer. It is called from every worker.
func (p *progress) Observe(pair backup.Pair, o copier.Outcome) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch o.Status {
	case copier.StatusCopied:
		p.copied++
	case copier.StatusSkipped:
		p.skipped++
	case copier.StatusFailed:
		p.failed++
	}
	p.alias = pair.Source.Alias

	failed := fmt.Sprint(p.failed)
	if p.failed > 0 {
		failed = p.red(failed)
	}
	fmt.Fprintf(p.w, "\r\033[K%s: copied %d, skipped %d, failed %s",
		p.alias, p.copied, p.skipped, failed)
}

// Done ends the status line.
func (p *progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.copied+p.skipped+p.failed > 0 {
		fmt.Fprintln(p.w)
	}
}
