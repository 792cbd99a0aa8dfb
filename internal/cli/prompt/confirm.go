// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// ErrCancelled is returned when input ends before an answer is given.
var ErrCancelled = errors.New("prompt cancelled")

// Confirmer asks yes/no questions.
type Confirmer struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConfirmer creates a Confirmer using stdin and stderr.
func NewConfirmer() *Confirmer {
	return NewConfirmerWithIO(os.Stdin, os.Stderr)
}

// NewConfirmerWithIO creates a Confirmer with custom reader and writer for testing.
func NewConfirmerWithIO(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{reader: bufio.NewReader(r), writer: w}
}

// Confirm prints question and reads an answer.
//
// "y" and "yes" confirm, "n" and "no" decline, case-insensitively. An empty
// answer yields def. Any other answer asks again. EOF returns ErrCancelled.
func (c *Confirmer) Confirm(question string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		fmt.Fprintf(c.writer, "%s %s ", question, hint)

		input, err := c.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || input == "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.writer)
				return false, ErrCancelled
			}
			return false, errors.Wrap(err, "reading answer")
		}

		switch strings.ToLower(strings.TrimSpace(input)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(c.writer, "Please answer y or n.")
		if err != nil {
			return false, ErrCancelled
		}
	}
}
