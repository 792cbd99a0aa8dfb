// Package errors provides error handling conventions for snapdir.
//
// It is a thin facade over github.com/cockroachdb/errors so that every
// package wraps errors the same way, plus the failure kinds recorded against
// backup outcomes and an ExitError type for CLI exit code handling.
//
// # Wrapping
//
//	if err := os.MkdirAll(dir, 0o755); err != nil {
//	    return errors.Wrapf(err, "creating %s", dir)
//	}
//
// # Failure Kinds
//
// Backup outcomes carry one of four kinds, attached with [Mark]:
//
//   - [ErrSourceUnavailable]: a configured source path is missing or unreadable
//   - [ErrDestinationUnavailable]: a backup location cannot be created or written
//   - [ErrFileCopyFailed]: a single file could not be copied
//   - [ErrNotesWriteFailed]: the notes file of a run root could not be written
//
// Callers test for them with [Is]:
//
//	if errors.Is(outcome.Err, errors.ErrSourceUnavailable) {
//	    // the whole alias was missing
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error, including runs with failed outcomes
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion; [ExitCode] extracts the code from any error chain.
package errors
