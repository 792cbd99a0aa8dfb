package copier

import (
	"encoding/json"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// Status is the result of including one entry in a run.
type Status int

const (
	// StatusCopied means the file was copied byte for byte.
	StatusCopied Status = iota
	// StatusSkipped means the file was intentionally left out.
	StatusSkipped
	// StatusFailed means the entry could not be copied.
	StatusFailed
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "copied":
		*s = StatusCopied
	case "skipped":
		*s = StatusSkipped
	case "failed":
		*s = StatusFailed
	default:
		return errors.Newf("unknown status %q", string(text))
	}
	return nil
}

// Outcome is the per-entry result of a copy.
type Outcome struct {
	// Source is the path that was read, or the source root for whole-tree failures.
	Source string
	// Dest is the path that was (or would have been) written.
	Dest string
	// Status is the result.
	Status Status
	// Err holds the failure for StatusFailed, marked with one of the failure
	// kinds from internal/errors.
	Err error
	// Reason explains a skip.
	Reason string
	// Bytes is the number of bytes written for StatusCopied.
	Bytes int64
}

// Detail returns the error text of a failed outcome, the reason of a
// skipped one, or an empty string.
func (o Outcome) Detail() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return o.Reason
}

type outcomeJSON struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
	Bytes  int64  `json:"bytes,omitempty"`
}

// MarshalJSON renders the outcome with its error flattened to text.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(outcomeJSON{
		Source: o.Source,
		Dest:   o.Dest,
		Status: o.Status,
		Detail: o.Detail(),
		Bytes:  o.Bytes,
	})
}

// UnmarshalJSON restores an outcome written by MarshalJSON. A failure's
// detail comes back as a plain error carrying the original text.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var v outcomeJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Outcome{
		Source: v.Source,
		Dest:   v.Dest,
		Status: v.Status,
		Bytes:  v.Bytes,
	}
	if v.Status == StatusFailed {
		o.Err = errors.New(v.Detail)
	} else {
		o.Reason = v.Detail
	}
	return nil
}
