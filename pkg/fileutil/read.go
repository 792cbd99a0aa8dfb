package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/snapdir/internal/errors"
)

// ErrFileTooLarge indicates that a file exceeded the size limit given to
// ReadFileLimit.
var ErrFileTooLarge = errors.New("file too large")

// ReadFileLimit reads path, failing with ErrFileTooLarge if it holds more
// than limit bytes.
func ReadFileLimit(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
	}

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", path, limit)
	}
	return data, nil
}
