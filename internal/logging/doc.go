// Package logging builds the slog loggers used by snapdir.
//
// The console gets a compact colorized line per record from [Handler], at a
// level chosen with -v and -q. A run additionally writes JSON records at the
// configured ERROR, INFO or DEBUG level to a rotating file opened with
// [OpenFile]; [MultiHandler] sends each record to both.
//
//	f, err := logging.OpenFile(logging.FileConfig{Path: "backup.log", Fresh: true})
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	logger := slog.New(logging.NewMultiHandler(
//		console.Handler(),
//		logging.NewJSONHandler(f, slog.LevelError),
//	))
//
// Loggers travel through cobra's context with [NewContext] and
// [FromContext]. Tests use [ForTest].
package logging
