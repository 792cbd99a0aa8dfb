// Package backup runs backup sessions and manages the runs they leave behind.
//
// A [Session] copies every configured [Source] into every backup location.
// All locations of one run share a single timestamp, so each run produces
// the same layout everywhere:
//
//	<location>/
//	└── {timestamp}/
//	    ├── backup_notes.txt
//	    ├── manifest.json
//	    └── {alias}/
//	        └── {copied tree...}
//
// # Running a Backup
//
//	s := backup.NewSession(
//	    backup.WithSources(backup.Source{Path: "/data/docs", Alias: "docs"}),
//	    backup.WithLocations("/mnt/backup1", "/mnt/backup2"),
//	    backup.WithFilter(exclude.Suffixes(".tmp")),
//	    backup.WithNotes("nightly run"),
//	)
//	summary, err := s.Run(ctx)
//
// Failures of a file, a source or a whole location are recorded in the
// [Summary] and never stop the other pairs. Run only returns an error for
// invalid input or a cancelled context.
//
// # Records
//
// After copying, every created root receives backup_notes.txt, a
// human-readable record of the run, and manifest.json, which [List], [Get]
// and [Prune] read back.
package backup
