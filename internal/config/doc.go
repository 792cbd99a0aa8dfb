// Package config loads the snapdir configuration.
//
// # Configuration File
//
// Load reads, in order of precedence, the file given with --config,
// ./snapdir.yaml, or config.yaml in the configuration directory
// ($SNAPDIR_CONFIG_DIR, else $XDG_CONFIG_HOME/snapdir):
//
//	version: 1
//	sources:
//	  - path: ~/documents
//	    alias: docs
//	locations:
//	  - /mnt/backup1
//	  - /mnt/backup2
//	exclude:
//	  patterns: [".sdf", "glob:*.tmp"]
//	  ignore_case: false
//	log:
//	  file: ./backup.log
//	  level: ERROR        # ERROR | INFO | DEBUG
//	  max_size_mb: 10
//	  max_backups: 3
//	notes: nightly run
//	workers: 4
//
// Every scalar key can be overridden from the environment with the SNAPDIR_
// prefix and dots replaced by underscores, e.g. SNAPDIR_LOG_LEVEL=DEBUG.
//
// # Validation
//
// Load validates eagerly and reports the first problem as
// "validating config: <problem>". [Validate] returns all of them:
//
//	for _, err := range config.Validate(cfg) {
//	    fmt.Println(err)
//	}
package config
