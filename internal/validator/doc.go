// Package validator collects and reports the findings of configuration
// checks.
//
// Errors block a run. Warnings describe problems the run survives, such as
// a source directory that does not exist yet, which only fails that source.
//
//	result := &validator.Result{}
//	result.AddError("workers", "must not be negative", cfg.Workers)
//	result.AddWarning("sources[0].path", "does not exist", path)
//
//	if err := validator.NewReporter(os.Stdout, validator.FormatText).Report(result); err != nil {
//		return err
//	}
package validator
