package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/snapdir/internal/config"
	"github.com/thoreinstein/snapdir/internal/editor"
	"github.com/thoreinstein/snapdir/internal/errors"
	"github.com/thoreinstein/snapdir/internal/paths"
	"github.com/thoreinstein/snapdir/internal/validator"
	"github.com/thoreinstein/snapdir/pkg/fileutil"
)

var (
	configInitForce    bool
	configValidateJSON bool
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"overwrite an existing configuration file")
	configValidateCmd.Flags().BoolVar(&configValidateJSON, "json", false,
		"output findings in JSON format")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the snapdir configuration",
	Long: `Inspect and create the snapdir configuration.

Without a subcommand, prints the effective configuration.`,
	Example: `  # Print the effective configuration
  snapdir config

  # Check a configuration file
  snapdir config validate --config nightly.yaml

  # Write a starter configuration
  snapdir config init

  # Edit the configuration file
  snapdir config edit

See Also: snapdir run`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Print the configuration after defaults and environment overrides, in YAML format.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Check the configuration and report every problem found.

Errors make the command fail. Warnings point at sources or locations that
will fail at run time, such as a source directory that does not exist.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in an editor",
	Long: `Open the configuration file in $EDITOR, falling back to $VISUAL, nano
and vi. A starter file is written first if none exists.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration file.

The file is written to the configuration directory unless a path is given.
Edit the sources and locations before running a backup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		used := config.FileUsed()
		if used == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "no configuration file found")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), used)
		return nil
	},
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	return writeConfigYAML(cmd.OutOrStdout(), cfg)
}

func writeConfigYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	return errors.Wrap(enc.Close(), "marshaling config")
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	// Re-read without validation so every problem can be listed.
	config.Init()
	cfg, err := config.Read(configPath)
	if err != nil {
		return errors.NewUserError(err, "Check the file path and YAML syntax")
	}
	return validateWithWriter(cmd.OutOrStdout(), cfg, config.FileUsed(), configValidateJSON)
}

func validateWithWriter(w io.Writer, cfg *config.Config, source string, asJSON bool) error {
	if source == "" {
		source = "defaults (no configuration file found)"
	}

	result := config.Check(cfg)
	format := validator.FormatText
	if asJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(w, format).WithSubject(source).Report(result); err != nil {
		return err
	}

	if errs := result.Errors(); len(errs) > 0 {
		return errors.NewExitError(errors.Mark(errors.Newf("%d configuration problem(s)", len(errs)), errors.ErrInvalidConfig), errors.ExitUser)
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := configPath
	if path == "" {
		path = config.FileUsed()
	}
	if path == "" {
		path = filepath.Join(paths.ConfigDir(), "config.yaml")
	}
	return editConfigFile(cmd.OutOrStdout(), editor.New(), path)
}

func editConfigFile(w io.Writer, ed *editor.Editor, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := initConfigFile(w, path, false); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "Location: %s\n", path)
	if err := ed.Open(path); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to your preferred editor")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(paths.ConfigDir(), "config.yaml")
	if len(args) == 1 {
		path = args[0]
	}
	return initConfigFile(cmd.OutOrStdout(), path, configInitForce)
}

// starterConfig is written by config init.
func starterConfig() *config.Config {
	cfg := config.Default()
	cfg.Sources = []config.SourceConfig{{Path: "~/documents", Alias: "documents"}}
	cfg.Locations = []string{"~/backups"}
	return cfg
}

func initConfigFile(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewUserError(errors.Newf("%s already exists", path), "Use --force to overwrite it")
	}
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, starterConfig(), 0o600); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	fmt.Fprintf(w, "%s wrote %s\n", styleOK("✓"), path)
	return nil
}
