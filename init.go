package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/ahkguide/internal/config"
)

var errExists = errors.New("file already exists (use --force to overwrite)")

type initOptions struct {
	dryRun   bool
	force    bool
	settings bool
}

func newInitCmd(a *app) *cobra.Command {
	var opts initOptions
	var flags *settingsFlags

	cmd := &cobra.Command{
		Use:   "init [pattern-config-path]",
		Short: "Write the default pattern configuration",
		Long: `init writes the built-in pattern configuration so it can be edited. The
format follows the file extension: .yaml, .yml, .json or .toml.

pattern-config-path defaults to <training-dir>/` + config.DefaultPatternFile + `, which
the docs command picks up automatically.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			flags.apply(a.settings)
			path := filepath.Join(a.settings.TrainingDir, config.DefaultPatternFile)
			if len(args) > 0 {
				path = args[0]
			}
			return a.runInit(path, opts)
		},
	}
	flags = newSettingsFlags(cmd.Flags()).training()
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print what would be written without writing it")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite existing files")
	cmd.Flags().BoolVar(&opts.settings, "settings", false, "also write the resolved settings to "+config.SettingsFile)
	return cmd
}

func (a *app) runInit(path string, opts initOptions) error {
	data, err := config.EncodePatterns(path, config.DefaultPatterns())
	if err != nil {
		return err
	}
	if err := a.writeNew(path, data, opts); err != nil {
		return err
	}

	if !opts.settings {
		return nil
	}
	data, err = config.EncodeSettings(a.settings)
	if err != nil {
		return err
	}
	return a.writeNew(filepath.Join(a.projectDir, config.SettingsFile), data, opts)
}

// writeNew writes data to path unless it already exists. With dry-run the
// data goes to stdout instead.
func (a *app) writeNew(path string, data []byte, opts initOptions) error {
	if opts.dryRun {
		_, _ = fmt.Fprintf(a.stdout, "# %s\n%s", path, data)
		return nil
	}

	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, errExists)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(a.stderr, "wrote %s\n", path)
	return nil
}
