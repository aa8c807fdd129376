package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/ahkguide/internal/docs"
	"github.com/phobologic/ahkguide/internal/organize"
)

func newDocsCmd(a *app) *cobra.Command {
	var outputDir string
	var flags *settingsFlags

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate library documentation from organized metadata",
		Long: `docs reads every <category>/<tier>/<stem>.json sidecar in the training
directory and writes the category READMEs, INDEX.md, CONCEPTS.md,
LEARNING_PATH.md, STATISTICS.md and cross_references.json.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			flags.apply(a.settings)
			return a.generateDocs(outputDir)
		},
	}
	flags = newSettingsFlags(cmd.Flags()).training().patternConfig()
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for collection documents (default the training directory)")
	return cmd
}

func (a *app) generateDocs(outputDir string) error {
	s := a.settings
	if _, err := os.Stat(s.TrainingDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("training directory %s does not exist", s.TrainingDir)
		}
		return err
	}

	scripts, failures, err := organize.Scan(s.TrainingDir)
	if err != nil {
		return err
	}
	for _, f := range failures {
		a.logger.Warn("skipping metadata", "path", f.Path, "err", f.Reason)
	}
	a.logger.Debug("loaded metadata", "scripts", len(scripts), "failures", len(failures))

	patterns, err := s.Patterns()
	if err != nil {
		return err
	}
	gen := &docs.Generator{
		Training:  s.TrainingDir,
		OutputDir: outputDir,
		Patterns:  patterns,
		Logger:    a.logger,
	}
	written, err := gen.Generate(scripts)
	for _, path := range written {
		_, _ = fmt.Fprintf(a.stdout, "Generated: %s\n", path)
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.stdout, "Documentation generation complete!")
	return nil
}
