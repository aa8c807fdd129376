package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/ahkguide/internal/graph"
	"github.com/phobologic/ahkguide/internal/model"
	"github.com/phobologic/ahkguide/internal/toon"
)

var errUnknownFormat = errors.New("unknown output format")

func newAnalyzeCmd(a *app) *cobra.Command {
	var format string
	var flags *settingsFlags

	cmd := &cobra.Command{
		Use:   "analyze <script>...",
		Short: "Print classification metadata without organizing",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			flags.apply(a.settings)
			return a.analyze(args, format)
		},
	}
	flags = newSettingsFlags(cmd.Flags()).analysis()
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or toon")
	return cmd
}

func (a *app) analyze(paths []string, format string) error {
	format = strings.ToLower(format)
	switch format {
	case "json", "yaml", "toon":
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	c, err := openCache(a.settings)
	if err != nil {
		return err
	}
	an := newAnalyzer(c)

	var scripts []model.ScriptMetadata
	var errs []error
	for _, p := range paths {
		r, err := an.AnalyzeFile(p)
		if err != nil {
			a.logger.Warn("skipping script", "path", p, "err", err)
			errs = append(errs, err)
			continue
		}
		scripts = append(scripts, r.Metadata)
	}
	if len(scripts) == 0 {
		return errors.Join(errs...)
	}
	if c != nil {
		if err := c.Save(); err != nil {
			return err
		}
	}

	switch format {
	case "toon":
		source := filepath.Dir(paths[0])
		_, err = fmt.Fprintln(a.stdout, toon.Encode(source, scripts, graph.IncludeEdges(scripts)))
	case "yaml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if len(scripts) == 1 {
			err = enc.Encode(scripts[0])
		} else {
			err = enc.Encode(scripts)
		}
		if err == nil {
			err = enc.Close()
		}
	default:
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if len(scripts) == 1 {
			err = enc.Encode(scripts[0])
		} else {
			err = enc.Encode(scripts)
		}
	}
	return err
}
