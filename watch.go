package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phobologic/ahkguide/internal/organize"
	"github.com/phobologic/ahkguide/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var place bool
	var flags *settingsFlags

	cmd := &cobra.Command{
		Use:   "watch <source-dir>",
		Short: "Re-classify scripts as they are saved",
		Long: `watch reports the category and tier of every matching script written under
source-dir until interrupted. With --organize each changed script is also
copied into the training library with a fresh metadata sidecar.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(a.settings)
			return a.watch(cmd.Context(), args[0], place)
		},
	}
	flags = newSettingsFlags(cmd.Flags()).training().discovery().analysis()
	cmd.Flags().BoolVar(&place, "organize", false, "copy changed scripts into the training directory")
	return cmd
}

func (a *app) watch(ctx context.Context, source string, place bool) error {
	s := a.settings

	c, err := openCache(s)
	if err != nil {
		return err
	}
	an := newAnalyzer(c)

	var organizer *organize.Organizer
	if place {
		// Moving would pull files out from under the watcher.
		if organizer, err = organize.New(s.TrainingDir, organize.Copy, a.logger); err != nil {
			return err
		}
	}

	onChange := func(path string) {
		r, err := an.AnalyzeFile(path)
		if err != nil {
			a.logger.Warn("skipping script", "path", path, "err", err)
			return
		}
		md := r.Metadata
		_, _ = fmt.Fprintf(a.stdout, "%s: %s/%s (complexity %d)\n", md.Filename, md.Category, md.Tier, md.ComplexityScore)

		if organizer != nil {
			if _, err := organizer.Place(organize.Item{Source: path, Metadata: md}); err != nil {
				a.logger.Warn("organize failed", "path", path, "err", err)
			}
		}
		if c != nil {
			if err := c.Save(); err != nil {
				a.logger.Warn("saving cache", "err", err)
			}
		}
	}

	w := watch.New(source, watch.Options{Pattern: s.Pattern, Recursive: s.Recursive}, a.logger, onChange)
	a.logger.Info("watching", "dir", source, "pattern", s.Pattern)
	return w.Run(ctx)
}
