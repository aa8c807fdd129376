package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/ahkguide/internal/cache"
	"github.com/phobologic/ahkguide/internal/classify"
	"github.com/phobologic/ahkguide/internal/config"
	"github.com/phobologic/ahkguide/internal/discover"
	"github.com/phobologic/ahkguide/internal/docs"
	"github.com/phobologic/ahkguide/internal/graph"
	"github.com/phobologic/ahkguide/internal/model"
	"github.com/phobologic/ahkguide/internal/organize"
)

type scrapeOptions struct {
	generateDocs  bool
	generateIndex bool
}

func newScrapeCmd(a *app) *cobra.Command {
	var opts scrapeOptions
	var flags *settingsFlags

	cmd := &cobra.Command{
		Use:   "scrape <source-dir>",
		Short: "Analyze scripts and file them into the training library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(a.settings)
			return a.scrape(cmd.Context(), args[0], opts)
		},
	}
	flags = newSettingsFlags(cmd.Flags()).training().discovery().placement().analysis().patternConfig()
	cmd.Flags().BoolVar(&opts.generateDocs, "generate-docs", false, "write a README beside every organized script")
	cmd.Flags().BoolVar(&opts.generateIndex, "generate-index", false, "write INDEX.md into the training directory")
	return cmd
}

// openCache returns nil when caching is disabled.
func openCache(s *config.Settings) (*cache.Cache, error) {
	if s.CachePath == "" {
		return nil, nil
	}
	return cache.Open(s.CachePath, cache.DefaultSize)
}

func newAnalyzer(c *cache.Cache) *classify.Analyzer {
	if c == nil {
		return classify.NewAnalyzer(nil)
	}
	return classify.NewAnalyzer(c)
}

func (a *app) scrape(ctx context.Context, source string, opts scrapeOptions) error {
	s := a.settings
	mode, err := organize.ParseMode(s.Mode)
	if err != nil {
		return err
	}
	organizer, err := organize.New(s.TrainingDir, mode, a.logger)
	if err != nil {
		return err
	}

	entries, err := discover.Scripts(source, discover.Options{
		Pattern:    s.Pattern,
		Recursive:  s.Recursive,
		SkipVendor: s.SkipVendor,
		Logger:     a.logger,
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "Found %d scripts to analyze...\n", len(entries))

	c, err := openCache(s)
	if err != nil {
		return err
	}

	results, failures, err := analyzeAll(ctx, newAnalyzer(c), entries, s.Workers, a.logger)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "Processed %d scripts\n", len(results))

	items := make([]organize.Item, len(results))
	scripts := make([]model.ScriptMetadata, len(results))
	for i, r := range results {
		items[i] = organize.Item{Source: r.Path, Metadata: r.Metadata}
		scripts[i] = r.Metadata
	}
	placed, err := organizer.Organize(items)
	for _, p := range placed {
		_, _ = fmt.Fprintf(a.stdout, "Organized: %s -> %s/%s\n", p.Metadata.Filename, p.Metadata.Category, p.Metadata.Tier)
	}
	if err != nil {
		return err
	}

	if opts.generateDocs || opts.generateIndex {
		patterns, err := s.Patterns()
		if err != nil {
			return err
		}
		gen := &docs.Generator{Training: s.TrainingDir, Patterns: patterns, Logger: a.logger}

		if opts.generateDocs {
			refs := graph.CrossReferences(scripts)
			// Script text comes from memory so move mode still has it.
			for _, r := range results {
				if _, err := gen.WriteScriptReadme(r.Metadata, r.Content, refs[r.Metadata.Filename]); err != nil {
					return err
				}
			}
		}
		if opts.generateIndex {
			path, err := gen.WriteIndex(scripts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Index written to: %s\n", path)
		}
	}

	if c != nil {
		if err := c.Save(); err != nil {
			return err
		}
		a.logger.Debug("cache saved", "path", s.CachePath, "entries", c.Len())
	}

	printSummary(a.stdout, model.RunReport{Scripts: scripts, Failures: failures})
	return nil
}

// analyzeAll classifies entries on up to workers goroutines. Results keep
// discovery order. A script that cannot be read or decoded is logged and
// reported as a failure; only cancellation aborts the batch.
func analyzeAll(ctx context.Context, an *classify.Analyzer, entries []discover.Entry, workers int, logger *slog.Logger) ([]classify.Result, []model.Failure, error) {
	results := make([]classify.Result, len(entries))
	errs := make([]error, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := an.AnalyzeFile(e.Path)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var ok []classify.Result
	var failures []model.Failure
	for i, e := range entries {
		if errs[i] != nil {
			logger.Warn("skipping script", "path", e.Path, "err", errs[i])
			failures = append(failures, model.Failure{Path: e.Path, Reason: errs[i].Error()})
			continue
		}
		if results[i].Cached {
			logger.Debug("cache hit", "path", e.Path)
		}
		ok = append(ok, results[i])
	}
	return ok, failures, nil
}
