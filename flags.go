package main

import (
	"github.com/spf13/pflag"

	"github.com/phobologic/ahkguide/internal/config"
)

// settingsFlags binds the run-settings flags a command accepts. Only flags
// the user actually set override the resolved settings.
type settingsFlags struct {
	fs       *pflag.FlagSet
	defaults *config.Settings
	values   config.Settings
}

func newSettingsFlags(fs *pflag.FlagSet) *settingsFlags {
	return &settingsFlags{fs: fs, defaults: config.DefaultSettings()}
}

func (f *settingsFlags) training() *settingsFlags {
	f.fs.StringVarP(&f.values.TrainingDir, "training-dir", "t", f.defaults.TrainingDir, "training library directory")
	return f
}

func (f *settingsFlags) discovery() *settingsFlags {
	f.fs.StringVarP(&f.values.Pattern, "pattern", "p", f.defaults.Pattern, "glob selecting scripts")
	f.fs.BoolVarP(&f.values.Recursive, "recursive", "r", f.defaults.Recursive, "search subdirectories")
	f.fs.BoolVar(&f.values.SkipVendor, "skip-vendor", f.defaults.SkipVendor, "skip vendored directories such as vendor/ and third_party/")
	return f
}

func (f *settingsFlags) placement() *settingsFlags {
	f.fs.StringVar(&f.values.Mode, "mode", f.defaults.Mode, "how scripts are placed: copy or move")
	return f
}

func (f *settingsFlags) analysis() *settingsFlags {
	f.fs.IntVarP(&f.values.Workers, "workers", "w", f.defaults.Workers, "scripts analyzed concurrently")
	f.fs.StringVar(&f.values.CachePath, "cache", f.defaults.CachePath, "metadata cache file (disabled when empty)")
	return f
}

func (f *settingsFlags) patternConfig() *settingsFlags {
	f.fs.StringVar(&f.values.PatternConfig, "pattern-config", f.defaults.PatternConfig,
		"pattern configuration file (default <training-dir>/"+config.DefaultPatternFile+" when present)")
	return f
}

// apply copies every changed flag onto s.
func (f *settingsFlags) apply(s *config.Settings) {
	changed := func(name string) bool {
		fl := f.fs.Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("training-dir") {
		s.TrainingDir = f.values.TrainingDir
	}
	if changed("pattern") {
		s.Pattern = f.values.Pattern
	}
	if changed("recursive") {
		s.Recursive = f.values.Recursive
	}
	if changed("skip-vendor") {
		s.SkipVendor = f.values.SkipVendor
	}
	if changed("mode") {
		s.Mode = f.values.Mode
	}
	if changed("workers") && f.values.Workers > 0 {
		s.Workers = f.values.Workers
	}
	if changed("cache") {
		s.CachePath = f.values.CachePath
	}
	if changed("pattern-config") {
		s.PatternConfig = f.values.PatternConfig
	}
}
