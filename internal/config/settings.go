// Package config loads the pattern configuration used by generated docs and
// the run settings shared by every command.
// Run settings are resolved from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (AHKGUIDE_*), with a .env file as fallback
// 3. Project settings (.ahkguide.yaml in the working directory)
// 4. Defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SettingsFile is the project settings file name.
const SettingsFile = ".ahkguide.yaml"

// Settings holds run settings.
type Settings struct {
	TrainingDir   string `yaml:"training_dir" json:"training_dir"`
	Pattern       string `yaml:"pattern" json:"pattern"`
	Recursive     bool   `yaml:"recursive" json:"recursive"`
	SkipVendor    bool   `yaml:"skip_vendor" json:"skip_vendor"`
	Mode          string `yaml:"mode" json:"mode"`
	Workers       int    `yaml:"workers" json:"workers"`
	CachePath     string `yaml:"cache" json:"cache"`
	PatternConfig string `yaml:"pattern_config" json:"pattern_config"`
}

// settingsFile mirrors Settings with a pointer so an explicit
// "recursive: false" can be told apart from an absent key.
type settingsFile struct {
	TrainingDir   string `yaml:"training_dir"`
	Pattern       string `yaml:"pattern"`
	Recursive     *bool  `yaml:"recursive"`
	SkipVendor    bool   `yaml:"skip_vendor"`
	Mode          string `yaml:"mode"`
	Workers       int    `yaml:"workers"`
	CachePath     string `yaml:"cache"`
	PatternConfig string `yaml:"pattern_config"`
}

// DefaultSettings returns the default run settings.
func DefaultSettings() *Settings {
	return &Settings{
		TrainingDir: "./Training",
		Pattern:     "*.ahk",
		Recursive:   true,
		Mode:        "copy",
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// LoadSettings resolves settings for the project rooted at dir: defaults,
// then dir/.ahkguide.yaml, then AHKGUIDE_* variables from the process
// environment or dir/.env. Flags are applied by the caller.
func LoadSettings(dir string) (*Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(filepath.Join(dir, SettingsFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading settings: %w", err)
	default:
		var f settingsFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", SettingsFile, err)
		}
		mergeFile(s, &f)
	}

	dotenv, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	if err := applyEnv(s, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func mergeFile(dst *Settings, src *settingsFile) {
	mergeStr(&dst.TrainingDir, src.TrainingDir)
	mergeStr(&dst.Pattern, src.Pattern)
	mergeStr(&dst.Mode, src.Mode)
	mergeStr(&dst.CachePath, src.CachePath)
	mergeStr(&dst.PatternConfig, src.PatternConfig)
	if src.Recursive != nil {
		dst.Recursive = *src.Recursive
	}
	if src.SkipVendor {
		dst.SkipVendor = true
	}
	if src.Workers > 0 {
		dst.Workers = src.Workers
	}
}

// applyEnv applies environment variable overrides.
func applyEnv(s *Settings, lookup func(string) (string, bool)) error {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	mergeStr(&s.TrainingDir, get("AHKGUIDE_TRAINING_DIR"))
	mergeStr(&s.Pattern, get("AHKGUIDE_PATTERN"))
	mergeStr(&s.Mode, get("AHKGUIDE_MODE"))
	mergeStr(&s.CachePath, get("AHKGUIDE_CACHE"))
	mergeStr(&s.PatternConfig, get("AHKGUIDE_PATTERN_CONFIG"))

	if v := get("AHKGUIDE_RECURSIVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AHKGUIDE_RECURSIVE: %w", err)
		}
		s.Recursive = b
	}
	if v := get("AHKGUIDE_SKIP_VENDOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AHKGUIDE_SKIP_VENDOR: %w", err)
		}
		s.SkipVendor = b
	}
	if v := get("AHKGUIDE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fmt.Errorf("AHKGUIDE_WORKERS: invalid worker count %q", v)
		}
		s.Workers = n
	}
	return nil
}

// PatternConfigPath returns the pattern configuration file to load: the
// configured path, else DefaultPatternFile in the training directory when it
// exists, else "" for built-in defaults.
func (s *Settings) PatternConfigPath() string {
	if s.PatternConfig != "" {
		return s.PatternConfig
	}
	candidate := filepath.Join(s.TrainingDir, DefaultPatternFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// Patterns loads the pattern configuration selected by PatternConfigPath.
func (s *Settings) Patterns() (*Patterns, error) {
	path := s.PatternConfigPath()
	if path == "" {
		return DefaultPatterns(), nil
	}
	return LoadPatterns(path)
}

// EncodeSettings renders s in the SettingsFile format.
func EncodeSettings(s *Settings) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	return data, nil
}
