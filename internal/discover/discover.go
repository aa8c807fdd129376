// Package discover finds scripts to analyze under a source directory.
package discover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-enry/go-enry/v2"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultPattern selects AutoHotkey scripts.
const DefaultPattern = "*.ahk"

// Entry represents a discovered script.
type Entry struct {
	Path     string // Absolute or root-joined path, ready to open
	Rel      string // Slash-separated, relative to root
	Name     string // Base name
	Language string // enry language for the extension, may be empty
}

// Options controls discovery.
type Options struct {
	Pattern   string
	Recursive bool
	// SkipVendor drops paths enry classifies as vendored, such as
	// vendor/, external/ or third_party/.
	SkipVendor bool
	Logger     *slog.Logger
}

// Scripts discovers files under root whose names match opts.Pattern.
// Non-recursive discovery only considers files directly under root.
// Recursive discovery matches the pattern against both the base name and the
// relative path, so "*.ahk" finds scripts at any depth.
func Scripts(root string, opts Options) ([]Entry, error) {
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrBadPattern, opts.Pattern)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s is not a directory", root)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []Entry

	err = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if p == root {
				return nil
			}
			if !opts.Recursive || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !matches(pattern, rel, opts.Recursive) {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if opts.SkipVendor && enry.IsVendor(rel) {
			logger.Debug("skipping vendored script", "path", rel)
			return nil
		}

		language, _ := enry.GetLanguageByExtension(name)
		results = append(results, Entry{
			Path:     p,
			Rel:      rel,
			Name:     name,
			Language: language,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Rel < results[j].Rel
	})

	return results, nil
}

// Matches reports whether a slash-separated relative path is selected by
// pattern under the given recursion mode.
func Matches(pattern, rel string, recursive bool) bool {
	pattern = filepath.ToSlash(pattern)
	if pattern == "" {
		pattern = DefaultPattern
	}
	return matches(pattern, filepath.ToSlash(rel), recursive)
}

func matches(pattern, rel string, recursive bool) bool {
	if ok, _ := doublestar.Match(pattern, rel); ok {
		return true
	}
	if recursive && !strings.Contains(pattern, "/") {
		ok, _ := doublestar.Match(pattern, path.Base(rel))
		return ok
	}
	return false
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	p := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(p)
	if err != nil {
		return nil
	}
	return gi
}
