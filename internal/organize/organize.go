// Package organize places analyzed scripts into the training tree
// <training>/<category>/<tier>/ next to a JSON metadata sidecar, and reads
// the sidecars back.
package organize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/phobologic/ahkguide/internal/model"
)

// Mode selects how scripts are placed.
type Mode string

const (
	Copy Mode = "copy"
	Move Mode = "move"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Copy:
		return Copy, nil
	case Move:
		return Move, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Item is a script to place together with its metadata.
type Item struct {
	Source   string
	Metadata model.ScriptMetadata
}

// Placed records where an item ended up.
type Placed struct {
	Script   string
	Sidecar  string
	Metadata model.ScriptMetadata
}

// Dir returns the directory a script with md belongs in.
func Dir(training string, md model.ScriptMetadata) string {
	return filepath.Join(training, string(md.Category), string(md.Tier))
}

// Stem returns filename without its extension.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// Organizer places scripts into a training tree.
type Organizer struct {
	training string
	mode     Mode
	logger   *slog.Logger
}

// New returns an Organizer for the training directory. logger may be nil.
func New(training string, mode Mode, logger *slog.Logger) (*Organizer, error) {
	if mode != Copy && mode != Move {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Organizer{training: training, mode: mode, logger: logger}, nil
}

// Organize places every item. Items are processed in order; the first
// failure stops the run and is returned along with what was placed so far.
func (o *Organizer) Organize(items []Item) ([]Placed, error) {
	placed := make([]Placed, 0, len(items))
	for _, it := range items {
		p, err := o.Place(it)
		if err != nil {
			return placed, err
		}
		placed = append(placed, p)
	}
	return placed, nil
}

// Place copies or moves one script into its category/tier directory and
// writes <stem>.json beside it.
func (o *Organizer) Place(it Item) (Placed, error) {
	md := it.Metadata
	dir := Dir(o.training, md)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Placed{}, fmt.Errorf("creating %s: %w", dir, err)
	}

	target := filepath.Join(dir, md.Filename)
	var err error
	switch o.mode {
	case Copy:
		err = copyFile(it.Source, target)
	case Move:
		err = moveFile(it.Source, target)
	}
	if err != nil {
		return Placed{}, fmt.Errorf("placing %s: %w", md.Filename, err)
	}

	sidecar := filepath.Join(dir, Stem(md.Filename)+".json")
	if err := WriteSidecar(sidecar, md); err != nil {
		return Placed{}, err
	}

	o.logger.Debug("organized", "script", md.Filename, "category", md.Category, "tier", md.Tier)
	return Placed{Script: target, Sidecar: sidecar, Metadata: md}, nil
}

// WriteSidecar writes md as 2-space indented JSON.
func WriteSidecar(path string, md model.ScriptMetadata) error {
	md.Normalize()
	data, err := json.MarshalIndent(md, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadSidecar reads one metadata document.
func ReadSidecar(path string) (model.ScriptMetadata, error) {
	var md model.ScriptMetadata
	data, err := os.ReadFile(path)
	if err != nil {
		return md, err
	}
	if err := json.Unmarshal(data, &md); err != nil {
		return md, fmt.Errorf("parsing %s: %w", path, err)
	}
	md.Normalize()
	return md, nil
}

// sidecarPattern selects <category>/<tier>/<stem>.json under the training root.
const sidecarPattern = "*/*/*.json"

// Scan reads every sidecar in the training tree. Unreadable or malformed
// sidecars are reported as failures and skipped. Results are ordered by
// sidecar path.
func Scan(training string) ([]model.ScriptMetadata, []model.Failure, error) {
	matches, err := doublestar.Glob(os.DirFS(training), sidecarPattern)
	if err != nil {
		return nil, nil, fmt.Errorf("scanning %s: %w", training, err)
	}
	sort.Strings(matches)

	var (
		scripts  []model.ScriptMetadata
		failures []model.Failure
	)
	for _, m := range matches {
		p := filepath.Join(training, filepath.FromSlash(m))
		md, err := ReadSidecar(p)
		if err != nil {
			failures = append(failures, model.Failure{Path: p, Reason: err.Error()})
			continue
		}
		if md.Filename == "" {
			failures = append(failures, model.Failure{Path: p, Reason: "missing filename"})
			continue
		}
		if md.Category == "" || md.Tier == "" {
			// Fall back to the directory the sidecar lives in.
			dir := path.Dir(m)
			md.Category = model.ParseCategory(path.Dir(dir))
			md.Tier = model.ParseTier(path.Base(dir))
		}
		scripts = append(scripts, md)
	}
	return scripts, failures, nil
}

func copyFile(src, dst string) error {
	if same, err := sameFile(src, dst); err != nil || same {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// Preserve the modification time like a metadata-keeping copy.
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func moveFile(src, dst string) error {
	if same, err := sameFile(src, dst); err != nil || same {
		return err
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}
	// Cross-device: copy then remove.
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
