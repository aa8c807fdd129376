// Package docs generates the markdown documentation of a training tree:
// per-script READMEs, the index, category READMEs, the concept guide, the
// learning path, statistics and the cross-reference map.
package docs

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/ahkguide/internal/config"
	"github.com/phobologic/ahkguide/internal/graph"
	"github.com/phobologic/ahkguide/internal/model"
	"github.com/phobologic/ahkguide/internal/organize"
)

const (
	sentinelStart = "<!-- ahkguide:start -->"
	sentinelEnd   = "<!-- ahkguide:end -->"
)

// Output file names.
const (
	IndexFile           = "INDEX.md"
	ConceptsFile        = "CONCEPTS.md"
	LearningPathFile    = "LEARNING_PATH.md"
	StatisticsFile      = "STATISTICS.md"
	CrossReferencesFile = "cross_references.json"
	CategoryReadmeFile  = "README.md"
)

// ApplySection inserts section into content wrapped in sentinel comments,
// replacing an existing sentinel block if present or appending if not.
func ApplySection(content, section string) string {
	block := sentinelStart + "\n" + strings.TrimRight(section, "\n") + "\n" + sentinelEnd

	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + block + content[end+len(sentinelEnd):]
	}

	if content == "" {
		return block + "\n"
	}
	// Append, ensuring a blank line separator.
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + block + "\n"
}

// Generator writes documentation files.
type Generator struct {
	Training  string // category READMEs and script READMEs
	OutputDir string // collection-wide documents; defaults to Training
	Patterns  *config.Patterns
	Logger    *slog.Logger
}

func (g *Generator) outputDir() string {
	if g.OutputDir != "" {
		return g.OutputDir
	}
	return g.Training
}

func (g *Generator) patterns() *config.Patterns {
	if g.Patterns != nil {
		return g.Patterns
	}
	return config.DefaultPatterns()
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Generate writes every collection document for scripts and returns the
// paths written, in order.
func (g *Generator) Generate(scripts []model.ScriptMetadata) ([]string, error) {
	p := g.patterns()
	var written []string

	for _, c := range model.Categories() {
		path, err := g.WriteCategoryReadme(c, scripts)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	out := g.outputDir()
	if err := os.MkdirAll(out, 0o755); err != nil {
		return written, fmt.Errorf("creating %s: %w", out, err)
	}

	pages := []struct {
		name string
		body string
	}{
		{IndexFile, Index(scripts)},
		{ConceptsFile, ConceptGuide(scripts, p)},
		{LearningPathFile, LearningPath(scripts, p)},
		{StatisticsFile, Statistics(scripts)},
	}
	for _, pg := range pages {
		path := filepath.Join(out, pg.name)
		if err := g.write(path, pg.body); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	path := filepath.Join(out, CrossReferencesFile)
	if err := g.WriteCrossReferences(path, graph.CrossReferences(scripts)); err != nil {
		return written, err
	}
	written = append(written, path)
	return written, nil
}

// WriteIndex writes INDEX.md into the output directory.
func (g *Generator) WriteIndex(scripts []model.ScriptMetadata) (string, error) {
	out := g.outputDir()
	if err := os.MkdirAll(out, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", out, err)
	}
	path := filepath.Join(out, IndexFile)
	return path, g.write(path, Index(scripts))
}

// WriteCategoryReadme updates <training>/<category>/README.md, replacing only
// the generated block so surrounding hand-written content survives.
func (g *Generator) WriteCategoryReadme(category model.Category, scripts []model.ScriptMetadata) (string, error) {
	dir := filepath.Join(g.Training, string(category))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, CategoryReadmeFile)

	existing, _ := os.ReadFile(path)
	updated := ApplySection(string(existing), CategoryReadme(category, scripts, g.patterns()))
	return path, g.write(path, updated)
}

// WriteScriptReadme writes <stem>_README.md next to the organized script.
func (g *Generator) WriteScriptReadme(md model.ScriptMetadata, content string, related []model.CrossRef) (string, error) {
	body, err := ScriptReadme(md, content, related)
	if err != nil {
		return "", err
	}
	dir := organize.Dir(g.Training, md)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, organize.Stem(md.Filename)+"_README.md")
	return path, g.write(path, body)
}

// WriteCrossReferences writes the cross-reference map as indented JSON.
func (g *Generator) WriteCrossReferences(path string, refs map[string][]model.CrossRef) error {
	data, err := json.MarshalIndent(refs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cross references: %w", err)
	}
	return g.write(path, string(data)+"\n")
}

func (g *Generator) write(path, body string) error {
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	g.logger().Debug("generated", "path", path)
	return nil
}
