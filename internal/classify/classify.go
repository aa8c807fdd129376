// Package classify turns AutoHotkey script text into classification metadata:
// concepts, complexity, category and difficulty tier.
package classify

import (
	"path/filepath"

	"github.com/phobologic/ahkguide/internal/model"
	"github.com/phobologic/ahkguide/internal/parse"
)

// Assemble builds the metadata record for one script. It is a pure function
// of filename and content.
func Assemble(filename, content string) model.ScriptMetadata {
	s := parse.Extract(content)
	hasOOP := len(s.Classes) > 0

	concepts := ExtractConcepts(content, filename)
	complexity := Score(content, len(s.Classes), len(s.Functions))
	category := Categorize(filename, content, concepts)
	tier := ClassifyTier(complexity, concepts, s.HasGUI, hasOOP, s.HasCOM)

	md := model.ScriptMetadata{
		Filename:        filename,
		Category:        category,
		Tier:            tier,
		Concepts:        concepts,
		Dependencies:    s.Dependencies,
		KeyFunctions:    append([]string(nil), s.KeyFunctions()...),
		Classes:         s.Classes,
		HasGUI:          s.HasGUI,
		HasOOP:          hasOOP,
		HasCOM:          s.HasCOM,
		HasHotkeys:      s.HasHotkeys,
		LineCount:       s.LineCount,
		ComplexityScore: complexity,
	}
	md.Normalize()
	return md
}

// Store caches metadata keyed by script name and content.
type Store interface {
	Get(filename, content string) (model.ScriptMetadata, bool)
	Put(filename, content string, md model.ScriptMetadata)
}

// Analyzer reads scripts from disk and assembles their metadata.
// It is safe for concurrent use when its Store is.
type Analyzer struct {
	store Store
}

// NewAnalyzer returns an Analyzer. store may be nil.
func NewAnalyzer(store Store) *Analyzer {
	return &Analyzer{store: store}
}

// Result is an analyzed script together with its decoded text.
type Result struct {
	Path     string
	Content  string
	Metadata model.ScriptMetadata
	Cached   bool
}

// AnalyzeFile reads and classifies the script at path. Errors wrap
// parse.ErrNotFound or parse.ErrDecode.
func (a *Analyzer) AnalyzeFile(path string) (Result, error) {
	content, err := parse.ReadScript(path)
	if err != nil {
		return Result{}, err
	}

	filename := filepath.Base(path)
	if a.store != nil {
		if md, ok := a.store.Get(filename, content); ok {
			return Result{Path: path, Content: content, Metadata: md, Cached: true}, nil
		}
	}

	md := Assemble(filename, content)
	if a.store != nil {
		a.store.Put(filename, content, md)
	}
	return Result{Path: path, Content: content, Metadata: md}, nil
}
