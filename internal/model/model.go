// Package model defines core data structures for ahkguide.
package model

import "sort"

// Category is the content domain a script is filed under.
type Category string

const (
	GUIApplications  Category = "GUI_Applications"
	DataStructures   Category = "Data_Structures"
	UtilityLibraries Category = "Utility_Libraries"
	UnknownCategory  Category = "Unknown"
)

// Tier is the difficulty bucket a script is filed under.
type Tier string

const (
	Tier1Beginner     Tier = "Tier1_Beginner"
	Tier2Intermediate Tier = "Tier2_Intermediate"
	Tier3Advanced     Tier = "Tier3_Advanced"
	UnknownTier       Tier = "Unknown"
)

// Categories returns the concrete categories in documentation order.
func Categories() []Category {
	return []Category{GUIApplications, DataStructures, UtilityLibraries}
}

// Tiers returns the concrete tiers from beginner to advanced.
func Tiers() []Tier {
	return []Tier{Tier1Beginner, Tier2Intermediate, Tier3Advanced}
}

// ParseCategory maps a serialized category back to its constant.
// Anything unrecognized is UnknownCategory.
func ParseCategory(s string) Category {
	for _, c := range Categories() {
		if string(c) == s {
			return c
		}
	}
	return UnknownCategory
}

// ParseTier maps a serialized tier back to its constant.
// Anything unrecognized is UnknownTier.
func ParseTier(s string) Tier {
	for _, t := range Tiers() {
		if string(t) == s {
			return t
		}
	}
	return UnknownTier
}

// Level returns 1, 2 or 3 for the concrete tiers and 0 otherwise.
func (t Tier) Level() int {
	switch t {
	case Tier1Beginner:
		return 1
	case Tier2Intermediate:
		return 2
	case Tier3Advanced:
		return 3
	}
	return 0
}

// ScriptMetadata is the classification result for a single script.
// Records are built once and treated as read-only afterwards.
type ScriptMetadata struct {
	Filename        string   `json:"filename" yaml:"filename"`
	Category        Category `json:"category" yaml:"category"`
	Tier            Tier     `json:"tier" yaml:"tier"`
	Concepts        []string `json:"concepts" yaml:"concepts"` // sorted, no duplicates
	Dependencies    []string `json:"dependencies" yaml:"dependencies"`
	KeyFunctions    []string `json:"key_functions" yaml:"key_functions"`
	Classes         []string `json:"classes" yaml:"classes"`
	HasGUI          bool     `json:"has_gui" yaml:"has_gui"`
	HasOOP          bool     `json:"has_oop" yaml:"has_oop"`
	HasCOM          bool     `json:"has_com" yaml:"has_com"`
	HasHotkeys      bool     `json:"has_hotkeys" yaml:"has_hotkeys"`
	LineCount       int      `json:"line_count" yaml:"line_count"`
	ComplexityScore int      `json:"complexity_score" yaml:"complexity_score"`
}

// ConceptSet returns the concepts as a set.
func (m *ScriptMetadata) ConceptSet() map[string]struct{} {
	set := make(map[string]struct{}, len(m.Concepts))
	for _, c := range m.Concepts {
		set[c] = struct{}{}
	}
	return set
}

// HasConcept reports whether the script demonstrates concept.
func (m *ScriptMetadata) HasConcept(concept string) bool {
	for _, c := range m.Concepts {
		if c == concept {
			return true
		}
	}
	return false
}

// Normalize sorts and deduplicates Concepts and replaces nil slices with
// empty ones so serialized records always carry arrays.
func (m *ScriptMetadata) Normalize() {
	m.Concepts = SortedSet(m.Concepts)
	if m.Dependencies == nil {
		m.Dependencies = []string{}
	}
	if m.KeyFunctions == nil {
		m.KeyFunctions = []string{}
	}
	if m.Classes == nil {
		m.Classes = []string{}
	}
}

// SortedSet returns the distinct values of in, sorted. Never nil.
func SortedSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// CrossRef links a script to another script sharing at least two concepts.
type CrossRef struct {
	Filename       string   `json:"filename"`
	Category       Category `json:"category"`
	Tier           Tier     `json:"tier"`
	SharedConcepts []string `json:"shared_concepts"`
}

// Failure records a script that could not be processed.
type Failure struct {
	Path   string
	Reason string
}

// RunReport is the outcome of analyzing a batch of scripts.
type RunReport struct {
	Scripts  []ScriptMetadata
	Failures []Failure
}
