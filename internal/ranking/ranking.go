// Package ranking selects and orders scripts for learning material.
package ranking

import (
	"sort"

	"github.com/phobologic/ahkguide/internal/model"
)

// DefaultTierLevel is the level assumed for concepts without a configured tier.
const DefaultTierLevel = 2

// ByTier returns up to n scripts of the given tier, lowest complexity first
// with filename breaking ties. n <= 0 returns every script of the tier.
func ByTier(scripts []model.ScriptMetadata, tier model.Tier, n int) []model.ScriptMetadata {
	var selected []model.ScriptMetadata
	for i := range scripts {
		if scripts[i].Tier == tier {
			selected = append(selected, scripts[i])
		}
	}
	SortByComplexity(selected)
	return limit(selected, n)
}

// SortByComplexity orders scripts by complexity, then filename.
func SortByComplexity(scripts []model.ScriptMetadata) {
	sort.SliceStable(scripts, func(i, j int) bool {
		if scripts[i].ComplexityScore != scripts[j].ComplexityScore {
			return scripts[i].ComplexityScore < scripts[j].ComplexityScore
		}
		return scripts[i].Filename < scripts[j].Filename
	})
}

// SortByFilename orders scripts by filename.
func SortByFilename(scripts []model.ScriptMetadata) {
	sort.SliceStable(scripts, func(i, j int) bool {
		return scripts[i].Filename < scripts[j].Filename
	})
}

// ByConcept indexes scripts by every concept they demonstrate. Each list keeps
// the input order.
func ByConcept(scripts []model.ScriptMetadata) map[string][]model.ScriptMetadata {
	index := make(map[string][]model.ScriptMetadata)
	for i := range scripts {
		for _, c := range scripts[i].Concepts {
			index[c] = append(index[c], scripts[i])
		}
	}
	return index
}

// OrderConcepts returns the concepts of index ordered by tier level (from
// tierOf, DefaultTierLevel when unknown), then name.
func OrderConcepts(index map[string][]model.ScriptMetadata, tierOf func(string) (int, bool)) []string {
	level := func(c string) int {
		if tierOf != nil {
			if l, ok := tierOf(c); ok {
				return l
			}
		}
		return DefaultTierLevel
	}

	concepts := make([]string, 0, len(index))
	for c := range index {
		concepts = append(concepts, c)
	}
	sort.Slice(concepts, func(i, j int) bool {
		li, lj := level(concepts[i]), level(concepts[j])
		if li != lj {
			return li < lj
		}
		return concepts[i] < concepts[j]
	})
	return concepts
}

// ConceptCount is a concept with the number of scripts demonstrating it.
type ConceptCount struct {
	Concept string
	Count   int
}

// TopConcepts returns the n most demonstrated concepts, most common first,
// name breaking ties. n <= 0 returns all.
func TopConcepts(index map[string][]model.ScriptMetadata, n int) []ConceptCount {
	counts := make([]ConceptCount, 0, len(index))
	for c, scripts := range index {
		counts = append(counts, ConceptCount{Concept: c, Count: len(scripts)})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Concept < counts[j].Concept
	})
	if n > 0 && n < len(counts) {
		counts = counts[:n]
	}
	return counts
}

// Select returns a copy of the first n scripts after ordering them by
// complexity. The input is not modified.
func Select(scripts []model.ScriptMetadata, n int) []model.ScriptMetadata {
	out := make([]model.ScriptMetadata, len(scripts))
	copy(out, scripts)
	SortByComplexity(out)
	return limit(out, n)
}

func limit(scripts []model.ScriptMetadata, n int) []model.ScriptMetadata {
	if n > 0 && n < len(scripts) {
		return scripts[:n]
	}
	return scripts
}
