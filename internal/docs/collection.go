package docs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phobologic/ahkguide/internal/config"
	"github.com/phobologic/ahkguide/internal/graph"
	"github.com/phobologic/ahkguide/internal/model"
	"github.com/phobologic/ahkguide/internal/ranking"
)

const (
	guideScriptsPerConcept = 10
	pathScriptsPerStage    = 10
	topConceptCount        = 15
	mostIncludedCount      = 10
)

var levelNames = [...]string{"", "Beginner", "Intermediate", "Advanced"}

// summarize joins the first n concepts and reports how many were left out
// using sep before the "+N more" suffix.
func summarize(concepts []string, n int, sep string) string {
	if len(concepts) <= n {
		return strings.Join(concepts, ", ")
	}
	return strings.Join(concepts[:n], ", ") + fmt.Sprintf("%s+%d more", sep, len(concepts)-n)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Index renders INDEX.md: scripts grouped by category, then tier, then
// filename.
func Index(scripts []model.ScriptMetadata) string {
	byCategory := make(map[model.Category]map[model.Tier][]model.ScriptMetadata)
	for _, md := range scripts {
		if byCategory[md.Category] == nil {
			byCategory[md.Category] = make(map[model.Tier][]model.ScriptMetadata)
		}
		byCategory[md.Category][md.Tier] = append(byCategory[md.Category][md.Tier], md)
	}

	var b strings.Builder
	b.WriteString("# AutoHotkey v2 Training Database Index\n\n")
	fmt.Fprintf(&b, "**Total Scripts:** %d\n\n", len(scripts))

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	for _, c := range categories {
		tiers := byCategory[model.Category(c)]
		fmt.Fprintf(&b, "## %s\n\n", c)

		tierNames := make([]string, 0, len(tiers))
		for t := range tiers {
			tierNames = append(tierNames, string(t))
		}
		sort.Strings(tierNames)

		for _, t := range tierNames {
			list := tiers[model.Tier(t)]
			ranking.SortByFilename(list)
			fmt.Fprintf(&b, "### %s (%d scripts)\n\n", t, len(list))
			for _, md := range list {
				fmt.Fprintf(&b, "- **%s** - %s\n", md.Filename, summarize(md.Concepts, 3, ", "))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CategoryReadme renders the generated part of a category's README.md.
func CategoryReadme(category model.Category, scripts []model.ScriptMetadata, p *config.Patterns) string {
	var inCategory []model.ScriptMetadata
	for _, md := range scripts {
		if md.Category == category {
			inCategory = append(inCategory, md)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", category)
	fmt.Fprintf(&b, "**Description:** %s\n\n", p.CategoryDescription(category))
	fmt.Fprintf(&b, "**Total Scripts:** %d\n\n", len(inCategory))

	b.WriteString("## Scripts by Difficulty\n\n")
	for _, tier := range model.Tiers() {
		var list []model.ScriptMetadata
		for _, md := range inCategory {
			if md.Tier == tier {
				list = append(list, md)
			}
		}
		if len(list) == 0 {
			continue
		}
		ranking.SortByFilename(list)

		lo, hi := p.TierRange(tier)
		fmt.Fprintf(&b, "### %s (%d scripts)\n", tier, len(list))
		fmt.Fprintf(&b, "*Complexity %d-%d*\n\n", lo, hi)
		for _, md := range list {
			fmt.Fprintf(&b, "- **[%s](%s/%s)** (Complexity: %d) - %s\n",
				md.Filename, tier, md.Filename, md.ComplexityScore, summarize(md.Concepts, 3, " "))
		}
		b.WriteString("\n")
	}

	if notes := p.CategoryNotes(category); len(notes) > 0 {
		b.WriteString("## Pattern Categories\n\n")
		for _, n := range notes {
			fmt.Fprintf(&b, "### %s\n%s\n\n", n.Name, n.Description)
		}
	}
	return b.String()
}

// ConceptGuide renders CONCEPTS.md: concepts ordered by configured level,
// then name, each with its easiest scripts.
func ConceptGuide(scripts []model.ScriptMetadata, p *config.Patterns) string {
	index := ranking.ByConcept(scripts)
	concepts := ranking.OrderConcepts(index, p.ConceptTier)

	var b strings.Builder
	b.WriteString("# AutoHotkey v2 Concepts Guide\n\n")
	b.WriteString("Scripts organized by the concepts they demonstrate.\n\n")

	for _, concept := range concepts {
		level, ok := p.ConceptTier(concept)
		if !ok {
			level = ranking.DefaultTierLevel
		}
		list := index[concept]

		fmt.Fprintf(&b, "## %s\n", concept)
		fmt.Fprintf(&b, "**Level:** %s\n\n", levelNames[level])
		if pats := p.ConceptPatterns(concept); len(pats) > 0 {
			fmt.Fprintf(&b, "**Patterns:** `%s`\n\n", strings.Join(pats, "`, `"))
		}
		fmt.Fprintf(&b, "**Scripts (%d):**\n", len(list))
		for _, md := range ranking.Select(list, guideScriptsPerConcept) {
			fmt.Fprintf(&b, "- [%s](%s/%s/%s) (%s, Complexity: %d)\n",
				md.Filename, md.Category, md.Tier, md.Filename, md.Category, md.ComplexityScore)
		}
		if len(list) > guideScriptsPerConcept {
			fmt.Fprintf(&b, "- *...and %d more*\n", len(list)-guideScriptsPerConcept)
		}
		b.WriteString("\n")
	}
	return b.String()
}

var capstones = []string{
	"**Simple GUI Application** - Text editor with file operations",
	"**Data Management Tool** - CSV/JSON processor with GUI",
	"**Automation Suite** - Hotkey-based workflow automation",
	"**System Utility** - Window manager or clipboard enhancer",
	"**Advanced Integration** - COM/WinRT application with modern UI",
}

// LearningPath renders LEARNING_PATH.md: one stage per tier with configured
// topics and the lowest-complexity scripts of that tier.
func LearningPath(scripts []model.ScriptMetadata, p *config.Patterns) string {
	var b strings.Builder
	b.WriteString("# AutoHotkey v2 Learning Path\n\n")
	b.WriteString("A structured approach to learning AutoHotkey v2 from beginner to advanced.\n\n")

	for i, tier := range model.Tiers() {
		fmt.Fprintf(&b, "## Stage %d: %s\n\n", i+1, levelNames[tier.Level()])
		b.WriteString("**Topics to Learn:**\n")
		for _, topic := range p.TierTopics(tier) {
			fmt.Fprintf(&b, "- %s\n", topic)
		}
		b.WriteString("\n")

		b.WriteString("**Recommended Scripts:**\n")
		for n, md := range ranking.ByTier(scripts, tier, pathScriptsPerStage) {
			fmt.Fprintf(&b, "%d. **%s** - %s\n", n+1, md.Filename, strings.Join(firstN(md.Concepts, 2), ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Capstone Projects\n\n")
	b.WriteString("After completing the learning path, try building these projects:\n\n")
	for i, c := range capstones {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	b.WriteString("\n")
	return b.String()
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

var complexityRanges = []struct {
	label string
	max   int
}{
	{"0-20", 20},
	{"21-40", 40},
	{"41-60", 60},
	{"61-80", 80},
	{"81-100", 100},
}

// Statistics renders STATISTICS.md.
func Statistics(scripts []model.ScriptMetadata) string {
	total := len(scripts)

	var b strings.Builder
	b.WriteString("# AutoHotkey v2 Training Database Statistics\n\n")
	fmt.Fprintf(&b, "**Total Scripts:** %d\n\n", total)

	b.WriteString("## Scripts by Category\n\n")
	categoryCounts := make(map[string]int)
	tierCounts := make(map[model.Tier]int)
	for _, md := range scripts {
		categoryCounts[string(md.Category)]++
		tierCounts[md.Tier]++
	}
	categories := make([]string, 0, len(categoryCounts))
	for c := range categoryCounts {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		n := categoryCounts[c]
		fmt.Fprintf(&b, "- **%s:** %d scripts (%.1f%%)\n", c, n, percent(n, total))
	}
	b.WriteString("\n")

	b.WriteString("## Scripts by Difficulty Tier\n\n")
	for _, t := range model.Tiers() {
		n := tierCounts[t]
		fmt.Fprintf(&b, "- **%s:** %d scripts (%.1f%%)\n", t, n, percent(n, total))
	}
	b.WriteString("\n")

	index := ranking.ByConcept(scripts)
	b.WriteString("## Concept Coverage\n\n")
	fmt.Fprintf(&b, "**Total Unique Concepts:** %d\n\n", len(index))
	b.WriteString("### Most Common Concepts\n\n")
	for _, cc := range ranking.TopConcepts(index, topConceptCount) {
		fmt.Fprintf(&b, "- **%s:** %d scripts\n", cc.Concept, cc.Count)
	}
	b.WriteString("\n")

	b.WriteString("## Complexity Distribution\n\n")
	if total > 0 {
		sum, lo, hi := 0, scripts[0].ComplexityScore, scripts[0].ComplexityScore
		buckets := make([]int, len(complexityRanges))
		for _, md := range scripts {
			c := md.ComplexityScore
			sum += c
			lo = min(lo, c)
			hi = max(hi, c)
			for i, r := range complexityRanges {
				if c <= r.max || i == len(complexityRanges)-1 {
					buckets[i]++
					break
				}
			}
		}
		fmt.Fprintf(&b, "- **Average Complexity:** %.1f\n", float64(sum)/float64(total))
		fmt.Fprintf(&b, "- **Min Complexity:** %d\n", lo)
		fmt.Fprintf(&b, "- **Max Complexity:** %d\n\n", hi)

		b.WriteString("### Complexity Ranges\n\n")
		for i, r := range complexityRanges {
			pct := percent(buckets[i], total)
			bar := strings.Repeat("█", int(pct/2))
			fmt.Fprintf(&b, "- **%s:** %3d scripts %s %.1f%%\n", r.label, buckets[i], bar, pct)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Feature Usage\n\n")
	features := []struct {
		name string
		has  func(model.ScriptMetadata) bool
	}{
		{"GUI", func(m model.ScriptMetadata) bool { return m.HasGUI }},
		{"OOP", func(m model.ScriptMetadata) bool { return m.HasOOP }},
		{"COM/Interop", func(m model.ScriptMetadata) bool { return m.HasCOM }},
		{"Hotkeys", func(m model.ScriptMetadata) bool { return m.HasHotkeys }},
	}
	for _, f := range features {
		n := 0
		for _, md := range scripts {
			if f.has(md) {
				n++
			}
		}
		fmt.Fprintf(&b, "- **%s:** %d scripts (%.1f%%)\n", f.name, n, percent(n, total))
	}
	b.WriteString("\n")

	writeMostIncluded(&b, scripts)
	return b.String()
}

// writeMostIncluded lists the scripts other scripts #Include, by include
// graph rank. Nothing is written when no include resolves within the batch.
func writeMostIncluded(b *strings.Builder, scripts []model.ScriptMetadata) {
	edges := graph.IncludeEdges(scripts)
	if len(edges) == 0 {
		return
	}
	inbound := make(map[string]int)
	for _, e := range edges {
		inbound[e.Target]++
	}

	b.WriteString("## Most Included Scripts\n\n")
	n := 0
	for _, r := range graph.Rank(scripts, edges) {
		if inbound[r.Filename] == 0 {
			continue
		}
		fmt.Fprintf(b, "- **%s:** included by %d scripts (rank %.3f)\n", r.Filename, inbound[r.Filename], r.Rank)
		n++
		if n == mostIncludedCount {
			break
		}
	}
	b.WriteString("\n")
}
