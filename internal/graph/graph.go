// Package graph relates scripts to each other: concept cross-references and
// include edges, with PageRank over the include graph.
package graph

import (
	"math"
	"path"
	"sort"
	"strings"

	"github.com/phobologic/ahkguide/internal/model"
)

// MinSharedConcepts is the number of concepts two scripts must share to be
// cross-referenced.
const MinSharedConcepts = 2

// CrossReferences maps each script's filename to the other scripts sharing at
// least MinSharedConcepts concepts with it. Scripts with no related scripts
// are absent. Entries are ordered by filename and shared concepts are sorted.
func CrossReferences(scripts []model.ScriptMetadata) map[string][]model.CrossRef {
	refs := make(map[string][]model.CrossRef)

	sets := make([]map[string]struct{}, len(scripts))
	for i := range scripts {
		sets[i] = scripts[i].ConceptSet()
	}

	for i := range scripts {
		for j := range scripts {
			if i == j || scripts[i].Filename == scripts[j].Filename {
				continue
			}
			shared := intersect(sets[i], sets[j])
			if len(shared) < MinSharedConcepts {
				continue
			}
			refs[scripts[i].Filename] = append(refs[scripts[i].Filename], model.CrossRef{
				Filename:       scripts[j].Filename,
				Category:       scripts[j].Category,
				Tier:           scripts[j].Tier,
				SharedConcepts: shared,
			})
		}
	}

	// Sort for deterministic output
	for name := range refs {
		list := refs[name]
		sort.SliceStable(list, func(a, b int) bool {
			return list[a].Filename < list[b].Filename
		})
	}

	return refs
}

// Edge is an include relation between two scripts of the same batch.
type Edge struct {
	Source   string   // including script
	Target   string   // included script
	Includes []string // include directives that resolved to Target
}

// IncludeEdges resolves each script's #Include targets against the batch by
// base name, ignoring case and surrounding quotes or angle brackets. A bare
// library name such as <JSON> resolves to JSON.ahk.
func IncludeEdges(scripts []model.ScriptMetadata) []Edge {
	// Build definition index: lower-case base name → filename
	defines := make(map[string]string, len(scripts))
	for i := range scripts {
		defines[strings.ToLower(scripts[i].Filename)] = scripts[i].Filename
	}

	type edgeKey struct{ src, tgt string }
	edgeIncludes := make(map[edgeKey][]string)

	for i := range scripts {
		src := scripts[i].Filename
		for _, dep := range scripts[i].Dependencies {
			tgt, ok := defines[includeName(dep)]
			if !ok || tgt == src {
				continue // unresolved or self-include
			}
			key := edgeKey{src, tgt}
			if !contains(edgeIncludes[key], dep) {
				edgeIncludes[key] = append(edgeIncludes[key], dep)
			}
		}
	}

	var edges []Edge
	for key, incs := range edgeIncludes {
		edges = append(edges, Edge{Source: key.src, Target: key.tgt, Includes: incs})
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})

	return edges
}

// includeName reduces an include directive argument to a lower-case base
// file name.
func includeName(dep string) string {
	dep = strings.TrimSpace(dep)
	if i := strings.Index(dep, " ;"); i >= 0 {
		dep = strings.TrimSpace(dep[:i])
	}
	lib := strings.HasPrefix(dep, "<") && strings.HasSuffix(dep, ">")
	dep = strings.Trim(dep, `<>"'`)
	dep = path.Base(strings.ReplaceAll(dep, `\`, "/"))
	if lib && path.Ext(dep) == "" {
		dep += ".ahk"
	}
	return strings.ToLower(dep)
}

// Ranked is a script with its include-graph rank.
type Ranked struct {
	Filename string
	Rank     float64
}

// Rank applies PageRank over the include edges and returns every script
// sorted by rank descending, filename ascending on ties. Scripts included by
// many others rank highest.
func Rank(scripts []model.ScriptMetadata, edges []Edge) []Ranked {
	if len(scripts) == 0 {
		return nil
	}

	nodes := make(map[string]struct{}, len(scripts))
	for i := range scripts {
		nodes[scripts[i].Filename] = struct{}{}
	}

	var ranks map[string]float64
	if len(edges) == 0 {
		uniform := 1.0 / float64(len(nodes))
		ranks = make(map[string]float64, len(nodes))
		for node := range nodes {
			ranks[node] = uniform
		}
	} else {
		outEdges := make(map[string][]string) // node → targets, repeated per include
		outDegree := make(map[string]int)
		for _, e := range edges {
			for range e.Includes {
				outEdges[e.Source] = append(outEdges[e.Source], e.Target)
				outDegree[e.Source]++
			}
		}
		ranks = pageRank(nodes, outEdges, outDegree, 0.85, 100, 1e-6)
	}

	out := make([]Ranked, 0, len(nodes))
	for node := range nodes {
		out = append(out, Ranked{Filename: node, Rank: ranks[node]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank > out[j].Rank
		}
		return out[i].Filename < out[j].Filename
	})
	return out
}

func pageRank(
	nodes map[string]struct{},
	outEdges map[string][]string,
	outDegree map[string]int,
	alpha float64,
	maxIter int,
	tol float64,
) map[string]float64 {
	n := len(nodes)
	if n == 0 {
		return nil
	}

	rank := make(map[string]float64, n)
	initial := 1.0 / float64(n)
	for node := range nodes {
		rank[node] = initial
	}

	teleport := (1.0 - alpha) / float64(n)

	for iter := 0; iter < maxIter; iter++ {
		newRank := make(map[string]float64, n)

		// Dangling node contribution (nodes with no outgoing edges)
		var danglingSum float64
		for node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += rank[node]
			}
		}
		danglingContrib := alpha * danglingSum / float64(n)

		for node := range nodes {
			newRank[node] = teleport + danglingContrib
		}

		// Distribute rank through edges
		for src, targets := range outEdges {
			deg := float64(outDegree[src])
			contrib := alpha * rank[src] / deg
			for _, tgt := range targets {
				newRank[tgt] += contrib
			}
		}

		// Check convergence
		var diff float64
		for node := range nodes {
			diff += math.Abs(newRank[node] - rank[node])
		}

		rank = newRank

		if diff < tol {
			break
		}
	}

	return rank
}

func intersect(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
