// Package lang provides the pattern registry: a fixed table of named text
// rules recognizing AutoHotkey v2 constructs.
package lang

import (
	"regexp"
	"sort"
	"sync"
)

// RuleName identifies a registered rule. Names are stable and appear in
// configuration and test fixtures.
type RuleName string

// Rule is a named pattern over a whole script's text.
type Rule struct {
	Name        RuleName
	Description string
	re          *regexp.Regexp
}

// Match reports whether the rule occurs anywhere in text.
func (r *Rule) Match(text string) bool {
	return r.re.MatchString(text)
}

// FindAll returns every occurrence in source order. For rules with a capture
// group the first group is returned, otherwise the whole match.
func (r *Rule) FindAll(text string) []string {
	if r.re.NumSubexp() == 0 {
		out := r.re.FindAllString(text, -1)
		if out == nil {
			return []string{}
		}
		return out
	}
	matches := r.re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Pattern returns the rule's expression source.
func (r *Rule) Pattern() string {
	return r.re.String()
}

// Rules maps rule names to their configuration.
// Populated by init() functions in per-dialect files.
var Rules = map[RuleName]*Rule{}

var (
	order     []RuleName
	orderOnce sync.Once
)

func register(name RuleName, description, pattern string) {
	Rules[name] = &Rule{
		Name:        name,
		Description: description,
		re:          regexp.MustCompile(pattern),
	}
}

// Names returns all registered rule names, sorted.
func Names() []RuleName {
	orderOnce.Do(func() {
		for name := range Rules {
			order = append(order, name)
		}
		sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	})
	return order
}

// Lookup returns the rule registered under name.
func Lookup(name RuleName) (*Rule, bool) {
	r, ok := Rules[name]
	return r, ok
}

// Match reports whether the named rule occurs in text.
// Unknown names never match.
func Match(name RuleName, text string) bool {
	r, ok := Rules[name]
	if !ok {
		return false
	}
	return r.Match(text)
}

// FindAll returns the named rule's occurrences in text, or nil for unknown names.
func FindAll(name RuleName, text string) []string {
	r, ok := Rules[name]
	if !ok {
		return nil
	}
	return r.FindAll(text)
}
