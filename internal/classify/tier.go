package classify

import "github.com/phobologic/ahkguide/internal/model"

const (
	advancedThreshold     = 60
	intermediateThreshold = 30
)

var advancedConcepts = []string{
	ConceptCOM, ConceptDotNet, ConceptWinRT, ConceptBuffers, ConceptCallbacks,
	ConceptFactoryPattern, ConceptObserverPattern, ConceptMVCPattern,
}

var intermediateConcepts = []string{
	ConceptOOP, ConceptProperties, ConceptStaticMethods, ConceptEventHandling, ConceptRegex,
}

type tierInput struct {
	complexity int
	concepts   map[string]struct{}
	hasGUI     bool
	hasOOP     bool
	hasCOM     bool
}

// tierRules run in order; the first that fires decides. The hasCOM flag and
// the COM Automation concept both lead to Tier3 and are checked separately.
var tierRules = []struct {
	tier  model.Tier
	fires func(in *tierInput) bool
}{
	{model.Tier3Advanced, func(in *tierInput) bool {
		return in.complexity > advancedThreshold || in.hasCOM
	}},
	{model.Tier3Advanced, func(in *tierInput) bool {
		return overlaps(in.concepts, advancedConcepts)
	}},
	{model.Tier2Intermediate, func(in *tierInput) bool {
		return in.complexity > intermediateThreshold || (in.hasOOP && in.hasGUI)
	}},
	{model.Tier2Intermediate, func(in *tierInput) bool {
		return overlaps(in.concepts, intermediateConcepts)
	}},
	{model.Tier1Beginner, func(*tierInput) bool { return true }},
}

// ClassifyTier assigns a difficulty tier. It always returns a concrete tier.
func ClassifyTier(complexity int, concepts []string, hasGUI, hasOOP, hasCOM bool) model.Tier {
	set := make(map[string]struct{}, len(concepts))
	for _, c := range concepts {
		set[c] = struct{}{}
	}
	in := &tierInput{
		complexity: complexity,
		concepts:   set,
		hasGUI:     hasGUI,
		hasOOP:     hasOOP,
		hasCOM:     hasCOM,
	}
	for _, r := range tierRules {
		if r.fires(in) {
			return r.tier
		}
	}
	return model.Tier1Beginner
}

func overlaps(set map[string]struct{}, labels []string) bool {
	for _, l := range labels {
		if _, ok := set[l]; ok {
			return true
		}
	}
	return false
}
