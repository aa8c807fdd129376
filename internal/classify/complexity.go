package classify

import (
	"github.com/phobologic/ahkguide/internal/lang"
	"github.com/phobologic/ahkguide/internal/parse"
)

const (
	maxScore     = 100
	maxSizeScore = 20
	linesPerUnit = 10
	classWeight  = 5
	funcWeight   = 2
)

// featureBonuses are added once each when the rule matches.
var featureBonuses = []struct {
	rule  lang.RuleName
	bonus int
}{
	{lang.COMCreate, 15},
	{lang.CLRUsage, 15},
	{lang.BufferUsage, 10},
	{lang.DllCall, 10},
	{lang.GUICreate, 5},
	{lang.Callback, 8},
}

// Score computes the 0-100 complexity of a script from its size, structure
// counts and advanced features. Terms are summed without per-term caps and
// the total is clamped.
func Score(content string, classCount, functionCount int) int {
	score := min(parse.NonBlankLines(content)/linesPerUnit, maxSizeScore)
	score += max(classCount, 0) * classWeight
	score += max(functionCount, 0) * funcWeight

	for _, fb := range featureBonuses {
		if lang.Match(fb.rule, content) {
			score += fb.bonus
		}
	}

	return min(max(score, 0), maxScore)
}
