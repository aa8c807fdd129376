package classify

import (
	"strings"

	"github.com/phobologic/ahkguide/internal/lang"
	"github.com/phobologic/ahkguide/internal/model"
)

// prefixOverrides are checked against the file name before any content
// analysis. The first matching prefix wins.
var prefixOverrides = []struct {
	prefix   string
	category model.Category
}{
	{"GUI_", model.GUIApplications},
	{"Data_", model.DataStructures},
	{"Util_", model.UtilityLibraries},
}

var (
	guiKeywords  = []string{"gui", "window", "button", "control", "listview", "treeview", "tab", "menu", "dialog", "form"}
	dataKeywords = []string{"array", "map", "object", "collection", "list", "queue", "stack", "tree", "graph", "hash"}
	dataNameHint = []string{"array", "map", "stack", "queue", "tree", "graph"}
)

// guiThreshold is the keyword count above which a script is treated as GUI
// even without a window construction call.
const guiThreshold = 2

type categoryInput struct {
	lowerName string
	content   string
	guiScore  int
	dataScore int
}

// contentRules run in order after the prefix overrides; the first that
// fires decides. Reordering changes classification results.
var contentRules = []struct {
	category model.Category
	fires    func(in *categoryInput) bool
}{
	{model.GUIApplications, func(in *categoryInput) bool {
		return lang.Match(lang.GUICreate, in.content) || in.guiScore > guiThreshold
	}},
	{model.DataStructures, func(in *categoryInput) bool {
		if in.dataScore <= in.guiScore {
			return false
		}
		return lang.Match(lang.MapUsage, in.content) ||
			lang.Match(lang.ArrayUsage, in.content) ||
			containsAny(in.lowerName, dataNameHint)
	}},
	{model.UtilityLibraries, func(*categoryInput) bool { return true }},
}

// Categorize assigns a script to a content category. The concept list is
// accepted for symmetry with ClassifyTier; the current rules do not consult it.
func Categorize(filename, content string, _ []string) model.Category {
	for _, po := range prefixOverrides {
		if strings.HasPrefix(filename, po.prefix) {
			return po.category
		}
	}

	lowerName := strings.ToLower(filename)
	lowerContent := strings.ToLower(content)
	in := &categoryInput{
		lowerName: lowerName,
		content:   content,
		guiScore:  keywordScore(guiKeywords, lowerName, lowerContent),
		dataScore: keywordScore(dataKeywords, lowerName, lowerContent),
	}

	for _, r := range contentRules {
		if r.fires(in) {
			return r.category
		}
	}
	return model.UnknownCategory
}

// keywordScore counts the keywords that appear at least once in either text.
func keywordScore(keywords []string, name, content string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(name, kw) || strings.Contains(content, kw) {
			n++
		}
	}
	return n
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
