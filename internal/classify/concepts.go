package classify

import (
	"strings"

	"github.com/phobologic/ahkguide/internal/lang"
	"github.com/phobologic/ahkguide/internal/model"
)

// Concept labels.
const (
	ConceptGUICreation      = "GUI Creation"
	ConceptGUIControls      = "GUI Controls"
	ConceptOOP              = "Object-Oriented Programming"
	ConceptHotkeys          = "Hotkeys"
	ConceptHotstrings       = "Hotstrings"
	ConceptCOM              = "COM Automation"
	ConceptDotNet           = ".NET Interop"
	ConceptWinRT            = "WinRT/Modern Windows"
	ConceptMap              = "Map Data Structure"
	ConceptArray            = "Array Operations"
	ConceptProperties       = "Properties"
	ConceptStaticMethods    = "Static Methods"
	ConceptCallbacks        = "Callbacks"
	ConceptEventHandling    = "Event Handling"
	ConceptBuffers          = "Buffer Manipulation"
	ConceptDllCall          = "DllCall/WinAPI"
	ConceptRegex            = "Regular Expressions"
	ConceptFactoryPattern   = "Factory Pattern"
	ConceptSingletonPattern = "Singleton Pattern"
	ConceptObserverPattern  = "Observer Pattern"
	ConceptAdapterPattern   = "Adapter Pattern"
	ConceptDecoratorPattern = "Decorator Pattern"
	ConceptMVCPattern       = "MVC Pattern"
	ConceptInheritance      = "Inheritance"
)

type conceptRule struct {
	rule  lang.RuleName
	label string
}

// conceptRules maps registry matches to labels. prop_set shares its pattern
// with prop_get and has no label of its own.
var conceptRules = []conceptRule{
	{lang.GUICreate, ConceptGUICreation},
	{lang.GUIAdd, ConceptGUIControls},
	{lang.ClassDef, ConceptOOP},
	{lang.Hotkey, ConceptHotkeys},
	{lang.Hotstring, ConceptHotstrings},
	{lang.COMCreate, ConceptCOM},
	{lang.CLRUsage, ConceptDotNet},
	{lang.WinRTUsage, ConceptWinRT},
	{lang.MapUsage, ConceptMap},
	{lang.ArrayUsage, ConceptArray},
	{lang.PropGet, ConceptProperties},
	{lang.StaticMethod, ConceptStaticMethods},
	{lang.Callback, ConceptCallbacks},
	{lang.EventHandler, ConceptEventHandling},
	{lang.BufferUsage, ConceptBuffers},
	{lang.DllCall, ConceptDllCall},
	{lang.RegexUsage, ConceptRegex},
}

type filenameRule struct {
	substr string
	label  string
}

// filenameConcepts are matched case-insensitively against the file name.
var filenameConcepts = []filenameRule{
	{"factory", ConceptFactoryPattern},
	{"singleton", ConceptSingletonPattern},
	{"observer", ConceptObserverPattern},
	{"adapter", ConceptAdapterPattern},
	{"decorator", ConceptDecoratorPattern},
	{"mvc", ConceptMVCPattern},
	{"inheritance", ConceptInheritance},
}

// ExtractConcepts returns the distinct concept labels demonstrated by a
// script, sorted by label.
func ExtractConcepts(content, filename string) []string {
	var labels []string
	for _, cr := range conceptRules {
		if lang.Match(cr.rule, content) {
			labels = append(labels, cr.label)
		}
	}

	lower := strings.ToLower(filename)
	for _, fr := range filenameConcepts {
		if strings.Contains(lower, fr.substr) {
			labels = append(labels, fr.label)
		}
	}

	return model.SortedSet(labels)
}

// ConceptLabels lists every label the extractor can produce, in table order.
func ConceptLabels() []string {
	out := make([]string, 0, len(conceptRules)+len(filenameConcepts))
	for _, cr := range conceptRules {
		out = append(out, cr.label)
	}
	for _, fr := range filenameConcepts {
		out = append(out, fr.label)
	}
	return out
}
