package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/ahkguide/internal/classify"
	"github.com/phobologic/ahkguide/internal/model"
)

// DefaultPatternFile is the pattern configuration file name looked up in the
// training directory.
const DefaultPatternFile = "pattern_config.yaml"

// Patterns documents categories, tiers and concepts for generated docs.
// It never affects classification.
type Patterns struct {
	Categories      map[string]CategoryConfig `yaml:"categories" json:"categories" toml:"categories"`
	TierDefinitions map[string]TierDefinition `yaml:"tier_definitions" json:"tier_definitions" toml:"tier_definitions"`
	ConceptMappings map[string]ConceptMapping `yaml:"concept_mappings" json:"concept_mappings" toml:"concept_mappings"`
}

// CategoryConfig describes a category and the pattern families it covers.
type CategoryConfig struct {
	Description string            `yaml:"description" json:"description" toml:"description"`
	Patterns    map[string]string `yaml:"patterns,omitempty" json:"patterns,omitempty" toml:"patterns,omitempty"`
}

// TierDefinition gives a tier's documented complexity range and topics.
type TierDefinition struct {
	ComplexityRange []int    `yaml:"complexity_range" json:"complexity_range" toml:"complexity_range"`
	Topics          []string `yaml:"topics" json:"topics" toml:"topics"`
}

// ConceptMapping gives a concept's teaching level (1 to 3) and example snippets.
type ConceptMapping struct {
	Tier     int      `yaml:"tier" json:"tier" toml:"tier"`
	Patterns []string `yaml:"patterns,omitempty" json:"patterns,omitempty" toml:"patterns,omitempty"`
}

// PatternNote is one named entry of a category's pattern notes.
type PatternNote struct {
	Name        string
	Description string
}

// DefaultPatterns returns the built-in pattern configuration.
func DefaultPatterns() *Patterns {
	return &Patterns{
		Categories: map[string]CategoryConfig{
			string(model.GUIApplications): {
				Description: "Scripts that build windows, dialogs and control-driven tools",
				Patterns: map[string]string{
					"Window Construction": "Creating Gui objects, adding controls with Add<Control> and showing them",
					"Event Wiring":        "Connecting controls to handlers with OnEvent",
					"List Views":          "Populating and reading ListView and TreeView controls",
				},
			},
			string(model.DataStructures): {
				Description: "Scripts implementing or exercising collections and data organization",
				Patterns: map[string]string{
					"Collections":        "Array and Map construction, iteration and lookup",
					"Custom Containers":  "Stack, queue, tree and graph classes",
					"Indexed Properties": "Item[] properties with get and set accessors",
				},
			},
			string(model.UtilityLibraries): {
				Description: "Reusable helpers, automation and system utilities",
				Patterns: map[string]string{
					"Hotkeys":         "Hotkey and hotstring driven automation",
					"Windows API":     "DllCall wrappers and raw buffers",
					"Text Processing": "RegExMatch and RegExReplace helpers",
				},
			},
		},
		TierDefinitions: map[string]TierDefinition{
			string(model.Tier1Beginner): {
				ComplexityRange: []int{0, 30},
				Topics: []string{
					"Variables and expressions",
					"Hotkeys and hotstrings",
					"Functions",
					"Arrays and Maps",
					"Simple message boxes and windows",
				},
			},
			string(model.Tier2Intermediate): {
				ComplexityRange: []int{31, 60},
				Topics: []string{
					"Classes and objects",
					"Properties and static methods",
					"Event handling",
					"Regular expressions",
					"Multi-control GUIs",
				},
			},
			string(model.Tier3Advanced): {
				ComplexityRange: []int{61, 100},
				Topics: []string{
					"COM automation",
					"DllCall and the Windows API",
					"Buffers and memory layout",
					"Callbacks",
					"Design patterns",
				},
			},
		},
		ConceptMappings: map[string]ConceptMapping{
			classify.ConceptHotkeys:          {Tier: 1, Patterns: []string{"^j::", "#HotIf WinActive()"}},
			classify.ConceptHotstrings:       {Tier: 1, Patterns: []string{"::btw::", ":*:sig::"}},
			classify.ConceptArray:            {Tier: 1, Patterns: []string{"[1, 2, 3]", "Array()", ".Push()"}},
			classify.ConceptMap:              {Tier: 1, Patterns: []string{"Map()", ".Has()", ".Get()"}},
			classify.ConceptGUICreation:      {Tier: 1, Patterns: []string{"Gui()", ".Show()"}},
			classify.ConceptGUIControls:      {Tier: 1, Patterns: []string{".AddButton()", ".AddEdit()", ".AddListView()"}},
			classify.ConceptOOP:              {Tier: 2, Patterns: []string{"class Name {", "__New()"}},
			classify.ConceptProperties:       {Tier: 2, Patterns: []string{"Item[] {", "get =>", "set =>"}},
			classify.ConceptStaticMethods:    {Tier: 2, Patterns: []string{"static Create()"}},
			classify.ConceptEventHandling:    {Tier: 2, Patterns: []string{".OnEvent()", "OnMessage()", "OnExit()"}},
			classify.ConceptRegex:            {Tier: 2, Patterns: []string{"RegExMatch()", "RegExReplace()"}},
			classify.ConceptInheritance:      {Tier: 2, Patterns: []string{"class Child extends Base", "super.__New()"}},
			classify.ConceptSingletonPattern: {Tier: 2, Patterns: []string{"static Instance"}},
			classify.ConceptAdapterPattern:   {Tier: 2},
			classify.ConceptDecoratorPattern: {Tier: 2},
			classify.ConceptCOM:              {Tier: 3, Patterns: []string{"ComObject()", "ComObjActive()"}},
			classify.ConceptDotNet:           {Tier: 3, Patterns: []string{"CLR_LoadLibrary()"}},
			classify.ConceptWinRT:            {Tier: 3, Patterns: []string{"WinRT()"}},
			classify.ConceptBuffers:          {Tier: 3, Patterns: []string{"Buffer()", "NumPut()", "NumGet()"}},
			classify.ConceptDllCall:          {Tier: 3, Patterns: []string{"DllCall()"}},
			classify.ConceptCallbacks:        {Tier: 3, Patterns: []string{"CallbackCreate()", "ObjBindMethod()"}},
			classify.ConceptFactoryPattern:   {Tier: 3},
			classify.ConceptObserverPattern:  {Tier: 3},
			classify.ConceptMVCPattern:       {Tier: 3},
		},
	}
}

// LoadPatterns reads a pattern configuration file and merges it over the
// defaults: every category, tier or concept entry present in the file
// replaces the built-in entry of the same name.
func LoadPatterns(path string) (*Patterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pattern config: %w", err)
	}

	var loaded Patterns
	if err := unmarshal(path, data, &loaded); err != nil {
		return nil, err
	}

	p := DefaultPatterns()
	for k, v := range loaded.Categories {
		p.Categories[k] = v
	}
	for k, v := range loaded.TierDefinitions {
		p.TierDefinitions[k] = v
	}
	for k, v := range loaded.ConceptMappings {
		p.ConceptMappings[k] = v
	}
	return p, nil
}

// EncodePatterns renders p in the format implied by path's extension.
func EncodePatterns(path string, p *Patterns) ([]byte, error) {
	return marshal(path, p)
}

// WritePatterns writes p to path in the format implied by its extension.
func WritePatterns(path string, p *Patterns) error {
	data, err := marshal(path, p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing pattern config: %w", err)
	}
	return nil
}

func unmarshal(path string, data []byte, v any) error {
	var err error
	switch format(path) {
	case "yaml":
		err = yaml.Unmarshal(data, v)
	case "json":
		err = json.Unmarshal(data, v)
	case "toml":
		err = toml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func marshal(path string, v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "yaml":
		data, err = yaml.Marshal(v)
	case "json":
		data, err = json.MarshalIndent(v, "", "  ")
	case "toml":
		data, err = toml.Marshal(v)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return data, nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	}
	return ""
}

// CategoryDescription returns the configured description of category.
func (p *Patterns) CategoryDescription(category model.Category) string {
	if c, ok := p.Categories[string(category)]; ok && c.Description != "" {
		return c.Description
	}
	return "No description"
}

// CategoryNotes returns the category's pattern notes sorted by name.
func (p *Patterns) CategoryNotes(category model.Category) []PatternNote {
	c, ok := p.Categories[string(category)]
	if !ok {
		return nil
	}
	notes := make([]PatternNote, 0, len(c.Patterns))
	for name, desc := range c.Patterns {
		notes = append(notes, PatternNote{Name: name, Description: desc})
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Name < notes[j].Name })
	return notes
}

// TierRange returns the documented complexity range of tier, [0, 100] when
// it is not configured.
func (p *Patterns) TierRange(tier model.Tier) (lo, hi int) {
	d, ok := p.TierDefinitions[string(tier)]
	if !ok || len(d.ComplexityRange) < 2 {
		return 0, 100
	}
	return d.ComplexityRange[0], d.ComplexityRange[1]
}

// TierTopics returns the topics configured for tier.
func (p *Patterns) TierTopics(tier model.Tier) []string {
	return p.TierDefinitions[string(tier)].Topics
}

// ConceptTier returns the configured teaching level of concept.
func (p *Patterns) ConceptTier(concept string) (int, bool) {
	m, ok := p.ConceptMappings[concept]
	if !ok || m.Tier < 1 || m.Tier > 3 {
		return 0, false
	}
	return m.Tier, true
}

// ConceptPatterns returns the example snippets configured for concept.
func (p *Patterns) ConceptPatterns(concept string) []string {
	return p.ConceptMappings[concept].Patterns
}
