package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	for _, c := range Categories() {
		assert.Equal(t, c, ParseCategory(string(c)))
	}
	assert.Equal(t, UnknownCategory, ParseCategory("gui_applications"))
	assert.Equal(t, UnknownCategory, ParseCategory(""))
	assert.Equal(t, UnknownCategory, ParseCategory("Unknown"))
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	for _, tier := range Tiers() {
		assert.Equal(t, tier, ParseTier(string(tier)))
	}
	assert.Equal(t, UnknownTier, ParseTier("Tier4_Expert"))
}

func TestTierLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Tier1Beginner.Level())
	assert.Equal(t, 2, Tier2Intermediate.Level())
	assert.Equal(t, 3, Tier3Advanced.Level())
	assert.Equal(t, 0, UnknownTier.Level())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	md := ScriptMetadata{Concepts: []string{"Hotkeys", "Callbacks", "Hotkeys"}}
	md.Normalize()

	assert.Equal(t, []string{"Callbacks", "Hotkeys"}, md.Concepts)
	assert.NotNil(t, md.Dependencies)
	assert.NotNil(t, md.KeyFunctions)
	assert.NotNil(t, md.Classes)

	data, err := json.Marshal(md)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"classes":[]`)
	assert.NotContains(t, string(data), "null")
}

func TestConceptSet(t *testing.T) {
	t.Parallel()

	md := ScriptMetadata{Concepts: []string{"Hotkeys", "Regular Expressions"}}
	assert.Len(t, md.ConceptSet(), 2)
	assert.True(t, md.HasConcept("Hotkeys"))
	assert.False(t, md.HasConcept("hotkeys"))
}

func TestSortedSet(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, SortedSet(nil))
	assert.Equal(t, []string{"a", "b", "c"}, SortedSet([]string{"c", "a", "b", "a"}))
}

func TestSidecarKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ScriptMetadata{Filename: "x.ahk", Category: DataStructures, Tier: Tier2Intermediate})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{
		"filename", "category", "tier", "concepts", "dependencies", "key_functions",
		"classes", "has_gui", "has_oop", "has_com", "has_hotkeys", "line_count", "complexity_score",
	} {
		assert.Contains(t, raw, key)
	}
	assert.Equal(t, "Data_Structures", raw["category"])
}
