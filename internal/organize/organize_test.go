package organize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/ahkguide/internal/model"
)

func meta(name string, cat model.Category, tier model.Tier) model.ScriptMetadata {
	md := model.ScriptMetadata{
		Filename:        name,
		Category:        cat,
		Tier:            tier,
		Concepts:        []string{"Hotkeys", "GUI Creation"},
		LineCount:       12,
		ComplexityScore: 9,
		HasGUI:          true,
		HasHotkeys:      true,
	}
	md.Normalize()
	return md
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := ParseMode("Copy")
	require.NoError(t, err)
	assert.Equal(t, Copy, m)

	m, err = ParseMode(" move ")
	require.NoError(t, err)
	assert.Equal(t, Move, m)

	_, err = ParseMode("link")
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = New(t.TempDir(), Mode("link"), nil)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestStem(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GUI_Todo", Stem("GUI_Todo.ahk"))
	assert.Equal(t, "noext", Stem("noext"))
	assert.Equal(t, "a.b", Stem("a.b.ahk"))
}

func TestOrganizeCopy(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	training := t.TempDir()
	script := writeScript(t, src, "GUI_Todo.ahk", "g := Gui()\n")
	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(script, old, old))

	o, err := New(training, Copy, nil)
	require.NoError(t, err)

	md := meta("GUI_Todo.ahk", model.GUIApplications, model.Tier1Beginner)
	placed, err := o.Organize([]Item{{Source: script, Metadata: md}})
	require.NoError(t, err)
	require.Len(t, placed, 1)

	wantDir := filepath.Join(training, "GUI_Applications", "Tier1_Beginner")
	assert.Equal(t, filepath.Join(wantDir, "GUI_Todo.ahk"), placed[0].Script)
	assert.Equal(t, filepath.Join(wantDir, "GUI_Todo.json"), placed[0].Sidecar)

	data, err := os.ReadFile(placed[0].Script)
	require.NoError(t, err)
	assert.Equal(t, "g := Gui()\n", string(data))

	info, err := os.Stat(placed[0].Script)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "copy keeps the modification time")

	_, err = os.Stat(script)
	assert.NoError(t, err, "copy keeps the source")

	raw, err := os.ReadFile(placed[0].Sidecar)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "GUI_Applications", decoded["category"])
	assert.Equal(t, "Tier1_Beginner", decoded["tier"])
	assert.Equal(t, float64(9), decoded["complexity_score"])
	assert.Contains(t, string(raw), "\n  \"filename\": \"GUI_Todo.ahk\"")
}

func TestOrganizeMove(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	training := t.TempDir()
	script := writeScript(t, src, "Data_Stack.ahk", "class Stack {\n}\n")

	o, err := New(training, Move, nil)
	require.NoError(t, err)

	placed, err := o.Place(Item{Source: script, Metadata: meta("Data_Stack.ahk", model.DataStructures, model.Tier2Intermediate)})
	require.NoError(t, err)

	_, err = os.Stat(script)
	assert.ErrorIs(t, err, os.ErrNotExist, "move removes the source")
	_, err = os.Stat(placed.Script)
	assert.NoError(t, err)
}

func TestOrganizeMissingSource(t *testing.T) {
	t.Parallel()

	o, err := New(t.TempDir(), Copy, nil)
	require.NoError(t, err)

	items := []Item{
		{Source: filepath.Join(t.TempDir(), "gone.ahk"), Metadata: meta("gone.ahk", model.UtilityLibraries, model.Tier1Beginner)},
	}
	placed, err := o.Organize(items)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, placed)
}

func TestOrganizeInPlaceIsNoop(t *testing.T) {
	t.Parallel()

	training := t.TempDir()
	md := meta("x.ahk", model.UtilityLibraries, model.Tier1Beginner)
	script := writeScript(t, Dir(training, md), "x.ahk", "x := 1\n")

	o, err := New(training, Move, nil)
	require.NoError(t, err)
	_, err = o.Place(Item{Source: script, Metadata: md})
	require.NoError(t, err)

	data, err := os.ReadFile(script)
	require.NoError(t, err)
	assert.Equal(t, "x := 1\n", string(data))
}

func TestScan(t *testing.T) {
	t.Parallel()

	training := t.TempDir()
	a := meta("b.ahk", model.GUIApplications, model.Tier3Advanced)
	b := meta("a.ahk", model.UtilityLibraries, model.Tier1Beginner)
	for _, md := range []model.ScriptMetadata{a, b} {
		dir := Dir(training, md)
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, WriteSidecar(filepath.Join(dir, Stem(md.Filename)+".json"), md))
	}

	// Malformed sidecar is reported, not fatal.
	bad := filepath.Join(training, "Data_Structures", "Tier1_Beginner", "bad.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(bad), 0o755))
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))

	// Files outside the category/tier layout are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(training, "cross_references.json"), []byte("{}"), 0o644))

	scripts, failures, err := Scan(training)
	require.NoError(t, err)

	require.Len(t, scripts, 2)
	assert.Equal(t, a, scripts[0], "GUI_Applications sorts before Utility_Libraries")
	assert.Equal(t, b, scripts[1])

	require.Len(t, failures, 1)
	assert.Equal(t, bad, failures[0].Path)
}

func TestScanFillsLocationFromPath(t *testing.T) {
	t.Parallel()

	training := t.TempDir()
	p := filepath.Join(training, "Data_Structures", "Tier2_Intermediate", "q.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(`{"filename":"q.ahk","concepts":["Map Data Structure"]}`), 0o644))

	scripts, failures, err := Scan(training)
	require.NoError(t, err)
	assert.Empty(t, failures)
	require.Len(t, scripts, 1)
	assert.Equal(t, model.DataStructures, scripts[0].Category)
	assert.Equal(t, model.Tier2Intermediate, scripts[0].Tier)
	assert.Equal(t, []string{}, scripts[0].Dependencies)
}

func TestScanEmpty(t *testing.T) {
	t.Parallel()

	scripts, failures, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, scripts)
	assert.Empty(t, failures)
}
