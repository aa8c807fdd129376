package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/ahkguide/internal/classify"
	"github.com/phobologic/ahkguide/internal/discover"
	"github.com/phobologic/ahkguide/internal/model"
	"github.com/phobologic/ahkguide/internal/organize"
)

const (
	adderScript = "Add(a, b) {\n    return a + b\n}\nx := Add(1, 2)\nMsgBox(x)\n"
	excelScript = "xl := ComObject(\"Excel.Application\")\nxl.Visible := true\n"
	helloScript = "#Include adder.ahk\ng := Gui()\ng.Show()\n"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func createSampleSource(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "adder.ahk", adderScript)
	writeTestFile(t, dir, "office/excel.ahk", excelScript)
	writeTestFile(t, dir, "GUI_Hello.ahk", helloScript)
	writeTestFile(t, dir, "notes.txt", "not a script")
	return dir
}

// runCLI runs the command line against an isolated project directory so
// settings files in the working directory never leak in.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append(args, "--project", t.TempDir())
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s: %v", path, err)
	}
}

func TestRunScrape(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	training := filepath.Join(t.TempDir(), "Training")

	out, stderr, err := runCLI(t, "scrape", src, "--training-dir", training)
	if err != nil {
		t.Fatalf("scrape: %v\nstderr: %s", err, stderr)
	}

	if !strings.Contains(out, "Found 3 scripts to analyze...") {
		t.Errorf("missing discovery line:\n%s", out)
	}
	if !strings.Contains(out, "Processed 3 scripts") {
		t.Errorf("missing processed line:\n%s", out)
	}
	if !strings.Contains(out, "Organized: adder.ahk -> Utility_Libraries/Tier1_Beginner") {
		t.Errorf("missing organized line:\n%s", out)
	}
	if !strings.Contains(out, "Summary") || !strings.Contains(out, "Total") {
		t.Errorf("missing summary:\n%s", out)
	}

	for _, rel := range []string{
		"Utility_Libraries/Tier1_Beginner/adder.ahk",
		"Utility_Libraries/Tier1_Beginner/adder.json",
		"Utility_Libraries/Tier3_Advanced/excel.ahk",
		"Utility_Libraries/Tier3_Advanced/excel.json",
		"GUI_Applications/Tier1_Beginner/GUI_Hello.ahk",
		"GUI_Applications/Tier1_Beginner/GUI_Hello.json",
	} {
		assertExists(t, filepath.Join(training, rel))
	}

	// Copy mode leaves the sources alone.
	assertExists(t, filepath.Join(src, "adder.ahk"))

	md, err := organize.ReadSidecar(filepath.Join(training, "GUI_Applications/Tier1_Beginner/GUI_Hello.json"))
	if err != nil {
		t.Fatal(err)
	}
	if md.Filename != "GUI_Hello.ahk" || !md.HasGUI {
		t.Errorf("unexpected sidecar: %+v", md)
	}
	if len(md.Dependencies) != 1 || md.Dependencies[0] != "adder.ahk" {
		t.Errorf("Dependencies = %q", md.Dependencies)
	}
}

func TestRunScrapeMove(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	training := t.TempDir()

	_, stderr, err := runCLI(t, "scrape", src, "-t", training, "--mode", "move")
	if err != nil {
		t.Fatalf("scrape: %v\nstderr: %s", err, stderr)
	}
	if _, err := os.Stat(filepath.Join(src, "adder.ahk")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("source should be moved, stat err = %v", err)
	}
	assertExists(t, filepath.Join(training, "Utility_Libraries/Tier1_Beginner/adder.ahk"))
}

func TestRunScrapeNotRecursive(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	training := t.TempDir()

	out, _, err := runCLI(t, "scrape", src, "-t", training, "--recursive=false")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if !strings.Contains(out, "Found 2 scripts") {
		t.Errorf("subdirectory should be skipped:\n%s", out)
	}
}

func TestRunScrapePattern(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	training := t.TempDir()

	out, _, err := runCLI(t, "scrape", src, "-t", training, "--pattern", "GUI_*.ahk")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if !strings.Contains(out, "Found 1 scripts") {
		t.Errorf("pattern should select one script:\n%s", out)
	}
}

func TestRunScrapeVendorDirs(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	writeTestFile(t, src, "external/clip.ahk", "A_Clipboard := 'x'\n")

	out, _, err := runCLI(t, "scrape", src, "-t", t.TempDir())
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if !strings.Contains(out, "Found 4 scripts") {
		t.Errorf("external/ should be scanned by default:\n%s", out)
	}

	out, stderr, err := runCLI(t, "scrape", src, "-t", t.TempDir(), "--skip-vendor", "-v")
	if err != nil {
		t.Fatalf("scrape --skip-vendor: %v", err)
	}
	if !strings.Contains(out, "Found 3 scripts") {
		t.Errorf("--skip-vendor should drop external/:\n%s", out)
	}
	if !strings.Contains(stderr, "external/clip.ahk") {
		t.Errorf("skipped path should be logged:\n%s", stderr)
	}
}

func TestRunScrapeDocsAndIndex(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	training := t.TempDir()

	out, stderr, err := runCLI(t, "scrape", src, "-t", training, "--mode", "move", "--generate-docs", "--generate-index")
	if err != nil {
		t.Fatalf("scrape: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(out, "Index written to: ") {
		t.Errorf("missing index line:\n%s", out)
	}
	assertExists(t, filepath.Join(training, "INDEX.md"))

	readme, err := os.ReadFile(filepath.Join(training, "Utility_Libraries/Tier1_Beginner/adder_README.md"))
	if err != nil {
		t.Fatal(err)
	}
	// Moved scripts still get their code embedded.
	if !strings.Contains(string(readme), "return a + b") {
		t.Errorf("README missing script code:\n%s", readme)
	}
}

func TestRunScrapeCache(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	cachePath := filepath.Join(t.TempDir(), "cache", "metadata.json")

	for i := 0; i < 2; i++ {
		_, stderr, err := runCLI(t, "scrape", src, "-t", t.TempDir(), "--cache", cachePath, "-v")
		if err != nil {
			t.Fatalf("run %d: %v\nstderr: %s", i, err, stderr)
		}
		if i == 1 && !strings.Contains(stderr, "cache hit") {
			t.Errorf("second run should hit the cache:\n%s", stderr)
		}
	}
	assertExists(t, cachePath)
}

func TestRunScrapeUnknownMode(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	_, _, err := runCLI(t, "scrape", src, "-t", t.TempDir(), "--mode", "link")
	if !errors.Is(err, organize.ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestRunScrapeBadPattern(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	_, _, err := runCLI(t, "scrape", src, "-t", t.TempDir(), "--pattern", "[")
	if !errors.Is(err, discover.ErrBadPattern) {
		t.Fatalf("expected ErrBadPattern, got %v", err)
	}
}

func TestRunScrapeMissingSource(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "scrape", filepath.Join(t.TempDir(), "nope"), "-t", t.TempDir())
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestRunScrapeEmptySource(t *testing.T) {
	t.Parallel()
	training := t.TempDir()

	out, _, err := runCLI(t, "scrape", t.TempDir(), "-t", training)
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if !strings.Contains(out, "Found 0 scripts") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunScrapeSettingsFromEnvFile(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	project := t.TempDir()
	training := filepath.Join(t.TempDir(), "lib")
	writeTestFile(t, project, ".env", "AHKGUIDE_TRAINING_DIR="+training+"\n")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"scrape", src, "--project", project}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("scrape: %v\nstderr: %s", err, stderr.String())
	}
	assertExists(t, filepath.Join(training, "Utility_Libraries/Tier1_Beginner/adder.ahk"))
}

func TestRunAnalyzeJSON(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	out, _, err := runCLI(t, "analyze", filepath.Join(src, "adder.ahk"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var md model.ScriptMetadata
	if err := json.Unmarshal([]byte(out), &md); err != nil {
		t.Fatalf("output is not a metadata object: %v\n%s", err, out)
	}
	if md.Category != model.UtilityLibraries || md.Tier != model.Tier1Beginner {
		t.Errorf("got %s/%s", md.Category, md.Tier)
	}
	if !strings.Contains(out, `"complexity_score"`) {
		t.Errorf("expected snake_case keys:\n%s", out)
	}
}

func TestRunAnalyzeYAML(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	out, _, err := runCLI(t, "analyze", "--format", "yaml",
		filepath.Join(src, "adder.ahk"), filepath.Join(src, "office", "excel.ahk"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var scripts []model.ScriptMetadata
	if err := yaml.Unmarshal([]byte(out), &scripts); err != nil {
		t.Fatalf("output is not a metadata list: %v\n%s", err, out)
	}
	if len(scripts) != 2 {
		t.Fatalf("got %d records", len(scripts))
	}
	if scripts[1].Tier != model.Tier3Advanced || !scripts[1].HasCOM {
		t.Errorf("excel.ahk = %+v", scripts[1])
	}
}

func TestRunAnalyzeTOON(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	out, _, err := runCLI(t, "analyze", "-f", "toon",
		filepath.Join(src, "GUI_Hello.ahk"), filepath.Join(src, "adder.ahk"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, want := range []string{"source:", "scripts[2]", "symbols[", "includes[1]", "GUI_Hello.ahk,adder.ahk"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunAnalyzeSkipsMissing(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	out, stderr, err := runCLI(t, "analyze", filepath.Join(src, "adder.ahk"), filepath.Join(src, "gone.ahk"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "adder.ahk") {
		t.Errorf("missing adder.ahk:\n%s", out)
	}
	if !strings.Contains(stderr, "gone.ahk") {
		t.Errorf("missing warning for gone.ahk:\n%s", stderr)
	}
}

func TestRunAnalyzeAllMissing(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "analyze", filepath.Join(t.TempDir(), "gone.ahk"))
	if err == nil {
		t.Fatal("expected error when no script could be read")
	}
}

func TestRunAnalyzeUnknownFormat(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	_, _, err := runCLI(t, "analyze", "--format", "xml", filepath.Join(src, "adder.ahk"))
	if !errors.Is(err, errUnknownFormat) {
		t.Fatalf("expected errUnknownFormat, got %v", err)
	}
}

func TestRunDocs(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	training := t.TempDir()

	if _, _, err := runCLI(t, "scrape", src, "-t", training); err != nil {
		t.Fatalf("scrape: %v", err)
	}

	out, stderr, err := runCLI(t, "docs", "-t", training)
	if err != nil {
		t.Fatalf("docs: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(out, "Documentation generation complete!") {
		t.Errorf("missing completion line:\n%s", out)
	}
	for _, rel := range []string{
		"INDEX.md",
		"CONCEPTS.md",
		"LEARNING_PATH.md",
		"STATISTICS.md",
		"cross_references.json",
		"GUI_Applications/README.md",
		"Data_Structures/README.md",
		"Utility_Libraries/README.md",
	} {
		assertExists(t, filepath.Join(training, rel))
	}

	stats, err := os.ReadFile(filepath.Join(training, "STATISTICS.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(stats), "Most Included Scripts") {
		t.Errorf("statistics should rank included scripts:\n%s", stats)
	}
}

func TestRunDocsOutputDir(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)
	training := t.TempDir()
	output := filepath.Join(t.TempDir(), "docs")

	if _, _, err := runCLI(t, "scrape", src, "-t", training); err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if _, _, err := runCLI(t, "docs", "-t", training, "-o", output); err != nil {
		t.Fatalf("docs: %v", err)
	}
	assertExists(t, filepath.Join(output, "CONCEPTS.md"))
	assertExists(t, filepath.Join(training, "GUI_Applications/README.md"))
}

func TestRunDocsSkipsBadSidecar(t *testing.T) {
	t.Parallel()
	training := t.TempDir()
	writeTestFile(t, training, "GUI_Applications/Tier1_Beginner/broken.json", "{not json")

	out, stderr, err := runCLI(t, "docs", "-t", training)
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(stderr, "broken.json") {
		t.Errorf("expected a warning naming broken.json:\n%s", stderr)
	}
	if !strings.Contains(out, "Documentation generation complete!") {
		t.Errorf("docs should still complete:\n%s", out)
	}
}

func TestRunDocsMissingTraining(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "docs", "-t", filepath.Join(t.TempDir(), "missing"))
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Fatalf("expected missing training dir error, got %v", err)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "ahkguide") {
		t.Errorf("version output: %q", out)
	}

	out, _, err = runCLI(t, "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.HasPrefix(out, "ahkguide ") {
		t.Errorf("--version output: %q", out)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	if _, _, err := runCLI(t, "bogus"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestAnalyzeAllKeepsOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := createSampleSource(t)
	entries := []discover.Entry{
		{Path: filepath.Join(src, "GUI_Hello.ahk")},
		{Path: filepath.Join(src, "missing.ahk")},
		{Path: filepath.Join(src, "adder.ahk")},
		{Path: filepath.Join(src, "office", "excel.ahk")},
	}

	var logs bytes.Buffer
	results, failures, err := analyzeAll(context.Background(), classify.NewAnalyzer(nil), entries, 3, newTestLogger(&logs))
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, r := range results {
		names = append(names, r.Metadata.Filename)
	}
	if strings.Join(names, ",") != "GUI_Hello.ahk,adder.ahk,excel.ahk" {
		t.Errorf("results out of order: %q", names)
	}
	if len(failures) != 1 || failures[0].Path != entries[1].Path {
		t.Errorf("failures = %+v", failures)
	}
	if !strings.Contains(logs.String(), "missing.ahk") {
		t.Errorf("failure not logged:\n%s", logs.String())
	}
}

func TestAnalyzeAllCancelled(t *testing.T) {
	t.Parallel()
	src := createSampleSource(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := analyzeAll(ctx, classify.NewAnalyzer(nil),
		[]discover.Entry{{Path: filepath.Join(src, "adder.ahk")}}, 1, newTestLogger(io.Discard))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine to write while
// the test reads.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch(t *testing.T) {
	t.Parallel()
	src := t.TempDir()
	training := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	args := []string{"watch", src, "-t", training, "--organize", "--project", t.TempDir()}
	done := make(chan error, 1)
	go func() {
		done <- run(ctx, args, &stdout, &stderr)
	}()

	// The watcher registers asynchronously; keep rewriting until it reports.
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(stdout.String(), "adder.ahk: Utility_Libraries/Tier1_Beginner") {
		if time.Now().After(deadline) {
			t.Fatalf("no report from watcher\nstdout: %s\nstderr: %s", stdout.String(), stderr.String())
		}
		writeTestFile(t, src, "adder.ahk", adderScript)
		time.Sleep(200 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
	assertExists(t, filepath.Join(training, "Utility_Libraries/Tier1_Beginner/adder.json"))
	// Watch mode always copies.
	assertExists(t, filepath.Join(src, "adder.ahk"))
}
