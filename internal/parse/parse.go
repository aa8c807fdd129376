// Package parse reads AutoHotkey scripts and extracts their structure using
// the pattern registry.
package parse

import (
	"strings"

	"github.com/phobologic/ahkguide/internal/lang"
)

// MaxKeyFunctions caps the function names kept per script.
const MaxKeyFunctions = 10

// Structure is the structural summary of one script's text.
type Structure struct {
	Classes      []string // source order, duplicates kept
	Functions    []string // every function_def capture, source order
	Dependencies []string // #Include targets, source order
	LineCount    int      // lines that are neither blank nor comment-only
	HasGUI       bool
	HasCOM       bool
	HasHotkeys   bool
}

// KeyFunctions returns at most MaxKeyFunctions function names.
func (s *Structure) KeyFunctions() []string {
	if len(s.Functions) > MaxKeyFunctions {
		return s.Functions[:MaxKeyFunctions]
	}
	return s.Functions
}

// Extract scans content for classes, functions, includes and feature flags.
func Extract(content string) Structure {
	return Structure{
		Classes:      lang.FindAll(lang.ClassDef, content),
		Functions:    lang.FindAll(lang.FunctionDef, content),
		Dependencies: lang.FindAll(lang.IncludeDirect, content),
		LineCount:    CodeLines(content),
		HasGUI:       lang.Match(lang.GUICreate, content) || lang.Match(lang.GUIAdd, content),
		HasCOM: lang.Match(lang.COMCreate, content) ||
			lang.Match(lang.CLRUsage, content) ||
			lang.Match(lang.WinRTUsage, content),
		HasHotkeys: lang.Match(lang.Hotkey, content) || lang.Match(lang.Hotstring, content),
	}
}

// CodeLines counts lines that are neither blank nor comment-only.
func CodeLines(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, lang.CommentMarker) {
			n++
		}
	}
	return n
}

// NonBlankLines counts lines with any non-space content, comments included.
func NonBlankLines(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// Description returns the leading comment block with markers stripped.
// Blank lines before the first code line are skipped.
func Description(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, lang.CommentMarker) {
			lines = append(lines, strings.TrimSpace(trimmed[len(lang.CommentMarker):]))
			continue
		}
		if trimmed != "" {
			break
		}
	}
	return strings.Join(lines, "\n")
}
