// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// analyzed script batches.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/ahkguide/internal/graph"
	"github.com/phobologic/ahkguide/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a batch of script metadata into TOON format. includes may
// be nil, in which case the includes table is omitted.
func Encode(source string, scripts []model.ScriptMetadata, includes []graph.Edge) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("source: %s", encodeValue(source)))

	var scriptRows [][]any
	for i := range scripts {
		md := &scripts[i]
		scriptRows = append(scriptRows, []any{
			md.Filename,
			string(md.Category),
			string(md.Tier),
			md.ComplexityScore,
			md.LineCount,
			md.HasGUI,
			md.HasOOP,
			md.HasCOM,
			md.HasHotkeys,
		})
	}
	parts = append(parts, formatTabular("scripts",
		[]string{"filename", "category", "tier", "complexity", "lines", "gui", "oop", "com", "hotkeys"},
		scriptRows))

	var conceptRows [][]any
	for i := range scripts {
		md := &scripts[i]
		for _, c := range md.Concepts {
			conceptRows = append(conceptRows, []any{md.Filename, c})
		}
	}
	parts = append(parts, formatTabular("concepts", []string{"filename", "concept"}, conceptRows))

	var symbolRows [][]any
	for i := range scripts {
		md := &scripts[i]
		for _, c := range md.Classes {
			symbolRows = append(symbolRows, []any{md.Filename, c, "class"})
		}
		for _, f := range md.KeyFunctions {
			symbolRows = append(symbolRows, []any{md.Filename, f, "function"})
		}
	}
	parts = append(parts, formatTabular("symbols", []string{"filename", "name", "kind"}, symbolRows))

	if includes != nil {
		var includeRows [][]any
		for i := range includes {
			e := &includes[i]
			includeRows = append(includeRows, []any{
				e.Source,
				e.Target,
				strings.Join(e.Includes, " "),
			})
		}
		parts = append(parts, formatTabular("includes", []string{"source", "target", "directives"}, includeRows))
	}

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeCell(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeCell(cell any) string {
	switch v := cell.(type) {
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', 4, 64)
	case string:
		return encodeValue(v)
	default:
		return encodeValue(fmt.Sprint(v))
	}
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
