package docs

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/phobologic/ahkguide/internal/model"
	"github.com/phobologic/ahkguide/internal/parse"
)

// readmeKeyFunctions is the number of key functions listed in a script README.
const readmeKeyFunctions = 5

// scriptData holds all data for the script README template.
type scriptData struct {
	Meta        model.ScriptMetadata
	Functions   []string
	Description string
	Content     string
	Related     []model.CrossRef
}

// ScriptReadme renders the README for one script. related may be nil.
func ScriptReadme(md model.ScriptMetadata, content string, related []model.CrossRef) (string, error) {
	desc := parse.Description(content)
	if desc == "" {
		desc = "No description available."
	}
	funcs := md.KeyFunctions
	if len(funcs) > readmeKeyFunctions {
		funcs = funcs[:readmeKeyFunctions]
	}

	data := &scriptData{
		Meta:        md,
		Functions:   funcs,
		Description: desc,
		Content:     content,
		Related:     related,
	}

	var b strings.Builder
	if err := scriptTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s: %w", md.Filename, err)
	}
	return b.String(), nil
}

var scriptTemplate = template.Must(template.New("script").Funcs(template.FuncMap{
	"mark": func(b bool) string {
		if b {
			return "✓"
		}
		return "✗"
	},
	"join": strings.Join,
}).Parse(scriptReadmeTemplate))

const scriptReadmeTemplate = `# {{.Meta.Filename}}

## Metadata
- **Category:** {{.Meta.Category}}
- **Difficulty:** {{.Meta.Tier}}
- **Complexity Score:** {{.Meta.ComplexityScore}}/100
- **Line Count:** {{.Meta.LineCount}}

## Concepts Demonstrated
{{range .Meta.Concepts}}- {{.}}
{{else}}- None
{{end}}
## Features
- GUI: {{mark .Meta.HasGUI}}
- OOP: {{mark .Meta.HasOOP}}
- COM/Interop: {{mark .Meta.HasCOM}}
- Hotkeys: {{mark .Meta.HasHotkeys}}

## Classes
{{range .Meta.Classes}}- ` + "`{{.}}`" + `
{{else}}- None
{{end}}
## Key Functions
{{range .Functions}}- ` + "`{{.}}()`" + `
{{else}}- None
{{end}}
## Dependencies
{{range .Meta.Dependencies}}- ` + "`{{.}}`" + `
{{else}}- None
{{end}}
## Description
{{.Description}}

## Code
` + "```ahk" + `
{{.Content}}
` + "```" + `

## Related Patterns
{{range .Related}}- [{{.Filename}}](../../{{.Category}}/{{.Tier}}/{{.Filename}}) ({{join .SharedConcepts ", "}})
{{else}}- None
{{end}}
---
*Generated by ahkguide*
`
