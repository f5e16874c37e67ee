// Package render executes html/template fragments for SSE element patches.
//
// Feature packages embed their own template files and use Fragment to turn
// a named template plus view data into the HTML string handed to datastar.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

// funcMap holds helpers available to all feature templates.
var funcMap = template.FuncMap{
	"join": strings.Join,
}

// Templates parses all templates matching patterns from fsys.
// Panics on parse errors, which surface at process start.
func Templates(fsys fs.FS, patterns ...string) *template.Template {
	return template.Must(template.New("").Funcs(funcMap).ParseFS(fsys, patterns...))
}

// Fragment executes the named template and returns the rendered HTML.
func Fragment(t *template.Template, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
