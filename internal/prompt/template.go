// Package prompt renders backend-ready prompts from a user-supplied template.
// Templates are Go text/template files with five named fields: Language, Text,
// Genre, Title, and Author. A reference to anything else is a configuration
// error caught at load time, before any backend call is made.
package prompt

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"text/template"
)

// Data carries the substitution values for one chunk's prompt.
type Data struct {
	Language string
	Text     string
	Genre    string
	Title    string
	Author   string
}

var allowedFields = map[string]struct{}{
	"Language": {},
	"Text":     {},
	"Genre":    {},
	"Title":    {},
	"Author":   {},
}

// variablePattern matches template field references like {{.Text}} or {{ .Text }}.
var variablePattern = regexp.MustCompile(`\{\{\s*\.([a-zA-Z_][a-zA-Z0-9_.]*)\s*\}\}`)

// Template is a validated prompt template.
type Template struct {
	tmpl *template.Template
}

// Load reads and parses the template file at path, rejecting references to
// undefined substitution points.
func Load(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt template: %w", err)
	}
	return Parse(string(raw))
}

// Parse validates and compiles template text.
func Parse(text string) (*Template, error) {
	if unknown := unknownFields(text); len(unknown) > 0 {
		return nil, fmt.Errorf("prompt template references undefined fields: %s"+
			" (allowed: Language, Text, Genre, Title, Author)", strings.Join(unknown, ", "))
	}

	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing prompt template: %w", err)
	}

	// Probe-render so execution errors surface at load time, not mid-run.
	var sb strings.Builder
	if err := tmpl.Execute(&sb, Data{}); err != nil {
		return nil, fmt.Errorf("validating prompt template: %w", err)
	}

	return &Template{tmpl: tmpl}, nil
}

// Render produces the final prompt string for one chunk.
func (t *Template) Render(data Data) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}
	return sb.String(), nil
}

// unknownFields returns the sorted set of referenced fields outside the
// allowed five.
func unknownFields(text string) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, match := range variablePattern.FindAllStringSubmatch(text, -1) {
		name := match[1]
		if _, ok := allowedFields[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)
	return unknown
}
