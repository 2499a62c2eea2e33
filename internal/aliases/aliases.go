package aliases

import (
	"regexp"
	"strings"
)

// Layer maps an OS identifier ("darwin", "windows") to phrase -> application.
type Layer map[string]map[string]string

var spaceRe = regexp.MustCompile(`\s+`)

// Normalize case-folds the phrase and collapses whitespace runs.
func Normalize(phrase string) string {
	return spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(phrase)), " ")
}

// Defaults returns a fresh copy of the built-in aliases.
func Defaults() Layer {
	return Layer{
		"darwin": {
			"google":             "Google Chrome",
			"chrome":             "Google Chrome",
			"google chrome":      "Google Chrome",
			"vs code":            "Visual Studio Code",
			"vscode":             "Visual Studio Code",
			"visual studio code": "Visual Studio Code",
			"safari":             "Safari",
			"notes":              "Notes",
			"calculator":         "Calculator",
		},
		"windows": {
			"google":             "chrome",
			"chrome":             "chrome",
			"google chrome":      "chrome",
			"vs code":            "Visual Studio Code",
			"vscode":             "Visual Studio Code",
			"visual studio code": "Visual Studio Code",
			"edge":               "msedge",
			"notepad":            "notepad",
			"calculator":         "calc",
		},
	}
}

// Table is the alias store: a read-only default layer under a mutable
// override layer. Lookups consult overrides first.
type Table struct {
	defaults  Layer
	overrides Layer
}

func NewTable(defaults Layer) *Table {
	return &Table{
		defaults:  normalizeLayer(defaults),
		overrides: Layer{},
	}
}

// Lookup returns the application for phrase on goos, if any.
func (t *Table) Lookup(goos, phrase string) (string, bool) {
	key := Normalize(phrase)

	if app, ok := t.overrides[goos][key]; ok {
		return app, true
	}
	app, ok := t.defaults[goos][key]
	return app, ok
}

// Resolve returns the aliased application or phrase itself when unknown.
func (t *Table) Resolve(goos, phrase string) string {
	if app, ok := t.Lookup(goos, phrase); ok {
		return app
	}
	return phrase
}

// Set records an override. The phrase is normalized before insertion.
func (t *Table) Set(goos, phrase, app string) {
	m, ok := t.overrides[goos]
	if !ok {
		m = make(map[string]string)
		t.overrides[goos] = m
	}
	m[Normalize(phrase)] = app
}

// Remove drops an override and reports whether one existed. Defaults are
// never removed.
func (t *Table) Remove(goos, phrase string) bool {
	key := Normalize(phrase)
	if _, ok := t.overrides[goos][key]; !ok {
		return false
	}
	delete(t.overrides[goos], key)
	if len(t.overrides[goos]) == 0 {
		delete(t.overrides, goos)
	}
	return true
}

// Overlay applies every entry of l to the override layer.
func (t *Table) Overlay(l Layer) {
	for goos, mapping := range l {
		for phrase, app := range mapping {
			t.Set(goos, phrase, app)
		}
	}
}

// Overrides returns a copy of the override layer.
func (t *Table) Overrides() Layer {
	return copyLayer(t.overrides)
}

// Merged returns defaults with overrides applied, as a new layer.
func (t *Table) Merged() Layer {
	out := copyLayer(t.defaults)
	for goos, mapping := range t.overrides {
		if out[goos] == nil {
			out[goos] = make(map[string]string, len(mapping))
		}
		for k, v := range mapping {
			out[goos][k] = v
		}
	}
	return out
}

func normalizeLayer(l Layer) Layer {
	out := make(Layer, len(l))
	for goos, mapping := range l {
		m := make(map[string]string, len(mapping))
		for k, v := range mapping {
			m[Normalize(k)] = v
		}
		out[goos] = m
	}
	return out
}

func copyLayer(l Layer) Layer {
	out := make(Layer, len(l))
	for goos, mapping := range l {
		m := make(map[string]string, len(mapping))
		for k, v := range mapping {
			m[k] = v
		}
		out[goos] = m
	}
	return out
}
