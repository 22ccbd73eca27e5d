// Package prompts holds the reference architecture prompt templates.
package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Argument is one parameter of a prompt template.
type Argument struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
	Default     string `yaml:"default"`
}

// Entry is one prompt template.
type Entry struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Arguments   []Argument `yaml:"arguments"`
	Template    string     `yaml:"template"`

	tmpl *template.Template
}

// Rendered is a prompt with its arguments substituted.
type Rendered struct {
	Description string
	Text        string
}

// ErrNotFound is returned by Render for an unknown prompt name.
var ErrNotFound = errors.New("prompt not found")

// ArgumentError reports a missing required argument.
type ArgumentError struct {
	Prompt   string
	Argument string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("prompt %s: %s argument is required", e.Prompt, e.Argument)
}

// Catalog is an immutable, ordered set of prompt templates.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return LoadFrom(catalogYAML)
}

// LoadFrom parses a catalog document. Names must be unique, every argument
// must be named, and every template must parse.
func LoadFrom(data []byte) (*Catalog, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("prompts: parse catalog: %w", err)
	}
	c := &Catalog{entries: entries, byName: make(map[string]int, len(entries))}
	for i := range c.entries {
		e := &c.entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("prompts: entry %d has no name", i)
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("prompts: duplicate prompt %q", e.Name)
		}
		seen := make(map[string]bool, len(e.Arguments))
		for _, a := range e.Arguments {
			if a.Name == "" {
				return nil, fmt.Errorf("prompts: %s: unnamed argument", e.Name)
			}
			if seen[a.Name] {
				return nil, fmt.Errorf("prompts: %s: duplicate argument %q", e.Name, a.Name)
			}
			seen[a.Name] = true
		}
		tmpl, err := template.New(e.Name).Option("missingkey=zero").Parse(e.Template)
		if err != nil {
			return nil, fmt.Errorf("prompts: %s: parse template: %w", e.Name, err)
		}
		e.tmpl = tmpl
		c.byName[e.Name] = i
	}
	return c, nil
}

// Entries returns the catalog in declaration order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Lookup returns the named entry.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Render substitutes args into the named template. Required arguments must
// be non-blank; optional ones fall back to their default.
func (c *Catalog) Render(name string, args map[string]string) (Rendered, error) {
	e, ok := c.Lookup(name)
	if !ok {
		return Rendered{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	values := make(map[string]string, len(e.Arguments))
	for _, a := range e.Arguments {
		v := args[a.Name]
		if strings.TrimSpace(v) == "" {
			if a.Required {
				return Rendered{}, &ArgumentError{Prompt: name, Argument: a.Name}
			}
			v = a.Default
		}
		values[a.Name] = v
	}

	var sb strings.Builder
	if err := e.tmpl.Execute(&sb, values); err != nil {
		return Rendered{}, fmt.Errorf("prompts: %s: render: %w", name, err)
	}
	return Rendered{Description: e.Description, Text: sb.String()}, nil
}
