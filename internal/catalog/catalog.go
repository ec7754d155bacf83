// Package catalog holds the question catalog: for every category and
// subcategory, the ordered list of answer options from best to worst.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Catalog is read-only once built. Methods are safe for concurrent use.
type Catalog struct {
	questions map[string]map[string][]string
}

// Question is the file form of one subcategory.
type Question struct {
	Options []string `yaml:"options" json:"options"`
}

// New builds a Catalog from category -> subcategory -> options. The input is copied.
func New(definitions map[string]map[string][]string) *Catalog {
	c := &Catalog{questions: make(map[string]map[string][]string, len(definitions))}
	for category, subs := range definitions {
		m := make(map[string][]string, len(subs))
		for sub, options := range subs {
			m[sub] = append([]string(nil), options...)
		}
		c.questions[category] = m
	}
	return c
}

// Parse reads a YAML catalog of the form
//
//	category:
//	  subcategory:
//	    options: [best, ..., worst]
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]map[string]Question
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	defs := make(map[string]map[string][]string, len(raw))
	for category, subs := range raw {
		defs[category] = make(map[string][]string, len(subs))
		for sub, q := range subs {
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("catalog %s.%s: no options defined", category, sub)
			}
			defs[category][sub] = q.Options
		}
	}
	return New(defs), nil
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Lookup returns the options for the pair, best first, or nil when the pair
// is not defined.
func (c *Catalog) Lookup(category, subcategory string) []string {
	if c == nil {
		return nil
	}
	options, ok := c.questions[category][subcategory]
	if !ok {
		return nil
	}
	return append([]string(nil), options...)
}

func (c *Catalog) Categories() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.questions))
	for category := range c.questions {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Subcategories(category string) []string {
	if c == nil {
		return nil
	}
	subs := c.questions[category]
	out := make([]string, 0, len(subs))
	for sub := range subs {
		out = append(out, sub)
	}
	sort.Strings(out)
	return out
}

// Definitions returns a copy of the catalog in its file shape.
func (c *Catalog) Definitions() map[string]map[string]Question {
	out := make(map[string]map[string]Question)
	for _, category := range c.Categories() {
		out[category] = make(map[string]Question)
		for _, sub := range c.Subcategories(category) {
			out[category][sub] = Question{Options: c.Lookup(category, sub)}
		}
	}
	return out
}
