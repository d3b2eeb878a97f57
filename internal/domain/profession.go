// Package domain holds the profession catalog, the name normalizer and the
// roster value types shared by the store and the dashboard.
package domain

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Profession: one catalog entry. Key is the normalized identity, Name the
// original accented lowercase name, Label the capitalized display form.
type Profession struct {
	Key   string
	Name  string
	Emoji string
	Label string
}

// Display renders the profession as shown on cards: "<emoji> <Label>".
func (p Profession) Display() string {
	return p.Emoji + " " + p.Label
}

// Catalog: the static profession catalog, loaded once at startup and
// immutable afterwards.
type Catalog struct {
	ordered []Profession
	byKey   map[string]Profession
}

type catalogFile struct {
	Professions []struct {
		Name  string `yaml:"name"`
		Emoji string `yaml:"emoji"`
	} `yaml:"professions"`
}

// LoadCatalog parses the embedded catalog YAML. Duplicate normalized keys are
// a configuration error.
func LoadCatalog(yamlContent string) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal([]byte(yamlContent), &file); err != nil {
		return nil, fmt.Errorf("unmarshal catalog yaml failed: %w", err)
	}
	if len(file.Professions) == 0 {
		return nil, fmt.Errorf("profession catalog is empty")
	}

	catalog := &Catalog{
		ordered: make([]Profession, 0, len(file.Professions)),
		byKey:   make(map[string]Profession, len(file.Professions)),
	}
	for _, entry := range file.Professions {
		key := Normalize(entry.Name)
		if key == "" {
			return nil, fmt.Errorf("profession with empty name in catalog")
		}
		if _, exists := catalog.byKey[key]; exists {
			return nil, fmt.Errorf("duplicate profession key in catalog: %s", key)
		}
		profession := Profession{
			Key:   key,
			Name:  entry.Name,
			Emoji: entry.Emoji,
			Label: CapitalizeFrench(entry.Name),
		}
		catalog.ordered = append(catalog.ordered, profession)
		catalog.byKey[key] = profession
	}

	return catalog, nil
}

// Lookup resolves a raw or normalized profession name.
func (c *Catalog) Lookup(name string) (Profession, bool) {
	p, ok := c.byKey[Normalize(name)]
	return p, ok
}

// All returns the catalog in file order. Callers must not mutate entries.
func (c *Catalog) All() []Profession {
	return c.ordered
}

// Display renders a profession name with its catalog emoji, falling back to
// 🛠️ plus the capitalized raw name for unknown entries.
func (c *Catalog) Display(name string) string {
	if p, ok := c.Lookup(name); ok {
		return p.Display()
	}
	return "🛠️ " + CapitalizeFrench(name)
}

// CapitalizeFrench title-cases a profession name for display ("bûcheron" →
// "Bûcheron").
func CapitalizeFrench(s string) string {
	return cases.Title(language.French).String(s)
}
