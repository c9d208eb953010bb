// Package calculator maps named calculators to the formula library.
//
// A calculator is a fixed set of labelled numeric fields with minimums and
// defaults (catalog.yaml) plus an evaluator that converts the fields, calls
// one formula and labels the result for display.
package calculator

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// FieldKind decides how a raw field value is checked and converted.
type FieldKind string

const (
	KindCurrency  FieldKind = "currency"  // amount, used as is
	KindPercent   FieldKind = "percent"   // whole-number percent, divided by 100
	KindCount     FieldKind = "count"     // whole number of periods
	KindNumber    FieldKind = "number"    // plain scalar
	KindCashFlows FieldKind = "cashflows" // delimited list of signed amounts
)

func (k FieldKind) valid() bool {
	switch k {
	case KindCurrency, KindPercent, KindCount, KindNumber, KindCashFlows:
		return true
	}
	return false
}

// Field is one input of a calculator.
type Field struct {
	Key         string    `yaml:"key" json:"key"`
	Label       string    `yaml:"label" json:"label"`
	Kind        FieldKind `yaml:"kind" json:"kind"`
	Min         *float64  `yaml:"min" json:"min,omitempty"`
	Max         *float64  `yaml:"max" json:"max,omitempty"`
	Default     float64   `yaml:"default" json:"default"`
	DefaultText string    `yaml:"default_text" json:"default_text,omitempty"`
}

// Calculator describes one entry of the catalog.
type Calculator struct {
	ID     string  `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Field returns the field with the given key.
func (c *Calculator) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Catalog is the read-only set of calculators. It is safe for concurrent use.
type Catalog struct {
	Calculators []Calculator `yaml:"calculators" json:"calculators"`
	byID        map[string]*Calculator
}

// LoadCatalog parses and validates a YAML catalog. Every calculator must
// have a registered evaluator and declare the fields that evaluator reads.
func LoadCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(cat.Calculators) == 0 {
		return nil, fmt.Errorf("catalog has no calculators")
	}

	cat.byID = make(map[string]*Calculator, len(cat.Calculators))
	for i := range cat.Calculators {
		c := &cat.Calculators[i]
		if err := validateCalculator(c); err != nil {
			return nil, err
		}
		if _, dup := cat.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate calculator id %q", c.ID)
		}
		cat.byID[c.ID] = c
	}
	return &cat, nil
}

func validateCalculator(c *Calculator) error {
	if c.ID == "" {
		return fmt.Errorf("calculator ID cannot be empty")
	}
	ev, ok := evaluators[c.ID]
	if !ok {
		return fmt.Errorf("calculator %q has no evaluator", c.ID)
	}

	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Key == "" {
			return fmt.Errorf("calculator %q: field key cannot be empty", c.ID)
		}
		if seen[f.Key] {
			return fmt.Errorf("calculator %q: duplicate field %q", c.ID, f.Key)
		}
		seen[f.Key] = true
		if !f.Kind.valid() {
			return fmt.Errorf("calculator %q: field %q has unknown kind %q", c.ID, f.Key, f.Kind)
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			return fmt.Errorf("calculator %q: field %q has min above max", c.ID, f.Key)
		}
	}
	for _, key := range ev.fields {
		if !seen[key] {
			return fmt.Errorf("calculator %q: missing field %q", c.ID, key)
		}
	}
	return nil
}

// LoadCatalogFile reads a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cat, err := LoadCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fmt.Printf("[CATALOG] Loaded %d calculators from %s\n", len(cat.Calculators), path)
	return cat, nil
}

var (
	defaultCatalog *Catalog
	once           sync.Once
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	once.Do(func() {
		cat, err := LoadCatalog(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("embedded calculator catalog is invalid: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// Get returns the calculator with the given id.
func (c *Catalog) Get(id string) (*Calculator, bool) {
	calc, ok := c.byID[id]
	return calc, ok
}

// IDs lists calculator ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.Calculators))
	for i, calc := range c.Calculators {
		ids[i] = calc.ID
	}
	return ids
}
