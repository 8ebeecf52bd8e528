// Package catalog holds the board positions applicants can choose from.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"recruitment-portal/internal/models"
)

//go:embed positions.json
var defaultCatalog []byte

//go:embed schema.json
var schema []byte

type document struct {
	RecruitmentYear string            `json:"recruitmentYear"`
	Positions       []models.Position `json:"positions"`
}

// Catalog is read-only after construction and safe to share.
type Catalog struct {
	year      string
	positions []models.Position
	byName    map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path falls back to Default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates data against the catalog schema and builds the lookup tables.
func Parse(data []byte) (*Catalog, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		year:      doc.RecruitmentYear,
		positions: doc.Positions,
		byName:    make(map[string]int, len(doc.Positions)),
	}
	ids := make(map[int]bool, len(doc.Positions))
	for i, p := range doc.Positions {
		if _, dup := c.byName[p.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate position name %q", p.Name)
		}
		if ids[p.ID] {
			return nil, fmt.Errorf("catalog: duplicate position id %d", p.ID)
		}
		c.byName[p.Name] = i
		ids[p.ID] = true
	}
	return c, nil
}

// Validate checks raw catalog JSON against the embedded schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("catalog validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("catalog failed schema validation: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Catalog) RecruitmentYear() string { return c.year }

func (c *Catalog) Len() int { return len(c.positions) }

// All returns a copy of every position, in catalog order.
func (c *Catalog) All() []models.Position {
	out := make([]models.Position, len(c.positions))
	copy(out, c.positions)
	return out
}

// Summaries is the display projection used by position cards.
func (c *Catalog) Summaries() []models.PositionSummary {
	out := make([]models.PositionSummary, len(c.positions))
	for i, p := range c.positions {
		out[i] = p.Summary()
	}
	return out
}

// Find looks a position up by its exact name.
func (c *Catalog) Find(name string) (models.Position, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.Position{}, false
	}
	return c.positions[i], true
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}
