/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package catalog provides the built-in furniture catalog: named items with
// default footprints and colors, loaded from an embedded YAML document. A
// project may carry its own catalog file with the same schema to extend the
// built-ins.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
)

//go:embed catalog.yaml
var builtinYAML []byte

// Item is one placeable furniture entry. Footprint is in feet; the world
// size depends on the grid unit at placement time.
type Item struct {
	Name     string       `yaml:"name"`
	Category string       `yaml:"category"`
	WidthFt  float64      `yaml:"widthFt"`
	HeightFt float64      `yaml:"heightFt"`
	Color    domain.Color `yaml:"color"`
}

// Size converts the footprint to world pixels.
func (it Item) Size(gridSize float64) geometry.Size {
	return geometry.Size{Width: it.WidthFt * gridSize, Height: it.HeightFt * gridSize}
}

// Catalog is an ordered item collection with case-insensitive name lookup.
type Catalog struct {
	items []Item
	byKey map[string]int
}

type catalogFile struct {
	Items []Item `yaml:"items"`
}

// Parse reads a catalog from YAML, validating names, dimensions and colors.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{byKey: make(map[string]int, len(f.Items))}
	for i, it := range f.Items {
		if strings.TrimSpace(it.Name) == "" {
			return nil, fmt.Errorf("catalog item %d: name is required", i)
		}
		if it.WidthFt <= 0 || it.HeightFt <= 0 {
			return nil, fmt.Errorf("catalog item %q: dimensions must be positive", it.Name)
		}
		if it.Color != "" && !it.Color.Valid() {
			return nil, fmt.Errorf("catalog item %q: invalid color %q", it.Name, it.Color)
		}
		key := strings.ToLower(it.Name)
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("catalog item %q: duplicate name", it.Name)
		}
		c.byKey[key] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// Builtin returns the embedded catalog. The embedded document is part of the
// build, so a parse failure is a programming error.
func Builtin() *Catalog {
	c, err := Parse(builtinYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Items lists the entries in document order.
func (c *Catalog) Items() []Item { return append([]Item(nil), c.items...) }

// Find looks an item up by name, case-insensitively.
func (c *Catalog) Find(name string) (Item, bool) {
	i, ok := c.byKey[strings.ToLower(name)]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// ForCategory lists the items suggested for one area type, in catalog order.
func (c *Catalog) ForCategory(typ domain.AreaType) []Item {
	var out []Item
	for _, it := range c.items {
		if it.Category == string(typ) {
			out = append(out, it)
		}
	}
	return out
}
