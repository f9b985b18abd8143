/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for the floor-plan designer. Areas
// and furniture are kept as plain structs so the interaction layer, storage
// and exporters all share one source of truth. Geometry is stored in world
// (grid-pixel) coordinates; the exchange format in design.go uses feet.

import (
	"fmt"

	"floorplanner/internal/geometry"
)

// AreaType is the closed set of room categories. Unknown tags are rejected
// at the import boundary rather than silently defaulting during rendering.
type AreaType string

const (
	AreaBedroom  AreaType = "bedroom"
	AreaKitchen  AreaType = "kitchen"
	AreaLiving   AreaType = "living"
	AreaBathroom AreaType = "bathroom"
	AreaDining   AreaType = "dining"
	AreaOffice   AreaType = "office"
	AreaHallway  AreaType = "hallway"
	AreaBalcony  AreaType = "balcony"
)

// areaDefaults maps each area type to its default fill color.
var areaDefaults = map[AreaType]Color{
	AreaBedroom:  "#a7c7e7",
	AreaKitchen:  "#f6c28b",
	AreaLiving:   "#b5d99c",
	AreaBathroom: "#c9b1d6",
	AreaDining:   "#f2a6a6",
	AreaOffice:   "#9fd8d2",
	AreaHallway:  "#d9d2c5",
	AreaBalcony:  "#cde3b6",
}

// ParseAreaType validates a raw tag against the closed set.
func ParseAreaType(s string) (AreaType, error) {
	t := AreaType(s)
	if _, ok := areaDefaults[t]; !ok {
		return "", fmt.Errorf("unknown area type %q", s)
	}
	return t, nil
}

// DefaultColor returns the fill color associated with the area type.
func (t AreaType) DefaultColor() Color {
	if c, ok := areaDefaults[t]; ok {
		return c
	}
	return "#cccccc"
}

// AreaTypes lists the known types in a stable order (for pickers and docs).
func AreaTypes() []AreaType {
	return []AreaType{
		AreaBedroom, AreaKitchen, AreaLiving, AreaBathroom,
		AreaDining, AreaOffice, AreaHallway, AreaBalcony,
	}
}

// Area is one drawn room/zone: a closed polygon with a category, a derived
// square footage, and the furniture it owns. Points are fixed after
// creation; only the furniture list mutates.
type Area struct {
	ID       string           `json:"id"`
	Type     AreaType         `json:"type"`
	Color    Color            `json:"color"`
	Points   []geometry.Point `json:"points"`
	AreaSqFt int              `json:"areaSqFt"`
	// Furniture order is creation order. It doubles as the hit-test
	// tie-break, which is documented behavior rather than z-ordering.
	Furniture []*FurnitureItem `json:"furniture"`
}

// FurnitureItem is a rectangular object placed inside an Area. Position is
// the rectangle's center. All four corners of the rectangle must lie inside
// the owning area's polygon at all times.
type FurnitureItem struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Color    Color          `json:"color,omitempty"`
	Position geometry.Point `json:"position"`
	Size     geometry.Size  `json:"size"`
	// AreaID is a non-owning back-reference for lookup; the Area's
	// Furniture slice is the owning collection.
	AreaID string `json:"areaId"`
}

// Bounds returns the item's axis-aligned bounding rectangle.
func (f *FurnitureItem) Bounds() geometry.Rect {
	return geometry.RectAround(f.Position, f.Size)
}
