/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package plan is the interaction core of the editor: the authoritative area
// registry, the polygon drawing session, the furniture controller and the
// touch gesture recognizer. It is deliberately free of any UI toolkit
// dependency; the Fyne layer adapts events into these state machines.
//
// Everything in this package is single-writer: all mutation happens
// synchronously on the UI event loop, so no locking is required.
package plan

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
	applog "floorplanner/internal/log"
)

// ErrTooFewPoints is returned when an area is created with fewer than three
// vertices. The drawing session never offers the close transition below
// three points, so hitting this means a programming error in the caller.
var ErrTooFewPoints = errors.New("area requires at least 3 points")

// ErrUnknownArea is returned when a furniture operation names an area id
// that is not registered.
var ErrUnknownArea = errors.New("unknown area")

// ErrOutsideArea is returned when a furniture rectangle does not fit inside
// the target area's polygon.
var ErrOutsideArea = errors.New("furniture does not fit inside area")

// Registry is the authoritative collection of completed areas and their
// furniture. Area ids are never reused; deletion cascades to furniture.
type Registry struct {
	areas []*domain.Area
	byID  map[string]*domain.Area

	gridSize float64
	log      *slog.Logger
}

// NewRegistry returns an empty registry using the default grid unit.
func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]*domain.Area),
		gridSize: geometry.GridSize,
		log:      applog.WithComponent("plan"),
	}
}

// GridSize returns the grid unit (world pixels per foot) in effect.
func (r *Registry) GridSize() float64 { return r.gridSize }

// Areas returns the areas in registration order. The slice is a copy; the
// pointed-to areas are live and must only be mutated through the registry.
func (r *Registry) Areas() []*domain.Area {
	return append([]*domain.Area(nil), r.areas...)
}

// AreaByID looks up an area.
func (r *Registry) AreaByID(id string) (*domain.Area, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// CreateArea promotes a closed polygon into a registered area. The square
// footage and default color are derived here so they can never drift from
// the points.
func (r *Registry) CreateArea(points []geometry.Point, typ domain.AreaType) (*domain.Area, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}
	a := &domain.Area{
		ID:       uuid.NewString(),
		Type:     typ,
		Color:    typ.DefaultColor(),
		Points:   append([]geometry.Point(nil), points...),
		AreaSqFt: geometry.PolygonAreaSqFt(points, r.gridSize),
	}
	r.areas = append(r.areas, a)
	r.byID[a.ID] = a
	r.log.Info("area created",
		slog.String("id", a.ID),
		slog.String("type", string(typ)),
		slog.Int("sqft", a.AreaSqFt),
		slog.Int("vertices", len(points)))
	return a, nil
}

// DeleteArea removes an area and all of its furniture. Unknown ids are a
// no-op: stale references after a re-render must not be fatal.
func (r *Registry) DeleteArea(id string) bool {
	a, ok := r.byID[id]
	if !ok {
		return false
	}
	delete(r.byID, id)
	for i, other := range r.areas {
		if other == a {
			r.areas = append(r.areas[:i], r.areas[i+1:]...)
			break
		}
	}
	r.log.Info("area deleted", slog.String("id", id), slog.Int("furniture", len(a.Furniture)))
	return true
}

// AddFurniture appends an item to the target area after verifying the
// containment invariant. The item's id is assigned here if empty.
func (r *Registry) AddFurniture(areaID string, item *domain.FurnitureItem) error {
	a, ok := r.byID[areaID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownArea, areaID)
	}
	if !geometry.CornersInside(a.Points, item.Position, item.Size) {
		return ErrOutsideArea
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.AreaID = a.ID
	a.Furniture = append(a.Furniture, item)
	r.log.Info("furniture added", slog.String("area", a.ID), slog.String("id", item.ID), slog.String("name", item.Name))
	return nil
}

// FurnitureAt returns the first item whose bounding rectangle contains the
// point. The scan order is area registration order then furniture creation
// order; the first match wins. That tie-break for overlapping items is
// documented behavior, not z-ordering.
func (r *Registry) FurnitureAt(p geometry.Point) (*domain.FurnitureItem, bool) {
	for _, a := range r.areas {
		for _, f := range a.Furniture {
			if f.Bounds().Contains(p) {
				return f, true
			}
		}
	}
	return nil, false
}

// FurnitureByID looks up an item and its owning area.
func (r *Registry) FurnitureByID(id string) (*domain.FurnitureItem, *domain.Area, bool) {
	for _, a := range r.areas {
		for _, f := range a.Furniture {
			if f.ID == id {
				return f, a, true
			}
		}
	}
	return nil, nil, false
}

// MoveFurniture proposes a new center for the item. The move is applied only
// when every corner of the rectangle stays inside the owning polygon;
// otherwise the item is left untouched and false is returned. Rejection is
// expected interactive feedback, not an error.
func (r *Registry) MoveFurniture(id string, center geometry.Point) bool {
	f, a, ok := r.FurnitureByID(id)
	if !ok {
		return false
	}
	if !geometry.CornersInside(a.Points, center, f.Size) {
		return false
	}
	f.Position = center
	return true
}

// ResizeFurniture proposes a new size about the item's fixed center, with
// the same acceptance rule as MoveFurniture.
func (r *Registry) ResizeFurniture(id string, size geometry.Size) bool {
	f, a, ok := r.FurnitureByID(id)
	if !ok {
		return false
	}
	if !geometry.CornersInside(a.Points, f.Position, size) {
		return false
	}
	f.Size = size
	return true
}

// RenameFurniture sets the item's label. Unknown ids are a no-op.
func (r *Registry) RenameFurniture(id, name string) bool {
	f, _, ok := r.FurnitureByID(id)
	if !ok {
		return false
	}
	f.Name = name
	return true
}

// RecolorFurniture overrides the item's color. Unknown ids are a no-op.
func (r *Registry) RecolorFurniture(id string, c domain.Color) bool {
	f, _, ok := r.FurnitureByID(id)
	if !ok {
		return false
	}
	f.Color = c
	return true
}

// DeleteFurniture removes an item from its owning area. Unknown ids are a
// no-op.
func (r *Registry) DeleteFurniture(id string) bool {
	for _, a := range r.areas {
		for i, f := range a.Furniture {
			if f.ID == id {
				a.Furniture = append(a.Furniture[:i], a.Furniture[i+1:]...)
				r.log.Info("furniture deleted", slog.String("area", a.ID), slog.String("id", id))
				return true
			}
		}
	}
	return false
}

// Replace swaps the registry content atomically. Used by import: the caller
// decodes and validates the whole file first, so a failed import never
// leaves partial state behind.
func (r *Registry) Replace(areas []*domain.Area) {
	r.areas = append([]*domain.Area(nil), areas...)
	r.byID = make(map[string]*domain.Area, len(areas))
	for _, a := range r.areas {
		r.byID[a.ID] = a
	}
}

// Clear removes all areas.
func (r *Registry) Clear() { r.Replace(nil) }
