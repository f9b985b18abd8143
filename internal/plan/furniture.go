/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package plan

import (
	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
)

const (
	// MinFurnitureSize and MaxFurnitureSize clamp each dimension during a
	// resize, in world pixels.
	MinFurnitureSize = 20.0
	MaxFurnitureSize = 300.0

	// DefaultFurnitureWidth/Height apply when a catalog entry carries no
	// size of its own.
	DefaultFurnitureWidth  = 60.0
	DefaultFurnitureHeight = 40.0

	// HandleHitRadius is the base hit radius for corner handles in screen
	// pixels. It is divided by zoom before the world-space hit test, so
	// handles stay touchable when zoomed out.
	HandleHitRadius = 30.0
)

// Handle identifies one corner resize handle.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
)

// ControllerState is the furniture controller's state.
type ControllerState int

const (
	CtrlIdle ControllerState = iota
	CtrlPlacementPending
	CtrlDragging
	CtrlResizing
)

// Controller is the furniture interaction state machine: placement mode,
// drag-to-move and corner-handle resize. Every proposed mutation is gated by
// the registry's containment check; a rejected frame leaves the item where
// it was, which reads as rubber-banding at the polygon boundary.
type Controller struct {
	registry *Registry

	state      ControllerState
	selectedID string

	// placement mode
	placeName   string
	placeColor  domain.Color
	placeSize   geometry.Size
	placeAreaID string

	// active drag/resize
	activeID string
	handle   Handle
}

// NewController returns an idle controller over the registry.
func NewController(reg *Registry) *Controller {
	return &Controller{registry: reg}
}

// State returns the current controller state.
func (c *Controller) State() ControllerState { return c.state }

// Selected returns the id of the selected item, if any. At most one item is
// selected globally.
func (c *Controller) Selected() (string, bool) {
	return c.selectedID, c.selectedID != ""
}

// SelectFromCatalog arms placement mode: the next tap inside the target area
// places a new item there. A zero size falls back to the default footprint.
func (c *Controller) SelectFromCatalog(name string, size geometry.Size, color domain.Color, areaID string) {
	if size.Width <= 0 || size.Height <= 0 {
		size = geometry.Size{Width: DefaultFurnitureWidth, Height: DefaultFurnitureHeight}
	}
	c.state = CtrlPlacementPending
	c.placeName = name
	c.placeSize = size
	c.placeColor = color
	c.placeAreaID = areaID
}

// Tap handles a tap while placement is pending. A tap whose rectangle fits
// inside the target polygon places the item and returns it; a tap outside
// leaves placement armed so the user can try again.
func (c *Controller) Tap(p geometry.Point) (*domain.FurnitureItem, bool) {
	if c.state != CtrlPlacementPending {
		return nil, false
	}
	area, ok := c.registry.AreaByID(c.placeAreaID)
	if !ok {
		c.state = CtrlIdle
		return nil, false
	}
	if !geometry.PointInPolygon(p, area.Points) {
		return nil, false
	}
	item := &domain.FurnitureItem{
		Name:     c.placeName,
		Color:    c.placeColor,
		Position: p,
		Size:     c.placeSize,
	}
	if err := c.registry.AddFurniture(area.ID, item); err != nil {
		return nil, false
	}
	c.state = CtrlIdle
	c.selectedID = item.ID
	return item, true
}

// CancelPlacement disarms placement mode.
func (c *Controller) CancelPlacement() {
	if c.state == CtrlPlacementPending {
		c.state = CtrlIdle
	}
}

// PointerDown starts a drag or resize. Handle hit tests run first and only
// against the selected item; then furniture AABBs are scanned. A miss on
// both clears the selection.
func (c *Controller) PointerDown(p geometry.Point, zoom float64) {
	if c.state != CtrlIdle {
		return
	}
	if c.selectedID != "" {
		if f, _, ok := c.registry.FurnitureByID(c.selectedID); ok {
			if h := handleAt(f, p, zoom); h != HandleNone {
				c.state = CtrlResizing
				c.activeID = f.ID
				c.handle = h
				return
			}
		}
	}
	if f, ok := c.registry.FurnitureAt(p); ok {
		c.state = CtrlDragging
		c.activeID = f.ID
		c.selectedID = f.ID
		return
	}
	c.selectedID = ""
}

// PointerMove proposes the current drag or resize frame. Rejected frames are
// silent: the item simply does not follow the pointer past the boundary.
func (c *Controller) PointerMove(p geometry.Point) {
	switch c.state {
	case CtrlDragging:
		c.registry.MoveFurniture(c.activeID, p)
	case CtrlResizing:
		f, _, ok := c.registry.FurnitureByID(c.activeID)
		if !ok {
			return
		}
		c.registry.ResizeFurniture(c.activeID, resizeCandidate(f, c.handle, p))
	}
}

// PointerUp ends the active drag or resize. Selection persists.
func (c *Controller) PointerUp() {
	if c.state == CtrlDragging || c.state == CtrlResizing {
		c.state = CtrlIdle
		c.activeID = ""
		c.handle = HandleNone
	}
}

// Select marks an item as the global selection, or clears it with "".
func (c *Controller) Select(id string) { c.selectedID = id }

// handleAt hit-tests the four corner handles of the item against a world
// point. The radius shrinks with zoom so it is constant in screen space.
func handleAt(f *domain.FurnitureItem, p geometry.Point, zoom float64) Handle {
	if zoom <= 0 {
		zoom = 1
	}
	r := HandleHitRadius / zoom
	corners := geometry.RectCorners(f.Position, f.Size)
	order := []Handle{HandleNW, HandleNE, HandleSE, HandleSW}
	for i, c := range corners {
		if p.Distance(c) <= r {
			return order[i]
		}
	}
	return HandleNone
}

// resizeCandidate derives the proposed size from the handle direction and
// the pointer's displacement from the fixed center. Each dimension is twice
// the displacement along its axis, clamped to the size limits. The center
// never moves.
func resizeCandidate(f *domain.FurnitureItem, h Handle, p geometry.Point) geometry.Size {
	var dx, dy float64
	switch h {
	case HandleNE, HandleSE:
		dx = p.X - f.Position.X
	case HandleNW, HandleSW:
		dx = f.Position.X - p.X
	}
	switch h {
	case HandleSW, HandleSE:
		dy = p.Y - f.Position.Y
	case HandleNW, HandleNE:
		dy = f.Position.Y - p.Y
	}
	return geometry.Size{
		Width:  clampSize(2 * dx),
		Height: clampSize(2 * dy),
	}
}

func clampSize(v float64) float64 {
	if v < MinFurnitureSize {
		return MinFurnitureSize
	}
	if v > MaxFurnitureSize {
		return MaxFurnitureSize
	}
	return v
}
