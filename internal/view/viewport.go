/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package view owns the zoom/pan state of the plan canvas and the mapping
// between screen (pointer) coordinates and world (grid) coordinates. The
// renderer applies scale(zoom) then translate(pan), so the inverse mapping
// here divides by zoom before subtracting the pan offset. Transform and
// inverse are exact inverses; grid snapping is a separate, later step.
package view

import "floorplanner/internal/geometry"

const (
	MinZoom     = 0.1
	MaxZoom     = 5.0
	ZoomStep    = 1.2
	DefaultZoom = 1.0
)

// Viewport holds the zoom level and pan offset for one canvas. It is a
// single-writer state container: all mutation happens on the UI event loop.
type Viewport struct {
	zoom   float64
	pan    geometry.Point
	canvas geometry.Size // world extent used for pan clamping

	onChange func()
}

// New returns a viewport at the default zoom over a canvas of the given
// world extent.
func New(canvas geometry.Size) *Viewport {
	return &Viewport{zoom: DefaultZoom, canvas: canvas}
}

// OnChange registers a callback fired after every accepted zoom/pan change;
// the canvas uses it to re-render grid and ruler overlays.
func (v *Viewport) OnChange(fn func()) { v.onChange = fn }

func (v *Viewport) notify() {
	if v.onChange != nil {
		v.onChange()
	}
}

// Zoom returns the current zoom level.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current pan offset in world units.
func (v *Viewport) Pan() geometry.Point { return v.pan }

// SetCanvasSize updates the world extent used for pan clamping.
func (v *Viewport) SetCanvasSize(s geometry.Size) {
	v.canvas = s
	v.pan = v.clampPan(v.pan)
}

// ScreenToWorld converts a pointer position (already relative to the canvas
// origin, in CSS/display pixels) to world coordinates. Device pixel ratio is
// a rendering concern and never enters this mapping.
func (v *Viewport) ScreenToWorld(screen geometry.Point) geometry.Point {
	return geometry.Point{
		X: screen.X/v.zoom - v.pan.X,
		Y: screen.Y/v.zoom - v.pan.Y,
	}
}

// WorldToScreen is the exact inverse of ScreenToWorld.
func (v *Viewport) WorldToScreen(world geometry.Point) geometry.Point {
	return geometry.Point{
		X: (world.X + v.pan.X) * v.zoom,
		Y: (world.Y + v.pan.Y) * v.zoom,
	}
}

// ScreenToWorldSnapped converts and snaps to the grid in one step, the form
// the drawing and placement handlers consume.
func (v *Viewport) ScreenToWorldSnapped(screen geometry.Point, gridSize float64) geometry.Point {
	return geometry.SnapPoint(v.ScreenToWorld(screen), gridSize)
}

// SetZoom clamps and applies a zoom level, keeping the pan inside bounds.
func (v *Viewport) SetZoom(zoom float64) {
	v.zoom = clamp(zoom, MinZoom, MaxZoom)
	v.pan = v.clampPan(v.pan)
	v.notify()
}

// ZoomIn increases zoom by the fixed step.
func (v *Viewport) ZoomIn() { v.SetZoom(v.zoom * ZoomStep) }

// ZoomOut decreases zoom by the fixed step.
func (v *Viewport) ZoomOut() { v.SetZoom(v.zoom / ZoomStep) }

// ZoomAt applies newZoom while keeping the world point currently under the
// given screen point fixed on screen, so wheel zoom is optically anchored at
// the cursor instead of the canvas origin.
func (v *Viewport) ZoomAt(screen geometry.Point, newZoom float64) {
	newZoom = clamp(newZoom, MinZoom, MaxZoom)
	worldBefore := v.ScreenToWorld(screen)
	v.zoom = newZoom
	// Solve screen = (world + pan') * zoom' for pan'.
	v.pan = v.clampPan(geometry.Point{
		X: screen.X/newZoom - worldBefore.X,
		Y: screen.Y/newZoom - worldBefore.Y,
	})
	v.notify()
}

// PanBy adds a delta (in world units) to the pan offset, clamped so content
// can never drift arbitrarily far from view.
func (v *Viewport) PanBy(delta geometry.Point) {
	v.pan = v.clampPan(v.pan.Add(delta))
	v.notify()
}

// Reset restores the default zoom and a centered pan.
func (v *Viewport) Reset() {
	v.zoom = DefaultZoom
	v.pan = geometry.Point{}
	v.notify()
}

// clampPan bounds the offset to the canvas extent divided by zoom per axis,
// which always leaves some content reachable.
func (v *Viewport) clampPan(p geometry.Point) geometry.Point {
	if v.canvas.Width <= 0 || v.canvas.Height <= 0 {
		return p
	}
	bx := v.canvas.Width / v.zoom
	by := v.canvas.Height / v.zoom
	return geometry.Point{X: clamp(p.X, -bx, bx), Y: clamp(p.Y, -by, by)}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
