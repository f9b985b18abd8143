/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package geometry provides the pure geometric primitives the plan editor is
// built on: points and rectangles in world (grid-pixel) coordinates, polygon
// predicates, and grid snapping. Everything here is stateless and
// side-effect free.
package geometry

import "math"

// GridSize is the fixed number of world pixels per foot. Snapping, square
// footage and unit conversion all derive from this constant.
const GridSize = 20.0

// Point is a 2D point in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns the sum of two points.
func (p Point) Add(other Point) Point { return Point{X: p.X + other.X, Y: p.Y + other.Y} }

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point { return Point{X: p.X - other.X, Y: p.Y - other.Y} }

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point { return Point{X: p.X * factor, Y: p.Y * factor} }

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Size is a width/height pair in world pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle in world coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains returns true if the point lies inside the rectangle (edges
// inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// RectAround returns the axis-aligned rectangle of the given size centered at
// center.
func RectAround(center Point, size Size) Rect {
	return Rect{
		X:      center.X - size.Width/2,
		Y:      center.Y - size.Height/2,
		Width:  size.Width,
		Height: size.Height,
	}
}

// SnapToGrid rounds a raw coordinate to the nearest grid line.
func SnapToGrid(value, gridSize float64) float64 {
	return math.Round(value/gridSize) * gridSize
}

// SnapPoint snaps both coordinates of a point to the grid.
func SnapPoint(p Point, gridSize float64) Point {
	return Point{X: SnapToGrid(p.X, gridSize), Y: SnapToGrid(p.Y, gridSize)}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
