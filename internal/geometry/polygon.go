/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package geometry

import "math"

// PointInPolygon tests if a point is inside a polygon using even-odd ray
// casting. The polygon is implicitly closed (last vertex connects to the
// first) and no winding order is assumed.
//
// Boundary behavior follows from the strict inequality on the Y comparison:
// a point on the polygon's left/bottom boundary counts as inside, a point on
// the right/top boundary as outside. Callers rely on this being consistent,
// not on any particular edge being "in".
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}

// PolygonArea returns the unsigned area of the polygon in square world
// pixels via the shoelace formula. Fewer than 3 points yields 0.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return math.Abs(sum) / 2
}

// PolygonAreaSqFt converts the shoelace area to square feet for the given
// grid size and rounds to the nearest whole foot.
func PolygonAreaSqFt(points []Point, gridSize float64) int {
	if gridSize <= 0 {
		return 0
	}
	return int(math.Round(PolygonArea(points) / (gridSize * gridSize)))
}

// Centroid returns the arithmetic mean of the vertices. This is an
// approximation of the true area centroid, good enough for label placement.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point{X: sumX / n, Y: sumY / n}
}

// RectCorners returns the four corners of an axis-aligned rectangle of the
// given size centered at center, in NW, NE, SE, SW order.
func RectCorners(center Point, size Size) [4]Point {
	hw := size.Width / 2
	hh := size.Height / 2
	return [4]Point{
		{X: center.X - hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y + hh},
	}
}

// CornersInside reports whether all four corners of the rectangle of the
// given size centered at center lie inside the polygon. This is the
// containment predicate behind every furniture placement, move and resize.
func CornersInside(polygon []Point, center Point, size Size) bool {
	for _, c := range RectCorners(center, size) {
		if !PointInPolygon(c, polygon) {
			return false
		}
	}
	return true
}
