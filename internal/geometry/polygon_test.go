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

import (
	"math"
	"testing"
)

func square10() []Point {
	return []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
}

func TestPointInPolygonSquare(t *testing.T) {
	sq := square10()

	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"center", Pt(5, 5), true},
		{"right outside", Pt(15, 5), false},
		{"negative outside", Pt(-1, -1), false},
		// Boundary choice: the edge at x=0 counts as inside, the edge at
		// x=10 as outside. Both are asserted so a regression in either
		// direction is caught.
		{"left edge", Pt(0, 5), true},
		{"right edge", Pt(10, 5), false},
	}
	for _, tc := range cases {
		if got := PointInPolygon(tc.p, sq); got != tc.want {
			t.Errorf("%s: PointInPolygon(%v) = %v, want %v", tc.name, tc.p, got, tc.want)
		}
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	if PointInPolygon(Pt(0, 0), nil) {
		t.Fatalf("empty polygon should contain nothing")
	}
	if PointInPolygon(Pt(1, 1), []Point{{0, 0}, {2, 2}}) {
		t.Fatalf("two-point polygon should contain nothing")
	}
}

func TestPointInPolygonConcave(t *testing.T) {
	// L-shape: the notch at the top right must be outside.
	l := []Point{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}
	if !PointInPolygon(Pt(2, 8), l) {
		t.Fatalf("(2,8) should be inside the L")
	}
	if PointInPolygon(Pt(8, 8), l) {
		t.Fatalf("(8,8) is in the notch, should be outside")
	}
}

func TestPolygonArea(t *testing.T) {
	if got := PolygonArea(square10()); got != 100 {
		t.Fatalf("square area = %v, want 100", got)
	}
	tri := []Point{{0, 0}, {10, 0}, {0, 10}}
	if got := PolygonArea(tri); got != 50 {
		t.Fatalf("triangle area = %v, want 50", got)
	}
	// Winding order must not matter.
	rev := []Point{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if got := PolygonArea(rev); got != 100 {
		t.Fatalf("reversed square area = %v, want 100", got)
	}
	if got := PolygonArea([]Point{{0, 0}, {1, 1}}); got != 0 {
		t.Fatalf("degenerate polygon area = %v, want 0", got)
	}
}

func TestPolygonAreaSqFt(t *testing.T) {
	// 10x10 grid units at gridSize=1 is 100 sq units.
	if got := PolygonAreaSqFt(square10(), 1); got != 100 {
		t.Fatalf("sqft at grid 1 = %d, want 100", got)
	}
	// A GridSize x GridSize square is exactly one square foot.
	ft := []Point{{0, 0}, {GridSize, 0}, {GridSize, GridSize}, {0, GridSize}}
	if got := PolygonAreaSqFt(ft, GridSize); got != 1 {
		t.Fatalf("one-foot square = %d, want 1", got)
	}
	if got := PolygonAreaSqFt(square10(), 0); got != 0 {
		t.Fatalf("zero grid size should yield 0, got %d", got)
	}
}

func TestCentroid(t *testing.T) {
	c := Centroid(square10())
	if c.X != 5 || c.Y != 5 {
		t.Fatalf("centroid = %v, want (5,5)", c)
	}
	if z := Centroid(nil); z != (Point{}) {
		t.Fatalf("empty centroid = %v, want zero", z)
	}
}

func TestRectCorners(t *testing.T) {
	corners := RectCorners(Pt(10, 10), Size{Width: 4, Height: 2})
	want := [4]Point{{8, 9}, {12, 9}, {12, 11}, {8, 11}}
	if corners != want {
		t.Fatalf("corners = %v, want %v", corners, want)
	}
}

func TestCornersInside(t *testing.T) {
	sq := square10()
	if !CornersInside(sq, Pt(5, 5), Size{Width: 4, Height: 4}) {
		t.Fatalf("4x4 at center should fit in 10x10")
	}
	if CornersInside(sq, Pt(9, 5), Size{Width: 4, Height: 4}) {
		t.Fatalf("4x4 at (9,5) overhangs the right edge")
	}
	if CornersInside(sq, Pt(5, 5), Size{Width: 30, Height: 30}) {
		t.Fatalf("oversized rect cannot fit")
	}
}

func TestSnapToGrid(t *testing.T) {
	cases := []struct {
		in, grid, want float64
	}{
		{23, 20, 20},
		{31, 20, 40},
		{-9, 20, 0},
		{-11, 20, -20},
		{50, 20, 60}, // round half away from zero, math.Round semantics
	}
	for _, tc := range cases {
		if got := SnapToGrid(tc.in, tc.grid); got != tc.want {
			t.Errorf("SnapToGrid(%v,%v) = %v, want %v", tc.in, tc.grid, got, tc.want)
		}
	}
}

func TestDistanceAndBoundingBox(t *testing.T) {
	if d := Pt(0, 0).Distance(Pt(3, 4)); math.Abs(d-5) > 1e-12 {
		t.Fatalf("distance = %v, want 5", d)
	}
	bb := BoundingBox([]Point{{1, 2}, {-3, 7}, {4, -1}})
	want := Rect{X: -3, Y: -1, Width: 7, Height: 8}
	if bb != want {
		t.Fatalf("bbox = %v, want %v", bb, want)
	}
}

func TestRectContainsAndCenter(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 6}
	if !r.Contains(Pt(0, 0)) || !r.Contains(Pt(10, 6)) {
		t.Fatalf("rect edges should be inclusive")
	}
	if r.Contains(Pt(11, 3)) {
		t.Fatalf("(11,3) is outside")
	}
	if c := r.Center(); c != Pt(5, 3) {
		t.Fatalf("center = %v, want (5,3)", c)
	}
}
