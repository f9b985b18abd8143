/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package layout seeds a fresh design from room dimension requests. It is a
// greedy shelf packer: requests are sorted by height, laid out left to right
// in rows, and a new row starts when the bound width is exceeded. Output
// rectangles never overlap, which is all the editor needs to promote them
// into areas.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
)

// Request is one room to place, in feet.
type Request struct {
	Type     domain.AreaType
	WidthFt  float64
	HeightFt float64
	Label    string
}

// Placed is one packed rectangle, in feet, origin at the top-left.
type Placed struct {
	Request
	XFt float64
	YFt float64
	// Color is the type's default, carried so callers can render the
	// preview without reaching back into the domain tables.
	Color domain.Color
}

// ErrTooWide is returned when a single request is wider than the bound.
var ErrTooWide = errors.New("room wider than layout bound")

// GutterFt is the spacing between packed rooms.
const GutterFt = 1.0

// Pack places the requests inside a strip of the given width. Height grows
// as needed; the used extent is returned alongside the placements. Requests
// keep their orientation (no rotation), and ties in height preserve input
// order so the result is deterministic.
func Pack(requests []Request, boundWidthFt float64) ([]Placed, domain.CanvasSizeFt, error) {
	if boundWidthFt <= 0 {
		return nil, domain.CanvasSizeFt{}, errors.New("bound width must be positive")
	}
	for _, r := range requests {
		if r.WidthFt <= 0 || r.HeightFt <= 0 {
			return nil, domain.CanvasSizeFt{}, fmt.Errorf("room %q has non-positive dimensions", r.Type)
		}
		if r.WidthFt > boundWidthFt {
			return nil, domain.CanvasSizeFt{}, fmt.Errorf("%w: %q is %g ft against a %g ft bound", ErrTooWide, r.Type, r.WidthFt, boundWidthFt)
		}
	}

	order := make([]Request, len(requests))
	copy(order, requests)
	sort.SliceStable(order, func(i, j int) bool { return order[i].HeightFt > order[j].HeightFt })

	var (
		placed     []Placed
		x, y       float64
		rowHeight  float64
		usedWidth  float64
		usedHeight float64
	)
	for _, r := range order {
		if x > 0 && x+r.WidthFt > boundWidthFt {
			// Start a new shelf.
			y += rowHeight + GutterFt
			x = 0
			rowHeight = 0
		}
		placed = append(placed, Placed{
			Request: r,
			XFt:     x,
			YFt:     y,
			Color:   r.Type.DefaultColor(),
		})
		if x+r.WidthFt > usedWidth {
			usedWidth = x + r.WidthFt
		}
		if y+r.HeightFt > usedHeight {
			usedHeight = y + r.HeightFt
		}
		x += r.WidthFt + GutterFt
		if r.HeightFt > rowHeight {
			rowHeight = r.HeightFt
		}
	}
	return placed, domain.CanvasSizeFt{WidthFt: usedWidth, HeightFt: usedHeight}, nil
}

// Corners returns the placement's rectangle as polygon vertices in world
// pixels, ready for area creation.
func (p Placed) Corners(gridSize float64) []geometry.Point {
	x := p.XFt * gridSize
	y := p.YFt * gridSize
	w := p.WidthFt * gridSize
	h := p.HeightFt * gridSize
	return []geometry.Point{
		geometry.Pt(x, y),
		geometry.Pt(x+w, y),
		geometry.Pt(x+w, y+h),
		geometry.Pt(x, y+h),
	}
}

// Overlaps reports whether two placements intersect with positive area.
// Shared edges (including the gutter) do not count.
func Overlaps(a, b Placed) bool {
	return a.XFt < b.XFt+b.WidthFt && b.XFt < a.XFt+a.WidthFt &&
		a.YFt < b.YFt+b.HeightFt && b.YFt < a.YFt+a.HeightFt
}
