/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package layout

import (
	"errors"
	"math/rand"
	"testing"

	"floorplanner/internal/domain"
)

func TestPackRows(t *testing.T) {
	reqs := []Request{
		{Type: domain.AreaLiving, WidthFt: 20, HeightFt: 15},
		{Type: domain.AreaBedroom, WidthFt: 12, HeightFt: 10},
		{Type: domain.AreaKitchen, WidthFt: 10, HeightFt: 10},
	}
	placed, canvas, err := Pack(reqs, 36)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(placed) != 3 {
		t.Fatalf("placed = %d", len(placed))
	}
	// Tallest first on the first shelf.
	if placed[0].Type != domain.AreaLiving || placed[0].XFt != 0 || placed[0].YFt != 0 {
		t.Fatalf("first placement = %+v", placed[0])
	}
	// Bedroom fits beside it (20 + gutter + 12 = 33 <= 36).
	if placed[1].XFt != 21 || placed[1].YFt != 0 {
		t.Fatalf("second placement = %+v", placed[1])
	}
	// Kitchen wraps to a second shelf below the 15 ft row plus gutter.
	if placed[2].XFt != 0 || placed[2].YFt != 16 {
		t.Fatalf("third placement = %+v", placed[2])
	}
	if canvas.WidthFt != 33 || canvas.HeightFt != 26 {
		t.Fatalf("canvas = %+v", canvas)
	}
}

func TestPackRejectsBadInput(t *testing.T) {
	if _, _, err := Pack([]Request{{Type: domain.AreaHallway, WidthFt: 40, HeightFt: 4}}, 30); !errors.Is(err, ErrTooWide) {
		t.Fatalf("err = %v, want ErrTooWide", err)
	}
	if _, _, err := Pack([]Request{{Type: domain.AreaHallway, WidthFt: 0, HeightFt: 4}}, 30); err == nil {
		t.Fatalf("zero dimension accepted")
	}
	if _, _, err := Pack(nil, 0); err == nil {
		t.Fatalf("zero bound accepted")
	}
}

// Random request sets never produce overlapping placements.
func TestPackNeverOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	types := domain.AreaTypes()
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(12)
		reqs := make([]Request, n)
		for i := range reqs {
			reqs[i] = Request{
				Type:     types[rng.Intn(len(types))],
				WidthFt:  1 + rng.Float64()*24,
				HeightFt: 1 + rng.Float64()*18,
			}
		}
		placed, canvas, err := Pack(reqs, 40)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		for i := range placed {
			if placed[i].XFt+placed[i].WidthFt > 40+1e-9 {
				t.Fatalf("trial %d: placement %d exceeds bound", trial, i)
			}
			for j := i + 1; j < len(placed); j++ {
				if Overlaps(placed[i], placed[j]) {
					t.Fatalf("trial %d: placements %d and %d overlap", trial, i, j)
				}
			}
		}
		if canvas.WidthFt > 40+1e-9 {
			t.Fatalf("trial %d: canvas wider than bound", trial)
		}
	}
}

func TestPlacedCorners(t *testing.T) {
	p := Placed{Request: Request{WidthFt: 10, HeightFt: 5}, XFt: 2, YFt: 3}
	c := p.Corners(20)
	if c[0].X != 40 || c[0].Y != 60 || c[2].X != 240 || c[2].Y != 160 {
		t.Fatalf("corners = %v", c)
	}
}
