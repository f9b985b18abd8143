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
	"math"
	"testing"
	"time"

	"floorplanner/internal/domain"
	"floorplanner/internal/geometry"
)

func buildSample(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	a := mustArea(t, r, square(0, 0, 400), domain.AreaKitchen)
	item := &domain.FurnitureItem{
		Name:     "island",
		Color:    "#654321",
		Position: geometry.Pt(200, 160),
		Size:     geometry.Size{Width: 120, Height: 80},
	}
	if err := r.AddFurniture(a.ID, item); err != nil {
		t.Fatal(err)
	}
	plain := &domain.FurnitureItem{
		Name:     "stool",
		Position: geometry.Pt(100, 300),
		Size:     geometry.Size{Width: 40, Height: 40},
	}
	if err := r.AddFurniture(a.ID, plain); err != nil {
		t.Fatal(err)
	}
	mustArea(t, r, []geometry.Point{
		geometry.Pt(500, 0), geometry.Pt(700, 100), geometry.Pt(500, 200),
	}, domain.AreaHallway)
	return r
}

// Export then import reproduces ids, types, geometry and square footage.
func TestExportImportRoundTrip(t *testing.T) {
	r := buildSample(t)
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	df := r.Encode("flat", domain.DefaultCanvasSize, now)

	if df.ExportedAt != now {
		t.Fatalf("exportedAt = %v", df.ExportedAt)
	}
	// Geometry is normalized to feet: 400 px at 20 px/ft is 20 ft.
	if df.Areas[0].Points[2] != [2]float64{20, 20} {
		t.Fatalf("point not normalized: %v", df.Areas[0].Points[2])
	}
	if df.Areas[0].Furniture[1].Color != nil {
		t.Fatalf("unset color must export as null")
	}

	other := NewRegistry()
	if err := other.Import(df); err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := r.Areas()
	got := other.Areas()
	if len(got) != len(want) {
		t.Fatalf("areas = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Type != want[i].Type || got[i].AreaSqFt != want[i].AreaSqFt {
			t.Fatalf("area %d mismatch: %+v vs %+v", i, got[i], want[i])
		}
		if len(got[i].Points) != len(want[i].Points) {
			t.Fatalf("area %d point count mismatch", i)
		}
		for j := range want[i].Points {
			if math.Abs(got[i].Points[j].X-want[i].Points[j].X) > 1e-9 ||
				math.Abs(got[i].Points[j].Y-want[i].Points[j].Y) > 1e-9 {
				t.Fatalf("area %d point %d: %v vs %v", i, j, got[i].Points[j], want[i].Points[j])
			}
		}
		if len(got[i].Furniture) != len(want[i].Furniture) {
			t.Fatalf("area %d furniture count mismatch", i)
		}
		for j := range want[i].Furniture {
			g, w := got[i].Furniture[j], want[i].Furniture[j]
			if g.ID != w.ID || g.Name != w.Name || g.Color != w.Color {
				t.Fatalf("furniture %d/%d: %+v vs %+v", i, j, g, w)
			}
			if math.Abs(g.Position.X-w.Position.X) > 1e-9 || math.Abs(g.Size.Width-w.Size.Width) > 1e-9 {
				t.Fatalf("furniture %d/%d geometry drifted", i, j)
			}
		}
	}
}

// A file with an unknown area type is rejected as a whole; the registry is
// left exactly as it was.
func TestImportRejectsUnknownTypeAtomically(t *testing.T) {
	r := buildSample(t)
	before := len(r.Areas())

	df := r.Encode("flat", domain.DefaultCanvasSize, time.Now())
	df.Areas = append(df.Areas, domain.AreaRecord{
		ID:     "x",
		Type:   "dungeon",
		Points: [][2]float64{{0, 0}, {1, 0}, {1, 1}},
	})
	if err := r.Import(df); err == nil {
		t.Fatalf("unknown type must reject the import")
	}
	if len(r.Areas()) != before {
		t.Fatalf("failed import mutated the registry")
	}
}

func TestImportRejectsDegeneratePolygon(t *testing.T) {
	r := NewRegistry()
	df := domain.DesignFile{Areas: []domain.AreaRecord{{
		ID:     "a",
		Type:   string(domain.AreaLiving),
		Points: [][2]float64{{0, 0}, {5, 0}},
	}}}
	if err := r.Import(df); err == nil {
		t.Fatalf("2-point polygon must reject")
	}
}

func TestImportRecomputesSquareFootage(t *testing.T) {
	r := NewRegistry()
	df := domain.DesignFile{Areas: []domain.AreaRecord{{
		ID:       "a",
		Type:     string(domain.AreaLiving),
		Color:    "#b5d99c",
		Points:   [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}},
		AreaSqFt: 9999, // stale value in the file is ignored
	}}}
	if err := r.Import(df); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := r.Areas()[0].AreaSqFt; got != 100 {
		t.Fatalf("areaSqFt = %d, want recomputed 100", got)
	}
}

func TestImportInvalidAreaColorFallsBack(t *testing.T) {
	r := NewRegistry()
	df := domain.DesignFile{Areas: []domain.AreaRecord{{
		ID:     "a",
		Type:   string(domain.AreaBedroom),
		Color:  "teal",
		Points: [][2]float64{{0, 0}, {10, 0}, {10, 10}},
	}}}
	if err := r.Import(df); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := r.Areas()[0].Color; got != domain.AreaBedroom.DefaultColor() {
		t.Fatalf("color = %q, want type default", got)
	}
}
