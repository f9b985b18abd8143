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

import (
	"image/color"
	"testing"

	"floorplanner/internal/geometry"
)

func TestParseAreaType(t *testing.T) {
	for _, at := range AreaTypes() {
		got, err := ParseAreaType(string(at))
		if err != nil || got != at {
			t.Fatalf("ParseAreaType(%q) = %v, %v", at, got, err)
		}
		if !at.DefaultColor().Valid() {
			t.Fatalf("%q default color %q not valid", at, at.DefaultColor())
		}
	}
	if _, err := ParseAreaType("dungeon"); err == nil {
		t.Fatalf("unknown tag should be rejected")
	}
}

func TestColorRoundTrip(t *testing.T) {
	c := Color("#1a2b3c")
	if !c.Valid() {
		t.Fatalf("%q should be valid", c)
	}
	rgba := c.RGBA()
	want := color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}
	if rgba != want {
		t.Fatalf("RGBA = %v, want %v", rgba, want)
	}
	if back := ColorFromRGBA(rgba); back != c {
		t.Fatalf("round trip = %q, want %q", back, c)
	}
}

func TestColorInvalid(t *testing.T) {
	for _, s := range []string{"", "#fff", "1a2b3c", "#1a2b3g"} {
		if Color(s).Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
	// Malformed colors decode to the visible gray fallback.
	if got := Color("bogus").RGBA(); got != (color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xff}) {
		t.Fatalf("fallback = %v", got)
	}
}

func TestFurnitureBounds(t *testing.T) {
	f := &FurnitureItem{Position: geometry.Pt(100, 50), Size: geometry.Size{Width: 60, Height: 40}}
	b := f.Bounds()
	want := geometry.Rect{X: 70, Y: 30, Width: 60, Height: 40}
	if b != want {
		t.Fatalf("bounds = %v, want %v", b, want)
	}
}
